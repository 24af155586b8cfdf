package repositories

import (
	"context"
	"errors"
	"time"

	"gatehouse/internal/apperrors"
	"gatehouse/internal/database"
	"gatehouse/internal/logger"
	. "gatehouse/internal/models"
	"gatehouse/internal/services"

	"gorm.io/gorm"
)

type VisitorRepository interface {
	GetByID(ctx context.Context, id string) (*Visitor, error)
	GetByAddress(ctx context.Context, addressID string) ([]*Visitor, error)
	Create(ctx context.Context, visitor *Visitor) error
	Update(ctx context.Context, visitor *Visitor) error
	CountByAddress(ctx context.Context, addressID string) (int64, error)
	FindActiveByCode(ctx context.Context, code, addressID string, now time.Time) (*Visitor, error)
	FindActiveByName(ctx context.Context, firstName, lastName, addressID string, now time.Time) (*Visitor, error)
	TouchLastUsed(ctx context.Context, id string, now time.Time) error
	OwnedIDs(ctx context.Context, memberID string, ids []string) ([]string, error)
	BulkExtend(ctx context.Context, ids []string, expiresAt time.Time) (int64, error)
	BulkRevoke(ctx context.Context, ids []string) (int64, error)
	IDsWithCheckIns(ctx context.Context, ids []string) ([]string, error)
	HardDeleteBatch(ctx context.Context, ids []string) (int64, error)
}

type visitorRepository struct {
	db  database.DB
	log logger.Logger
}

func NewVisitor(db database.DB) VisitorRepository {
	return &visitorRepository{
		db:  db,
		log: logger.New("visitorRepository"),
	}
}

func (r *visitorRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *visitorRepository) GetByID(ctx context.Context, id string) (*Visitor, error) {
	log := r.log.Function("GetByID")

	var visitor Visitor
	if err := r.getDB(ctx).First(&visitor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("visitor %s", id)
		}
		return nil, log.Err("failed to get visitor", err, "id", id)
	}

	return &visitor, nil
}

func (r *visitorRepository) GetByAddress(ctx context.Context, addressID string) ([]*Visitor, error) {
	log := r.log.Function("GetByAddress")

	var visitors []*Visitor
	if err := r.getDB(ctx).
		Where("address_id = ?", addressID).
		Order("created_at DESC").
		Find(&visitors).Error; err != nil {
		return nil, log.Err("failed to get visitors for address", err, "addressID", addressID)
	}

	return visitors, nil
}

func (r *visitorRepository) Create(ctx context.Context, visitor *Visitor) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(visitor).Error; err != nil {
		return log.Err("failed to create visitor", err, "visitor", visitor)
	}

	return nil
}

func (r *visitorRepository) Update(ctx context.Context, visitor *Visitor) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(visitor).Error; err != nil {
		return log.Err("failed to update visitor", err, "visitor", visitor)
	}

	return nil
}

func (r *visitorRepository) CountByAddress(ctx context.Context, addressID string) (int64, error) {
	log := r.log.Function("CountByAddress")

	var count int64
	if err := r.getDB(ctx).Model(&Visitor{}).
		Where("address_id = ?", addressID).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count visitors for address", err, "addressID", addressID)
	}

	return count, nil
}

// FindActiveByCode matches the compound (code, address) key. Codes are
// address-scoped: the same code at another address never matches.
func (r *visitorRepository) FindActiveByCode(ctx context.Context, code, addressID string, now time.Time) (*Visitor, error) {
	log := r.log.Function("FindActiveByCode")

	var visitor Visitor
	err := r.getDB(ctx).
		Where("access_code = ? AND address_id = ? AND is_active = ? AND expires_at > ?",
			code, addressID, true, now).
		First(&visitor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no active visitor for code at address %s", addressID)
		}
		return nil, log.Err("failed to verify access code", err, "addressID", addressID)
	}

	return &visitor, nil
}

func (r *visitorRepository) FindActiveByName(ctx context.Context, firstName, lastName, addressID string, now time.Time) (*Visitor, error) {
	log := r.log.Function("FindActiveByName")

	var visitor Visitor
	err := r.getDB(ctx).
		Where("LOWER(first_name) = LOWER(?) AND LOWER(last_name) = LOWER(?)", firstName, lastName).
		Where("address_id = ? AND is_active = ? AND expires_at > ?", addressID, true, now).
		First(&visitor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no active visitor named %s %s at address %s",
				firstName, lastName, addressID)
		}
		return nil, log.Err("failed to find visitor by name", err, "addressID", addressID)
	}

	return &visitor, nil
}

// TouchLastUsed is last-write-wins; rapid repeat verifications are fine.
func (r *visitorRepository) TouchLastUsed(ctx context.Context, id string, now time.Time) error {
	log := r.log.Function("TouchLastUsed")

	if err := r.getDB(ctx).Model(&Visitor{}).
		Where("id = ?", id).
		Update("last_used", now).Error; err != nil {
		return log.Err("failed to update last_used", err, "id", id)
	}

	return nil
}

// OwnedIDs returns the subset of ids whose visitor belongs to one of the
// member's addresses, as a single set-membership query.
func (r *visitorRepository) OwnedIDs(ctx context.Context, memberID string, ids []string) ([]string, error) {
	log := r.log.Function("OwnedIDs")

	if len(ids) == 0 {
		return nil, nil
	}

	var owned []string
	if err := r.getDB(ctx).Model(&Visitor{}).
		Joins("JOIN addresses ON addresses.id = visitors.address_id").
		Where("visitors.id IN ? AND addresses.member_id = ?", ids, memberID).
		Pluck("visitors.id", &owned).Error; err != nil {
		return nil, log.Err("failed to resolve owned visitor ids", err, "memberID", memberID)
	}

	return owned, nil
}

func (r *visitorRepository) BulkExtend(ctx context.Context, ids []string, expiresAt time.Time) (int64, error) {
	log := r.log.Function("BulkExtend")

	result := r.getDB(ctx).Model(&Visitor{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"expires_at": expiresAt, "is_active": true})
	if result.Error != nil {
		return 0, log.Err("failed to bulk extend visitors", result.Error, "ids", ids)
	}

	return result.RowsAffected, nil
}

func (r *visitorRepository) BulkRevoke(ctx context.Context, ids []string) (int64, error) {
	log := r.log.Function("BulkRevoke")

	result := r.getDB(ctx).Model(&Visitor{}).
		Where("id IN ?", ids).
		Update("is_active", false)
	if result.Error != nil {
		return 0, log.Err("failed to bulk revoke visitors", result.Error, "ids", ids)
	}

	return result.RowsAffected, nil
}

// IDsWithCheckIns partitions a candidate delete set: any visitor with
// check-in history is blocked from hard deletion.
func (r *visitorRepository) IDsWithCheckIns(ctx context.Context, ids []string) ([]string, error) {
	log := r.log.Function("IDsWithCheckIns")

	if len(ids) == 0 {
		return nil, nil
	}

	var blocked []string
	if err := r.getDB(ctx).Model(&CheckIn{}).
		Distinct("visitor_id").
		Where("visitor_id IN ?", ids).
		Pluck("visitor_id", &blocked).Error; err != nil {
		return nil, log.Err("failed to find visitors with check-in history", err, "ids", ids)
	}

	return blocked, nil
}

func (r *visitorRepository) HardDeleteBatch(ctx context.Context, ids []string) (int64, error) {
	log := r.log.Function("HardDeleteBatch")

	if len(ids) == 0 {
		return 0, nil
	}

	result := r.getDB(ctx).Unscoped().Delete(&Visitor{}, "id IN ?", ids)
	if result.Error != nil {
		return 0, log.Err("failed to hard delete visitors", result.Error, "ids", ids)
	}

	return result.RowsAffected, nil
}
