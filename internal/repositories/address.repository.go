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

const addressCacheExpiry = 1 * time.Hour

type AddressRepository interface {
	GetByID(ctx context.Context, id string) (*Address, error)
	GetByMember(ctx context.Context, memberID string) ([]*Address, error)
	GetByStatus(ctx context.Context, status AddressStatus) ([]*Address, error)
	Create(ctx context.Context, address *Address) error
	Update(ctx context.Context, address *Address) error
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	CountActiveByMember(ctx context.Context, memberID string) (int64, error)
	DemotePrimary(ctx context.Context, memberID string) error
	NewestActiveExcept(ctx context.Context, memberID, excludeID string) (*Address, error)
}

type addressRepository struct {
	db  database.DB
	log logger.Logger
}

func NewAddress(db database.DB) AddressRepository {
	return &addressRepository{
		db:  db,
		log: logger.New("addressRepository"),
	}
}

func (r *addressRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// GetByID reads through the General cache outside transactions. In-tx
// lookups always hit the database so uncommitted state never serves, and
// never fills the cache.
func (r *addressRepository) GetByID(ctx context.Context, id string) (*Address, error) {
	log := r.log.Function("GetByID")

	_, inTx := services.GetTransaction(ctx)
	if !inTx {
		if address, ok := r.cachedByID(ctx, id); ok {
			return address, nil
		}
	}

	var address Address
	if err := r.getDB(ctx).First(&address, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("address %s", id)
		}
		return nil, log.Err("failed to get address", err, "id", id)
	}

	if !inTx {
		r.fillCache(ctx, &address)
	}

	return &address, nil
}

func addressCacheKey(id string) string {
	return "address:" + id
}

func (r *addressRepository) cachedByID(ctx context.Context, id string) (*Address, bool) {
	if r.db.Cache.General == nil {
		return nil, false
	}

	var address Address
	found, err := database.NewCacheBuilder(r.db.Cache.General, addressCacheKey(id)).
		WithContext(ctx).
		Get(&address)
	if err != nil {
		r.log.Function("cachedByID").Warn("address cache lookup failed", "id", id, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	return &address, true
}

func (r *addressRepository) fillCache(ctx context.Context, address *Address) {
	if r.db.Cache.General == nil {
		return
	}

	if err := database.NewCacheBuilder(r.db.Cache.General, addressCacheKey(address.ID)).
		WithStruct(address).
		WithTTL(addressCacheExpiry).
		WithContext(ctx).
		Set(); err != nil {
		r.log.Function("fillCache").Warn("failed to cache address", "id", address.ID, "error", err)
	}
}

func (r *addressRepository) invalidate(ctx context.Context, ids ...string) {
	if r.db.Cache.General == nil {
		return
	}

	log := r.log.Function("invalidate")
	for _, id := range ids {
		if err := database.NewCacheBuilder(r.db.Cache.General, addressCacheKey(id)).
			WithContext(ctx).
			Delete(); err != nil {
			log.Warn("failed to invalidate cached address", "id", id, "error", err)
		}
	}
}

func (r *addressRepository) GetByMember(ctx context.Context, memberID string) ([]*Address, error) {
	log := r.log.Function("GetByMember")

	var addresses []*Address
	if err := r.getDB(ctx).
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&addresses).Error; err != nil {
		return nil, log.Err("failed to get addresses for member", err, "memberID", memberID)
	}

	return addresses, nil
}

func (r *addressRepository) GetByStatus(ctx context.Context, status AddressStatus) ([]*Address, error) {
	log := r.log.Function("GetByStatus")

	var addresses []*Address
	if err := r.getDB(ctx).
		Where("status = ? AND is_active = ?", status, true).
		Order("created_at ASC").
		Find(&addresses).Error; err != nil {
		return nil, log.Err("failed to get addresses by status", err, "status", status)
	}

	return addresses, nil
}

func (r *addressRepository) Create(ctx context.Context, address *Address) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(address).Error; err != nil {
		return log.Err("failed to create address", err, "address", address)
	}

	return nil
}

func (r *addressRepository) Update(ctx context.Context, address *Address) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(address).Error; err != nil {
		return log.Err("failed to update address", err, "address", address)
	}
	r.invalidate(ctx, address.ID)

	return nil
}

// SoftDelete deactivates the row but keeps it for referential history.
func (r *addressRepository) SoftDelete(ctx context.Context, id string) error {
	log := r.log.Function("SoftDelete")

	result := r.getDB(ctx).Model(&Address{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "is_primary": false})
	if result.Error != nil {
		return log.Err("failed to soft delete address", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("address %s", id)
	}
	r.invalidate(ctx, id)

	return nil
}

func (r *addressRepository) HardDelete(ctx context.Context, id string) error {
	log := r.log.Function("HardDelete")

	if err := r.getDB(ctx).Unscoped().Delete(&Address{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to hard delete address", err, "id", id)
	}
	r.invalidate(ctx, id)

	return nil
}

func (r *addressRepository) CountActiveByMember(ctx context.Context, memberID string) (int64, error) {
	log := r.log.Function("CountActiveByMember")

	var count int64
	if err := r.getDB(ctx).Model(&Address{}).
		Where("member_id = ? AND is_active = ?", memberID, true).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count active addresses", err, "memberID", memberID)
	}

	return count, nil
}

// DemotePrimary clears the primary flag on all of the member's active
// addresses, making room for a new primary.
func (r *addressRepository) DemotePrimary(ctx context.Context, memberID string) error {
	log := r.log.Function("DemotePrimary")

	var demoted []string
	if err := r.getDB(ctx).Model(&Address{}).
		Where("member_id = ? AND is_primary = ? AND is_active = ?", memberID, true, true).
		Pluck("id", &demoted).Error; err != nil {
		return log.Err("failed to find primary addresses", err, "memberID", memberID)
	}
	if len(demoted) == 0 {
		return nil
	}

	if err := r.getDB(ctx).Model(&Address{}).
		Where("id IN ?", demoted).
		Update("is_primary", false).Error; err != nil {
		return log.Err("failed to demote primary address", err, "memberID", memberID)
	}
	r.invalidate(ctx, demoted...)

	return nil
}

// NewestActiveExcept returns the most recently created active address for
// the member, excluding excludeID. Used to promote a replacement primary.
func (r *addressRepository) NewestActiveExcept(ctx context.Context, memberID, excludeID string) (*Address, error) {
	log := r.log.Function("NewestActiveExcept")

	var address Address
	err := r.getDB(ctx).
		Where("member_id = ? AND is_active = ? AND id <> ?", memberID, true, excludeID).
		Order("created_at DESC").
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no remaining active address for member %s", memberID)
		}
		return nil, log.Err("failed to find replacement primary", err, "memberID", memberID)
	}

	return &address, nil
}
