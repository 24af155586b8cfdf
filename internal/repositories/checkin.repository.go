package repositories

import (
	"context"

	"gatehouse/internal/database"
	"gatehouse/internal/logger"
	. "gatehouse/internal/models"
	"gatehouse/internal/services"

	"gorm.io/gorm"
)

// CheckInRepository is append-only: records are never updated or deleted.
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *CheckIn) error
	List(ctx context.Context, filter CheckInFilter) ([]*CheckIn, error)
	CountByVisitor(ctx context.Context, visitorID string) (int64, error)
}

type checkInRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCheckIn(db database.DB) CheckInRepository {
	return &checkInRepository{
		db:  db,
		log: logger.New("checkInRepository"),
	}
}

func (r *checkInRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *checkInRepository) Create(ctx context.Context, checkIn *CheckIn) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(checkIn).Error; err != nil {
		return log.Err("failed to create check-in", err, "checkIn", checkIn)
	}

	return nil
}

func (r *checkInRepository) List(ctx context.Context, filter CheckInFilter) ([]*CheckIn, error) {
	log := r.log.Function("List")

	query := r.getDB(ctx).Model(&CheckIn{})

	if filter.AddressID != nil {
		query = query.Where("address_id = ?", *filter.AddressID)
	}
	if filter.GuardID != nil {
		query = query.Where("guard_id = ?", *filter.GuardID)
	}
	if filter.Since != nil {
		query = query.Where("checked_in_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("checked_in_at <= ?", *filter.Until)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var checkIns []*CheckIn
	if err := query.Order("checked_in_at DESC").Limit(limit).Find(&checkIns).Error; err != nil {
		return nil, log.Err("failed to list check-ins", err)
	}

	return checkIns, nil
}

func (r *checkInRepository) CountByVisitor(ctx context.Context, visitorID string) (int64, error) {
	log := r.log.Function("CountByVisitor")

	var count int64
	if err := r.getDB(ctx).Model(&CheckIn{}).
		Where("visitor_id = ?", visitorID).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count check-ins for visitor", err, "visitorID", visitorID)
	}

	return count, nil
}
