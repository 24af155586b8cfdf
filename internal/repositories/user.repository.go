package repositories

import (
	"context"
	"errors"

	"gatehouse/internal/apperrors"
	"gatehouse/internal/database"
	"gatehouse/internal/logger"
	. "gatehouse/internal/models"
	"gatehouse/internal/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	Create(ctx context.Context, user *User) error
	FindIdentity(ctx context.Context, provider, providerID string) (*IdentityMapping, error)
	UpsertIdentity(ctx context.Context, mapping *IdentityMapping) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUser(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	if err := r.getDB(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user %s", id)
		}
		return nil, log.Err("failed to get user", err, "id", id)
	}

	return &user, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*User, error) {
	log := r.log.Function("GetByLogin")

	var user User
	if err := r.getDB(ctx).First(&user, "login = ?", login).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user with login %s", login)
		}
		return nil, log.Err("failed to get user by login", err, "login", login)
	}

	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "login", user.Login)
	}

	return nil
}

func (r *userRepository) FindIdentity(ctx context.Context, provider, providerID string) (*IdentityMapping, error) {
	log := r.log.Function("FindIdentity")

	var mapping IdentityMapping
	err := r.getDB(ctx).
		First(&mapping, "provider = ? AND provider_id = ?", provider, providerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("identity %s/%s", provider, providerID)
		}
		return nil, log.Err("failed to find identity mapping", err, "provider", provider)
	}

	return &mapping, nil
}

// UpsertIdentity inserts by the (provider, provider_id) natural key, doing
// nothing on conflict so concurrent federated logins cannot mint duplicate
// profiles.
func (r *userRepository) UpsertIdentity(ctx context.Context, mapping *IdentityMapping) error {
	log := r.log.Function("UpsertIdentity")

	err := r.getDB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_id"}},
			DoNothing: true,
		}).
		Create(mapping).Error
	if err != nil {
		return log.Err("failed to upsert identity mapping", err,
			"provider", mapping.Provider, "providerID", mapping.ProviderID)
	}

	return nil
}
