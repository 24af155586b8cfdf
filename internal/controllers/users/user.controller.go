package userController

import (
	"context"
	"errors"
	"fmt"

	"gatehouse/config"
	"gatehouse/internal/apperrors"
	"gatehouse/internal/database"
	"gatehouse/internal/logger"
	. "gatehouse/internal/models"
	"gatehouse/internal/repositories"
	"gatehouse/internal/services"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserController struct {
	userRepo           repositories.UserRepository
	sessionCache       database.CacheClient
	transactionService services.Transactor
	config             config.Config
	log                logger.Logger
}

func New(
	userRepo repositories.UserRepository,
	sessionCache database.CacheClient,
	transactionService services.Transactor,
	config config.Config,
) *UserController {
	return &UserController{
		userRepo:           userRepo,
		sessionCache:       sessionCache,
		transactionService: transactionService,
		config:             config,
		log:                logger.New("UserController"),
	}
}

func sessionKey(token string) string {
	return "session:" + token
}

// Login checks credentials and issues a bearer session token. Missing user
// and bad password collapse into the same error so logins do not leak which
// accounts exist.
func (uc *UserController) Login(ctx context.Context, req LoginRequest) (*User, string, error) {
	log := uc.log.Function("Login")

	user, err := uc.userRepo.GetByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Validation("invalid credentials")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, "", apperrors.Validation("invalid credentials")
	}

	token := uuid.NewString()
	if err := database.NewCacheBuilder(uc.sessionCache, sessionKey(token)).
		WithStruct(user.ID).
		WithTTL(uc.config.SessionTTL).
		WithContext(ctx).
		Set(); err != nil {
		return nil, "", log.Err("failed to store session", err, "userID", user.ID)
	}

	return user, token, nil
}

func (uc *UserController) Logout(ctx context.Context, token string) error {
	log := uc.log.Function("Logout")

	if err := database.NewCacheBuilder(uc.sessionCache, sessionKey(token)).
		WithContext(ctx).
		Delete(); err != nil {
		return log.Err("failed to delete session", err)
	}

	return nil
}

// Resolve maps a bearer token to its user, or NotFound for unknown and
// expired sessions.
func (uc *UserController) Resolve(ctx context.Context, token string) (*User, error) {
	var userID string
	found, err := database.NewCacheBuilder(uc.sessionCache, sessionKey(token)).
		WithContext(ctx).
		Get(&userID)
	if err != nil {
		return nil, uc.log.Function("Resolve").Err("failed to read session", err)
	}
	if !found {
		return nil, apperrors.NotFound("session")
	}

	return uc.userRepo.GetByID(ctx, userID)
}

// MintLocalID mints a fresh local profile id for a federated identity.
func MintLocalID() string {
	id, _ := uuid.NewV7()
	return id.String()
}

// UpsertFederatedIdentity resolves a federated login to a local profile,
// creating the profile at most once per (provider, provider_id) natural
// key. The insert-or-ignore upsert plus the re-read makes concurrent first
// logins converge on one profile.
func (uc *UserController) UpsertFederatedIdentity(
	ctx context.Context,
	provider, providerID, email, firstName, lastName string,
) (*User, error) {
	log := uc.log.Function("UpsertFederatedIdentity")

	if mapping, err := uc.userRepo.FindIdentity(ctx, provider, providerID); err == nil {
		return uc.userRepo.GetByID(ctx, mapping.UserID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	localID := MintLocalID()

	err := uc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		if err := uc.userRepo.UpsertIdentity(txCtx, &IdentityMapping{
			Provider:   provider,
			ProviderID: providerID,
			UserID:     localID,
		}); err != nil {
			return err
		}

		mapping, err := uc.userRepo.FindIdentity(txCtx, provider, providerID)
		if err != nil {
			return err
		}
		if mapping.UserID != localID {
			// a concurrent login won the upsert; its profile is canonical
			return nil
		}

		user := &User{
			BaseUUIDModel: BaseUUIDModel{ID: localID},
			FirstName:     firstName,
			LastName:      lastName,
			Login:         fmt.Sprintf("%s:%s", provider, providerID),
			Role:          RoleMember,
		}
		if email != "" {
			user.Email = &email
		}

		return uc.userRepo.Create(txCtx, user)
	})
	if err != nil {
		return nil, log.Err("failed to create federated profile", err, "provider", provider)
	}

	// Re-read through the natural key: if a concurrent login won the
	// upsert, its profile is the canonical one.
	mapping, err := uc.userRepo.FindIdentity(ctx, provider, providerID)
	if err != nil {
		return nil, err
	}

	return uc.userRepo.GetByID(ctx, mapping.UserID)
}
