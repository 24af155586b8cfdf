package userController

import (
	"context"
	"testing"

	"gatehouse/config"
	"gatehouse/internal/apperrors"
	. "gatehouse/internal/models"
	"gatehouse/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeTransactor struct{}

func (fakeTransactor) Execute(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type identityKey struct {
	provider   string
	providerID string
}

type fakeUserRepo struct {
	users      map[string]*User
	byLogin    map[string]string
	identities map[identityKey]*IdentityMapping
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[string]*User),
		byLogin:    make(map[string]string),
		identities: make(map[identityKey]*IdentityMapping),
	}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperrors.NotFound("user %s", id)
}

func (r *fakeUserRepo) GetByLogin(ctx context.Context, login string) (*User, error) {
	if id, ok := r.byLogin[login]; ok {
		return r.GetByID(ctx, id)
	}
	return nil, apperrors.NotFound("user %s", login)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *User) error {
	copied := *user
	r.users[user.ID] = &copied
	r.byLogin[user.Login] = user.ID
	return nil
}

func (r *fakeUserRepo) FindIdentity(ctx context.Context, provider, providerID string) (*IdentityMapping, error) {
	if m, ok := r.identities[identityKey{provider, providerID}]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, apperrors.NotFound("identity %s/%s", provider, providerID)
}

// UpsertIdentity mirrors insert-or-ignore: an existing mapping for the
// natural key wins and the incoming row is dropped.
func (r *fakeUserRepo) UpsertIdentity(ctx context.Context, mapping *IdentityMapping) error {
	key := identityKey{mapping.Provider, mapping.ProviderID}
	if _, ok := r.identities[key]; ok {
		return nil
	}
	copied := *mapping
	r.identities[key] = &copied
	return nil
}

func (r *fakeUserRepo) seedUser(id, login, password string, role UserRole) *User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &User{
		BaseUUIDModel: BaseUUIDModel{ID: id},
		FirstName:     "Test",
		LastName:      "User",
		Login:         login,
		Password:      string(hash),
		Role:          role,
	}
	r.users[id] = user
	r.byLogin[login] = id
	return user
}

func newTestController(repo repositories.UserRepository) *UserController {
	return New(repo, nil, fakeTransactor{}, config.Config{})
}

func TestUserController_Login(t *testing.T) {
	t.Run("unknown login and wrong password are indistinguishable", func(t *testing.T) {
		repo := newFakeUserRepo()
		repo.seedUser("u1", "deso", "correct-password", RoleMember)
		uc := newTestController(repo)

		_, _, unknownErr := uc.Login(context.Background(), LoginRequest{
			Login:    "nobody",
			Password: "whatever",
		})
		require.ErrorIs(t, unknownErr, apperrors.ErrValidation)

		_, _, wrongErr := uc.Login(context.Background(), LoginRequest{
			Login:    "deso",
			Password: "wrong-password",
		})
		require.ErrorIs(t, wrongErr, apperrors.ErrValidation)

		assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	})
}

func TestUserController_UpsertFederatedIdentity(t *testing.T) {
	t.Run("first login creates a member profile", func(t *testing.T) {
		repo := newFakeUserRepo()
		uc := newTestController(repo)

		user, err := uc.UpsertFederatedIdentity(context.Background(),
			"oidc", "sub-123", "alice@example.com", "Alice", "Smith")
		require.NoError(t, err)
		assert.Equal(t, RoleMember, user.Role)
		assert.Equal(t, "oidc:sub-123", user.Login)
		require.NotNil(t, user.Email)
		assert.Equal(t, "alice@example.com", *user.Email)
	})

	t.Run("repeat login resolves the existing profile", func(t *testing.T) {
		repo := newFakeUserRepo()
		uc := newTestController(repo)

		first, err := uc.UpsertFederatedIdentity(context.Background(),
			"oidc", "sub-123", "alice@example.com", "Alice", "Smith")
		require.NoError(t, err)

		second, err := uc.UpsertFederatedIdentity(context.Background(),
			"oidc", "sub-123", "alice@example.com", "Alice", "Smith")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, repo.users, 1)
	})

	t.Run("losing a concurrent upsert adopts the winner's profile", func(t *testing.T) {
		repo := newFakeUserRepo()
		winner := repo.seedUser("winner", "oidc:sub-123", "unused", RoleMember)
		// mapping exists but FindIdentity misses on the pre-check, as if a
		// concurrent login committed between the check and the upsert
		uc := newTestController(&racingUserRepo{fakeUserRepo: repo, winnerID: winner.ID})

		user, err := uc.UpsertFederatedIdentity(context.Background(),
			"oidc", "sub-123", "alice@example.com", "Alice", "Smith")
		require.NoError(t, err)
		assert.Equal(t, winner.ID, user.ID)
		assert.Len(t, repo.users, 1, "the losing login must not create a second profile")
	})
}

// racingUserRepo makes the first FindIdentity call miss, then installs the
// winner's mapping, simulating a concurrent login that lands between the
// pre-check and the upsert.
type racingUserRepo struct {
	*fakeUserRepo
	winnerID string
	checked  bool
}

func (r *racingUserRepo) FindIdentity(ctx context.Context, provider, providerID string) (*IdentityMapping, error) {
	if !r.checked {
		r.checked = true
		r.identities[identityKey{provider, providerID}] = &IdentityMapping{
			Provider:   provider,
			ProviderID: providerID,
			UserID:     r.winnerID,
		}
		return nil, apperrors.NotFound("identity %s/%s", provider, providerID)
	}
	return r.fakeUserRepo.FindIdentity(ctx, provider, providerID)
}
