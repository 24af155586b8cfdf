package visitorController

import (
	"context"
	"testing"
	"time"

	"gatehouse/internal/apperrors"
	. "gatehouse/internal/models"
	"gatehouse/internal/repositories"
	"gatehouse/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransactor struct{}

func (fakeTransactor) Execute(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeAddressGetter struct {
	addresses map[string]*Address
}

func (f *fakeAddressGetter) GetByID(ctx context.Context, id string) (*Address, error) {
	if a, ok := f.addresses[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, apperrors.NotFound("address %s", id)
}

// fakeVisitorRepo embeds the interface so only the methods this controller
// exercises need implementations.
type fakeVisitorRepo struct {
	repositories.VisitorRepository
	visitors map[string]*Visitor
	// visitor id -> owning member, for the ownership join
	owners map[string]string
	// visitor ids with check-in history
	withHistory map[string]bool
}

func newFakeVisitorRepo() *fakeVisitorRepo {
	return &fakeVisitorRepo{
		visitors:    make(map[string]*Visitor),
		owners:      make(map[string]string),
		withHistory: make(map[string]bool),
	}
}

func (r *fakeVisitorRepo) GetByID(ctx context.Context, id string) (*Visitor, error) {
	if v, ok := r.visitors[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, apperrors.NotFound("visitor %s", id)
}

func (r *fakeVisitorRepo) Create(ctx context.Context, visitor *Visitor) error {
	if visitor.ID == "" {
		visitor.ID = "v" + string(rune('0'+len(r.visitors)+1))
	}
	copied := *visitor
	r.visitors[visitor.ID] = &copied
	return nil
}

func (r *fakeVisitorRepo) Update(ctx context.Context, visitor *Visitor) error {
	copied := *visitor
	r.visitors[visitor.ID] = &copied
	return nil
}

func (r *fakeVisitorRepo) OwnedIDs(ctx context.Context, memberID string, ids []string) ([]string, error) {
	var owned []string
	for _, id := range ids {
		if r.owners[id] == memberID {
			owned = append(owned, id)
		}
	}
	return owned, nil
}

func (r *fakeVisitorRepo) BulkExtend(ctx context.Context, ids []string, expiresAt time.Time) (int64, error) {
	var affected int64
	for _, id := range ids {
		if v, ok := r.visitors[id]; ok {
			v.ExpiresAt = expiresAt
			v.IsActive = true
			affected++
		}
	}
	return affected, nil
}

func (r *fakeVisitorRepo) BulkRevoke(ctx context.Context, ids []string) (int64, error) {
	var affected int64
	for _, id := range ids {
		if v, ok := r.visitors[id]; ok {
			v.IsActive = false
			affected++
		}
	}
	return affected, nil
}

func (r *fakeVisitorRepo) IDsWithCheckIns(ctx context.Context, ids []string) ([]string, error) {
	var blocked []string
	for _, id := range ids {
		if r.withHistory[id] {
			blocked = append(blocked, id)
		}
	}
	return blocked, nil
}

func (r *fakeVisitorRepo) HardDeleteBatch(ctx context.Context, ids []string) (int64, error) {
	var affected int64
	for _, id := range ids {
		if _, ok := r.visitors[id]; ok {
			delete(r.visitors, id)
			affected++
		}
	}
	return affected, nil
}

func approvedAddress(id, memberID string) *Address {
	return &Address{
		BaseUUIDModel: BaseUUIDModel{ID: id},
		MemberID:      memberID,
		Address:       "123 Main St",
		OwnerName:     "Jane Doe",
		Status:        AddressStatusApproved,
		IsActive:      true,
	}
}

func newTestController(visitors *fakeVisitorRepo, addresses *fakeAddressGetter) *VisitorController {
	return New(visitors, addresses, services.NewAccessCodeService(), fakeTransactor{})
}

func (r *fakeVisitorRepo) seed(id, memberID string, mutate func(*Visitor)) *Visitor {
	visitor := &Visitor{
		BaseUUIDModel: BaseUUIDModel{ID: id},
		AddressID:     "a1",
		ExpiresAt:     time.Now().Add(time.Hour),
		IsActive:      true,
	}
	if mutate != nil {
		mutate(visitor)
	}
	r.visitors[id] = visitor
	r.owners[id] = memberID
	return visitor
}

func strPtr(s string) *string { return &s }

func TestVisitorController_Create(t *testing.T) {
	addresses := &fakeAddressGetter{addresses: map[string]*Address{
		"a1": approvedAddress("a1", "member-1"),
	}}

	t.Run("named visitor against approved address", func(t *testing.T) {
		repo := newFakeVisitorRepo()
		vc := newTestController(repo, addresses)

		visitor, err := vc.Create(context.Background(), "member-1", CreateVisitorRequest{
			AddressID:  "a1",
			FirstName:  strPtr("Alice"),
			LastName:   strPtr("Smith"),
			Expiration: Expire24Hours,
		})
		require.NoError(t, err)
		assert.True(t, visitor.HasName())
		assert.False(t, visitor.HasCode())
		assert.True(t, visitor.IsActive)
	})

	t.Run("code-only visitor gets a six digit code", func(t *testing.T) {
		repo := newFakeVisitorRepo()
		vc := newTestController(repo, addresses)

		visitor, err := vc.Create(context.Background(), "member-1", CreateVisitorRequest{
			AddressID:    "a1",
			GenerateCode: true,
			Expiration:   Expire24Hours,
		})
		require.NoError(t, err)
		require.True(t, visitor.HasCode())
		assert.Len(t, *visitor.AccessCode, 6)
	})

	t.Run("neither name nor code is rejected", func(t *testing.T) {
		vc := newTestController(newFakeVisitorRepo(), addresses)

		_, err := vc.Create(context.Background(), "member-1", CreateVisitorRequest{
			AddressID:  "a1",
			Expiration: Expire24Hours,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("foreign address is an ownership error", func(t *testing.T) {
		vc := newTestController(newFakeVisitorRepo(), addresses)

		_, err := vc.Create(context.Background(), "member-2", CreateVisitorRequest{
			AddressID: "a1",
			FirstName: strPtr("Alice"),
		})
		assert.ErrorIs(t, err, apperrors.ErrOwnership)
	})

	t.Run("pending address cannot take visitors", func(t *testing.T) {
		pending := approvedAddress("a2", "member-1")
		pending.Status = AddressStatusPending
		addrs := &fakeAddressGetter{addresses: map[string]*Address{"a2": pending}}
		vc := newTestController(newFakeVisitorRepo(), addrs)

		_, err := vc.Create(context.Background(), "member-1", CreateVisitorRequest{
			AddressID: "a2",
			FirstName: strPtr("Alice"),
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("deactivated address cannot take visitors", func(t *testing.T) {
		inactive := approvedAddress("a3", "member-1")
		inactive.IsActive = false
		addrs := &fakeAddressGetter{addresses: map[string]*Address{"a3": inactive}}
		vc := newTestController(newFakeVisitorRepo(), addrs)

		_, err := vc.Create(context.Background(), "member-1", CreateVisitorRequest{
			AddressID: "a3",
			FirstName: strPtr("Alice"),
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestVisitorController_Update(t *testing.T) {
	addresses := &fakeAddressGetter{addresses: map[string]*Address{
		"a1": approvedAddress("a1", "member-1"),
	}}

	t.Run("cannot strip both identity channels", func(t *testing.T) {
		repo := newFakeVisitorRepo()
		repo.seed("v1", "member-1", func(v *Visitor) { v.FirstName = strPtr("Alice") })
		vc := newTestController(repo, addresses)

		_, err := vc.Update(context.Background(), "member-1", "v1", UpdateVisitorRequest{
			FirstName: strPtr(""),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("deactivation sticks", func(t *testing.T) {
		repo := newFakeVisitorRepo()
		repo.seed("v1", "member-1", func(v *Visitor) { v.FirstName = strPtr("Alice") })
		vc := newTestController(repo, addresses)

		inactive := false
		updated, err := vc.Update(context.Background(), "member-1", "v1", UpdateVisitorRequest{
			IsActive: &inactive,
		})
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
	})
}

func TestVisitorController_ApplyBulkAction(t *testing.T) {
	t.Run("extend sets expiration and reactivates", func(t *testing.T) {
		repo := newFakeVisitorRepo()
		repo.seed("v1", "member-1", nil)
		repo.seed("v2", "member-1", func(v *Visitor) { v.IsActive = false })
		repo.seed("v3", "member-1", nil)
		vc := newTestController(repo, nil)

		target := time.Now().Add(72 * time.Hour).Truncate(time.Second)
		result, err := vc.ApplyBulkAction(context.Background(), "member-1", BulkExtend,
			[]string{"v1", "v2", "v3"}, target)
		require.NoError(t, err)
		assert.Equal(t, BulkOutcomeFull, result.Outcome)
		assert.Equal(t, 3, result.Applied)
		for _, id := range []string{"v1", "v2", "v3"} {
			assert.True(t, target.Equal(repo.visitors[id].ExpiresAt), id)
			assert.True(t, repo.visitors[id].IsActive, id)
		}
	})

	t.Run("revoke deactivates regardless of history", func(t *testing.T) {
		repo := newFakeVisitorRepo()
		repo.seed("v1", "member-1", nil)
		repo.seed("v2", "member-1", nil)
		repo.withHistory["v1"] = true
		vc := newTestController(repo, nil)

		result, err := vc.ApplyBulkAction(context.Background(), "member-1", BulkRevoke,
			[]string{"v1", "v2"}, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, BulkOutcomeFull, result.Outcome)
		assert.False(t, repo.visitors["v1"].IsActive)
		assert.False(t, repo.visitors["v2"].IsActive)
	})

	t.Run("one unowned id rejects the whole batch", func(t *testing.T) {
		repo := newFakeVisitorRepo()
		repo.seed("v1", "member-1", nil)
		repo.seed("v2", "member-2", nil)
		vc := newTestController(repo, nil)

		_, err := vc.ApplyBulkAction(context.Background(), "member-1", BulkRevoke,
			[]string{"v1", "v2"}, time.Time{})
		assert.ErrorIs(t, err, apperrors.ErrOwnership)
		assert.True(t, repo.visitors["v1"].IsActive, "nothing may mutate on a rejected batch")
	})

	t.Run("delete over history-free set is full success", func(t *testing.T) {
		repo := newFakeVisitorRepo()
		repo.seed("v1", "member-1", nil)
		repo.seed("v2", "member-1", nil)
		vc := newTestController(repo, nil)

		result, err := vc.ApplyBulkAction(context.Background(), "member-1", BulkDelete,
			[]string{"v1", "v2"}, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, BulkOutcomeFull, result.Outcome)
		assert.ElementsMatch(t, []string{"v1", "v2"}, result.DeletedIDs)
		assert.Empty(t, result.BlockedIDs)
		assert.Empty(t, repo.visitors)
	})

	t.Run("delete over mixed set is partial", func(t *testing.T) {
		repo := newFakeVisitorRepo()
		repo.seed("v1", "member-1", nil)
		repo.seed("v2", "member-1", nil)
		repo.seed("v3", "member-1", nil)
		repo.withHistory["v2"] = true
		vc := newTestController(repo, nil)

		result, err := vc.ApplyBulkAction(context.Background(), "member-1", BulkDelete,
			[]string{"v1", "v2", "v3"}, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, BulkOutcomePartial, result.Outcome)
		assert.ElementsMatch(t, []string{"v1", "v3"}, result.DeletedIDs)
		assert.ElementsMatch(t, []string{"v2"}, result.BlockedIDs)
		assert.Contains(t, repo.visitors, "v2")
	})

	t.Run("delete with every id blocked is a conflict with no deletions", func(t *testing.T) {
		repo := newFakeVisitorRepo()
		repo.seed("v1", "member-1", nil)
		repo.seed("v2", "member-1", nil)
		repo.withHistory["v1"] = true
		repo.withHistory["v2"] = true
		vc := newTestController(repo, nil)

		result, err := vc.ApplyBulkAction(context.Background(), "member-1", BulkDelete,
			[]string{"v1", "v2"}, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, BulkOutcomeConflict, result.Outcome)
		assert.Empty(t, result.DeletedIDs)
		assert.ElementsMatch(t, []string{"v1", "v2"}, result.BlockedIDs)
		assert.Len(t, repo.visitors, 2)
	})

	t.Run("blocked ids feed a follow-up revoke", func(t *testing.T) {
		repo := newFakeVisitorRepo()
		repo.seed("v1", "member-1", nil)
		repo.seed("v2", "member-1", nil)
		repo.withHistory["v2"] = true
		vc := newTestController(repo, nil)

		deleteResult, err := vc.ApplyBulkAction(context.Background(), "member-1", BulkDelete,
			[]string{"v1", "v2"}, time.Time{})
		require.NoError(t, err)
		require.Equal(t, BulkOutcomePartial, deleteResult.Outcome)

		revokeResult, err := vc.ApplyBulkAction(context.Background(), "member-1", BulkRevoke,
			deleteResult.BlockedIDs, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, BulkOutcomeFull, revokeResult.Outcome)
		assert.False(t, repo.visitors["v2"].IsActive)
	})

	t.Run("empty id list is a validation error", func(t *testing.T) {
		vc := newTestController(newFakeVisitorRepo(), nil)

		_, err := vc.ApplyBulkAction(context.Background(), "member-1", BulkRevoke, nil, time.Time{})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("duplicate ids are collapsed before the ownership check", func(t *testing.T) {
		repo := newFakeVisitorRepo()
		repo.seed("v1", "member-1", nil)
		vc := newTestController(repo, nil)

		result, err := vc.ApplyBulkAction(context.Background(), "member-1", BulkRevoke,
			[]string{"v1", "v1", "v1"}, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, BulkOutcomeFull, result.Outcome)
		assert.Equal(t, 1, result.Applied)
	})

	t.Run("unknown action is a validation error", func(t *testing.T) {
		repo := newFakeVisitorRepo()
		repo.seed("v1", "member-1", nil)
		vc := newTestController(repo, nil)

		_, err := vc.ApplyBulkAction(context.Background(), "member-1", BulkAction("archive"),
			[]string{"v1"}, time.Time{})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}
