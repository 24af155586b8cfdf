package repositories

import (
	"context"
	"encoding/json"
	"testing"

	"gatehouse/internal/database"
	. "gatehouse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
)

func cachedAddressFixture(t *testing.T) (Address, string) {
	t.Helper()

	address := Address{
		BaseUUIDModel: BaseUUIDModel{ID: "a1"},
		MemberID:      "m1",
		Address:       "123 Main Street, Harlingen, Texas",
		OwnerName:     "Jane Doe",
		Status:        AddressStatusApproved,
		IsActive:      true,
	}
	payload, err := json.Marshal(address)
	require.NoError(t, err)

	return address, string(payload)
}

func TestAddressRepository_GetByID_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)

	cached, payload := cachedAddressFixture(t)
	client.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "address:a1")).
		Return(mock.Result(mock.ValkeyString(payload)))

	// SQL is left nil: a cache hit must resolve without touching the
	// database at all.
	repo := NewAddress(database.DB{Cache: database.Cache{General: client}})

	address, err := repo.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, cached.ID, address.ID)
	assert.Equal(t, cached.MemberID, address.MemberID)
	assert.Equal(t, AddressStatusApproved, address.Status)
}
