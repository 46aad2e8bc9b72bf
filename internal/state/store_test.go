package state_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/state"
	"github.com/moa-plans/agriplan/internal/testutil"
)

func TestStore_TokenRoundTrip(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	token, err := store.AuthToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.SetAuthToken(ctx, "abc123"))

	token, err = store.AuthToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	require.NoError(t, store.ClearAuthToken(ctx))

	token, err = store.AuthToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStore_SetOverwrites(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "first"))
	require.NoError(t, store.Set(ctx, "k", "second"))

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestStore_CachedUserRoundTrip(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	user, err := store.CachedUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	unitID := int64(3)
	in := &domain.User{
		ID:        41,
		Username:  "abebe",
		Email:     "abebe@moa.gov.et",
		FirstName: "Abebe",
		LastName:  "Kebede",
		Role:      domain.RoleStateMinister,
		Unit: &domain.Unit{
			ID:       unitID,
			Name:     "Crop Development",
			Type:     domain.UnitStateMinister,
			ParentID: nil,
		},
	}
	require.NoError(t, store.SetCachedUser(ctx, in))

	user, err = store.CachedUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "abebe", user.Username)
	assert.Equal(t, domain.RoleStateMinister, user.Role)
	require.NotNil(t, user.Unit)
	assert.Equal(t, "Crop Development", user.Unit.Name)
}

func TestStore_CorruptCachedUserTreatedAsAbsent(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "auth_user", "{not json"))

	user, err := store.CachedUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	// The corrupt record is cleared, not left to fail again.
	_, ok, err := store.Get(ctx, "auth_user")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ExportLog(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordExport(ctx, "annual_plans_2026.csv", 2048))
	require.NoError(t, store.RecordExport(ctx, "quarterly_reports_q2.csv", 512))

	records, err := store.ListExports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "quarterly_reports_q2.csv", records[0].Filename)
	assert.Equal(t, int64(2048), records[1].ByteSize)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestOpenDB_InMemory(t *testing.T) {
	db, err := state.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, state.Migrate(db)) // re-running is safe
}
