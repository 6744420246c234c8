package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/data/repos/testutil"
	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewUserRepo(db, testutil.Logger(t))
	vendor := testutil.SeedVendor(t, ctx, tx, "Acme")

	now := time.Now().UTC()
	created, err := repo.Create(dbc, []*types.User{
		{Email: "old@example.com", Password: "pw", Role: types.RoleVendorUser, VendorID: &vendor.ID, Model: types.Model{CreatedAt: now.Add(-48 * time.Hour)}},
		{Email: "new@example.com", Password: "pw", Role: types.RoleTrainer},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	got, err := repo.GetByID(dbc, created[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got.Vendor)
	assert.Equal(t, "Acme", got.Vendor.Name)

	_, err = repo.GetByEmail(dbc, "missing@example.com")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	exists, err := repo.EmailExists(dbc, "new@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	total, err := repo.Count(dbc)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	recent, err := repo.CountCreatedSince(dbc, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, recent)

	list, err := repo.ListRecent(dbc, 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new@example.com", list[0].Email)
}

func TestUserEmailIsUnique(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	_, err := repo.Create(dbc, []*types.User{{Email: "dup@example.com", Password: "pw", Role: types.RoleTrainer}})
	require.NoError(t, err)
	_, err = repo.Create(dbc, []*types.User{{Email: "dup@example.com", Password: "pw", Role: types.RoleTrainer}})
	assert.Error(t, err)
}
