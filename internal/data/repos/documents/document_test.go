package documents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/data/repos/testutil"
	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
)

func TestDocumentListFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewDocumentRepo(db, testutil.Logger(t))

	v := testutil.SeedVendor(t, ctx, tx, "Acme")
	north := testutil.SeedCollege(t, ctx, tx, v.ID, "North")
	south := testutil.SeedCollege(t, ctx, tx, v.ID, "South")

	_, err := repo.Create(dbc, []*types.Document{
		{Title: "Syllabus Go 101", Type: "SYLLABUS", FileURL: "https://cdn/a.pdf", CollegeID: &north.ID},
		{Title: "Invoice March", Type: "INVOICE", FileURL: "https://cdn/b.pdf", CollegeID: &north.ID},
		{Title: "Syllabus React", Type: "SYLLABUS", FileURL: "https://cdn/c.pdf", CollegeID: &south.ID},
	})
	require.NoError(t, err)

	all, err := repo.List(dbc, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	northDocs, err := repo.List(dbc, ListFilter{CollegeID: &north.ID})
	require.NoError(t, err)
	assert.Len(t, northDocs, 2)

	syllabi, err := repo.List(dbc, ListFilter{CollegeID: &north.ID, Type: "SYLLABUS"})
	require.NoError(t, err)
	require.Len(t, syllabi, 1)
	assert.Equal(t, "Syllabus Go 101", syllabi[0].Title)

	search, err := repo.List(dbc, ListFilter{SearchTerm: "sYLLabus"})
	require.NoError(t, err)
	assert.Len(t, search, 2)

	require.NoError(t, repo.Delete(dbc, syllabi[0].ID))
	err = repo.Delete(dbc, syllabi[0].ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDocumentSearchTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewDocumentRepo(db, testutil.Logger(t))

	_, err := repo.Create(dbc, []*types.Document{
		{Title: "Discount 50% off", Type: "PROPOSAL", FileURL: "https://cdn/a.pdf"},
		{Title: "rate_card 2025", Type: "PROPOSAL", FileURL: "https://cdn/b.pdf"},
		{Title: "Ratexcard", Type: "PROPOSAL", FileURL: "https://cdn/c.pdf"},
		{Title: "Plain syllabus", Type: "SYLLABUS", FileURL: "https://cdn/d.pdf"},
	})
	require.NoError(t, err)

	pct, err := repo.List(dbc, ListFilter{SearchTerm: "%"})
	require.NoError(t, err)
	require.Len(t, pct, 1)
	assert.Equal(t, "Discount 50% off", pct[0].Title)

	under, err := repo.List(dbc, ListFilter{SearchTerm: "rate_card"})
	require.NoError(t, err)
	require.Len(t, under, 1)
	assert.Equal(t, "rate_card 2025", under[0].Title)

	none, err := repo.List(dbc, ListFilter{SearchTerm: `\`})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestContactRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewContactRepo(db, testutil.Logger(t))

	_, err := repo.Create(dbc, &types.Contact{Name: "Priya", Email: "priya@example.com", Message: "Need a trainer"})
	require.NoError(t, err)

	list, err := repo.List(dbc, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Priya", list[0].Name)
}
