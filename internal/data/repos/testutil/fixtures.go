package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
)

func create(tb testing.TB, ctx context.Context, tx *gorm.DB, what string, v any) {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed %s: %v", what, err)
	}
}

func SeedVendor(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Vendor {
	tb.Helper()
	v := &types.Vendor{Name: name, Website: "https://example.com"}
	create(tb, ctx, tx, "vendor", v)
	return v
}

func SeedCollege(tb testing.TB, ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, name string) *types.College {
	tb.Helper()
	c := &types.College{Name: name, Location: "Pune", VendorID: vendorID}
	create(tb, ctx, tx, "college", c)
	return c
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, role types.Role, vendorID *uuid.UUID) *types.User {
	tb.Helper()
	u := &types.User{Email: email, Password: "pw", Name: "Test User", Role: role, VendorID: vendorID}
	create(tb, ctx, tx, "user", u)
	return u
}

func SeedTrainer(tb testing.TB, ctx context.Context, tx *gorm.DB, name, email string, skills ...string) *types.Trainer {
	tb.Helper()
	t := &types.Trainer{Name: name, Email: email, Skills: skills, Domain: []string{}, Rating: 4.5, HourlyRate: 50}
	create(tb, ctx, tx, "trainer", t)
	return t
}

func SeedRequirement(tb testing.TB, ctx context.Context, tx *gorm.DB, vendorID uuid.UUID, status types.RequirementStatus, createdAt time.Time, tags ...string) *types.Requirement {
	tb.Helper()
	r := &types.Requirement{Title: "Requirement", Tags: tags, Status: status, VendorID: vendorID}
	if !createdAt.IsZero() {
		r.CreatedAt = createdAt
		r.UpdatedAt = createdAt
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	create(tb, ctx, tx, "requirement", r)
	return r
}

func SeedMatch(tb testing.TB, ctx context.Context, tx *gorm.DB, requirementID, trainerID uuid.UUID, status types.MatchStatus, createdAt time.Time) *types.Match {
	tb.Helper()
	m := &types.Match{RequirementID: requirementID, TrainerID: trainerID, Status: status, Score: 0.8}
	if !createdAt.IsZero() {
		m.CreatedAt = createdAt
		m.UpdatedAt = createdAt
	}
	create(tb, ctx, tx, "match", m)
	return m
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, status types.SessionStatus) *types.Session {
	tb.Helper()
	start := time.Now().UTC().Add(24 * time.Hour)
	s := &types.Session{Title: "Session", Status: status, StartTime: start, EndTime: start.Add(2 * time.Hour)}
	create(tb, ctx, tx, "session", s)
	return s
}
