// Package seed loads demo fixtures into the database.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/data/db"
	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type Fixtures struct {
	Vendors      []VendorFixture      `yaml:"vendors"`
	Colleges     []CollegeFixture     `yaml:"colleges"`
	Users        []UserFixture        `yaml:"users"`
	Trainers     []TrainerFixture     `yaml:"trainers"`
	Requirements []RequirementFixture `yaml:"requirements"`
	Matches      []MatchFixture       `yaml:"matches"`
	Proposals    []ProposalFixture    `yaml:"proposals"`
	Sessions     []SessionFixture     `yaml:"sessions"`
}

type VendorFixture struct {
	Ref         string `yaml:"ref"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Website     string `yaml:"website"`
}

type CollegeFixture struct {
	Ref      string `yaml:"ref"`
	Vendor   string `yaml:"vendor"`
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
}

type UserFixture struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
	Vendor   string `yaml:"vendor"`
	Trainer  string `yaml:"trainer"`
}

type TrainerFixture struct {
	Ref        string   `yaml:"ref"`
	Name       string   `yaml:"name"`
	Email      string   `yaml:"email"`
	Phone      string   `yaml:"phone"`
	Skills     []string `yaml:"skills"`
	Domain     []string `yaml:"domain"`
	Bio        string   `yaml:"bio"`
	HourlyRate float64  `yaml:"hourlyRate"`
	Location   string   `yaml:"location"`
	Rating     float64  `yaml:"rating"`
}

type RequirementFixture struct {
	Ref            string   `yaml:"ref"`
	Vendor         string   `yaml:"vendor"`
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	Tags           []string `yaml:"tags"`
	Status         string   `yaml:"status"`
	CreatedDaysAgo int      `yaml:"createdDaysAgo"`
}

type MatchFixture struct {
	Ref         string  `yaml:"ref"`
	Requirement string  `yaml:"requirement"`
	Trainer     string  `yaml:"trainer"`
	Status      string  `yaml:"status"`
	Score       float64 `yaml:"score"`
	Explanation string  `yaml:"explanation"`
}

type ProposalFixture struct {
	Match   string  `yaml:"match"`
	Price   float64 `yaml:"price"`
	Message string  `yaml:"message"`
	Status  string  `yaml:"status"`
}

type SessionFixture struct {
	Title         string `yaml:"title"`
	Requirement   string `yaml:"requirement"`
	Trainer       string `yaml:"trainer"`
	Status        string `yaml:"status"`
	StartInDays   int    `yaml:"startInDays"`
	DurationHours int    `yaml:"durationHours"`
	Location      string `yaml:"location"`
}

// Summary counts the rows written by one run.
type Summary struct {
	Vendors      int
	Colleges     int
	Users        int
	Trainers     int
	Requirements int
	Matches      int
	Proposals    int
	Sessions     int
}

func Parse(raw []byte) (*Fixtures, error) {
	var f Fixtures
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// Default returns the fixtures compiled into the binary.
func Default() (*Fixtures, error) {
	return Parse(defaultFixtures)
}

type Option func(*Seeder)

// WithClock fixes the reference time used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(s *Seeder) { s.now = now }
}

// WithBcryptCost lowers the hashing cost, for tests.
func WithBcryptCost(cost int) Option {
	return func(s *Seeder) { s.cost = cost }
}

type Seeder struct {
	db   *gorm.DB
	log  *logger.Logger
	now  func() time.Time
	cost int
}

func NewSeeder(gdb *gorm.DB, baseLog *logger.Logger, opts ...Option) *Seeder {
	s := &Seeder{
		db:   gdb,
		log:  baseLog.With("component", "Seeder"),
		now:  time.Now,
		cost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run writes every fixture in one transaction. With reset, existing rows are
// removed first; without it, duplicate emails fail the whole run.
func (s *Seeder) Run(ctx context.Context, f *Fixtures, reset bool) (*Summary, error) {
	if f == nil {
		return nil, fmt.Errorf("no fixtures")
	}
	var sum Summary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if reset {
			s.log.Warn("Truncating all tables before seeding")
			if err := db.Truncate(tx); err != nil {
				return err
			}
		}
		l := &loader{tx: tx, now: s.now().UTC(), cost: s.cost, sum: &sum, refs: map[string]uuid.UUID{}}
		return l.load(f)
	})
	if err != nil {
		s.log.Error("Seeding failed", "error", err)
		return nil, err
	}
	s.log.Info("Seeding finished",
		"vendors", sum.Vendors,
		"users", sum.Users,
		"trainers", sum.Trainers,
		"requirements", sum.Requirements,
		"matches", sum.Matches,
		"sessions", sum.Sessions,
	)
	return &sum, nil
}

type loader struct {
	tx   *gorm.DB
	now  time.Time
	cost int
	sum  *Summary
	refs map[string]uuid.UUID
}

func (l *loader) ref(kind, name string) (uuid.UUID, error) {
	id, ok := l.refs[kind+":"+name]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown %s ref %q", kind, name)
	}
	return id, nil
}

func (l *loader) optionalRef(kind, name string) (*uuid.UUID, error) {
	if name == "" {
		return nil, nil
	}
	id, err := l.ref(kind, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (l *loader) keep(kind, name string, id uuid.UUID) error {
	if name == "" {
		return nil
	}
	key := kind + ":" + name
	if _, dup := l.refs[key]; dup {
		return fmt.Errorf("duplicate %s ref %q", kind, name)
	}
	l.refs[key] = id
	return nil
}

func (l *loader) create(what string, v any) error {
	if err := l.tx.Create(v).Error; err != nil {
		return fmt.Errorf("create %s: %w", what, err)
	}
	return nil
}

func (l *loader) load(f *Fixtures) error {
	for _, v := range f.Vendors {
		row := &types.Vendor{Name: v.Name, Description: v.Description, Website: v.Website}
		if err := l.create("vendor "+v.Ref, row); err != nil {
			return err
		}
		if err := l.keep("vendor", v.Ref, row.ID); err != nil {
			return err
		}
		l.sum.Vendors++
	}

	for _, c := range f.Colleges {
		vendorID, err := l.ref("vendor", c.Vendor)
		if err != nil {
			return err
		}
		row := &types.College{Name: c.Name, Location: c.Location, VendorID: vendorID}
		if err := l.create("college "+c.Ref, row); err != nil {
			return err
		}
		if err := l.keep("college", c.Ref, row.ID); err != nil {
			return err
		}
		l.sum.Colleges++
	}

	trainers := map[string]*types.Trainer{}
	for _, t := range f.Trainers {
		row := &types.Trainer{
			Name:       t.Name,
			Email:      strings.ToLower(t.Email),
			Phone:      t.Phone,
			Skills:     t.Skills,
			Domain:     t.Domain,
			Bio:        t.Bio,
			HourlyRate: t.HourlyRate,
			Location:   t.Location,
			Rating:     t.Rating,
		}
		if err := l.create("trainer "+t.Ref, row); err != nil {
			return err
		}
		if err := l.keep("trainer", t.Ref, row.ID); err != nil {
			return err
		}
		trainers[t.Ref] = row
		l.sum.Trainers++
	}

	for _, u := range f.Users {
		if err := l.loadUser(u, trainers); err != nil {
			return err
		}
	}

	for _, r := range f.Requirements {
		vendorID, err := l.ref("vendor", r.Vendor)
		if err != nil {
			return err
		}
		status := types.RequirementStatus(strings.ToUpper(r.Status))
		if status == "" {
			status = types.RequirementDraft
		}
		if !status.Valid() {
			return fmt.Errorf("requirement %q: unknown status %q", r.Ref, r.Status)
		}
		row := &types.Requirement{Title: r.Title, Description: r.Description, Tags: r.Tags, Status: status, VendorID: vendorID}
		row.CreatedAt = l.now.AddDate(0, 0, -r.CreatedDaysAgo)
		row.UpdatedAt = row.CreatedAt
		if err := l.create("requirement "+r.Ref, row); err != nil {
			return err
		}
		if err := l.keep("requirement", r.Ref, row.ID); err != nil {
			return err
		}
		l.sum.Requirements++
	}

	matches := map[string]*types.Match{}
	for _, m := range f.Matches {
		reqID, err := l.ref("requirement", m.Requirement)
		if err != nil {
			return err
		}
		trainerID, err := l.ref("trainer", m.Trainer)
		if err != nil {
			return err
		}
		status := types.MatchStatus(strings.ToUpper(m.Status))
		if status == "" {
			status = types.MatchPending
		}
		if !status.Valid() {
			return fmt.Errorf("match %q: unknown status %q", m.Ref, m.Status)
		}
		row := &types.Match{RequirementID: reqID, TrainerID: trainerID, Status: status, Score: m.Score, Explanation: m.Explanation}
		if err := l.create("match "+m.Ref, row); err != nil {
			return err
		}
		if err := l.keep("match", m.Ref, row.ID); err != nil {
			return err
		}
		matches[m.Ref] = row
		l.sum.Matches++
	}

	for _, p := range f.Proposals {
		m, ok := matches[p.Match]
		if !ok {
			return fmt.Errorf("unknown match ref %q", p.Match)
		}
		status := types.ProposalStatus(strings.ToUpper(p.Status))
		if status == "" {
			status = types.ProposalDraft
		}
		row := &types.Proposal{
			MatchID:       m.ID,
			RequirementID: m.RequirementID,
			TrainerID:     m.TrainerID,
			Price:         p.Price,
			Message:       p.Message,
			Status:        status,
		}
		if err := l.create("proposal for "+p.Match, row); err != nil {
			return err
		}
		l.sum.Proposals++
	}

	for _, s := range f.Sessions {
		reqID, err := l.optionalRef("requirement", s.Requirement)
		if err != nil {
			return err
		}
		trainerID, err := l.optionalRef("trainer", s.Trainer)
		if err != nil {
			return err
		}
		status := types.SessionStatus(strings.ToUpper(s.Status))
		if status == "" {
			status = types.SessionScheduled
		}
		hours := s.DurationHours
		if hours <= 0 {
			hours = 1
		}
		start := l.now.AddDate(0, 0, s.StartInDays)
		row := &types.Session{
			Title:         s.Title,
			Status:        status,
			StartTime:     start,
			EndTime:       start.Add(time.Duration(hours) * time.Hour),
			Location:      s.Location,
			RequirementID: reqID,
			TrainerID:     trainerID,
		}
		if err := l.create("session "+s.Title, row); err != nil {
			return err
		}
		l.sum.Sessions++
	}
	return nil
}

func (l *loader) loadUser(u UserFixture, trainers map[string]*types.Trainer) error {
	role := types.Role(strings.ToUpper(u.Role))
	if !role.Valid() {
		return fmt.Errorf("user %q: unknown role %q", u.Email, u.Role)
	}
	if u.Password == "" {
		return fmt.Errorf("user %q: password required", u.Email)
	}
	vendorID, err := l.optionalRef("vendor", u.Vendor)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), l.cost)
	if err != nil {
		return fmt.Errorf("hash password for %q: %w", u.Email, err)
	}
	row := &types.User{
		Email:    strings.ToLower(strings.TrimSpace(u.Email)),
		Password: string(hash),
		Name:     u.Name,
		Role:     role,
		VendorID: vendorID,
	}
	if err := l.create("user "+u.Email, row); err != nil {
		return err
	}
	l.sum.Users++

	if u.Trainer == "" {
		return nil
	}
	t, ok := trainers[u.Trainer]
	if !ok {
		return fmt.Errorf("unknown trainer ref %q", u.Trainer)
	}
	if err := l.tx.Model(t).Update("user_id", row.ID).Error; err != nil {
		return fmt.Errorf("link trainer %q: %w", u.Trainer, err)
	}
	return nil
}
