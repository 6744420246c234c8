package services

import (
	"fmt"
	"math"
	"sort"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/data/repos"
	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

const (
	analyticsMonths    = 6
	leaderboardSize    = 5
	categoryTopN       = 5
	recentUsersLimit   = 5
	placeholderRating  = 4.8
	uncategorizedLabel = "Other"
)

type DashboardStats struct {
	TotalColleges      int64 `json:"totalColleges"`
	ActiveRequirements int64 `json:"activeRequirements"`
	TrainersMatched    int64 `json:"trainersMatched"`
	SessionsScheduled  int64 `json:"sessionsScheduled"`
}

type MonthSuccess struct {
	Month   string `json:"month"`
	Success int    `json:"success"`
	Total   int    `json:"total"`
}

type TrainerPerformance struct {
	Name    string  `json:"name"`
	Matches int     `json:"matches"`
	Rating  float64 `json:"rating"`
}

type CategoryShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Count int    `json:"count"`
}

type DashboardAnalytics struct {
	MatchSuccessData       []MonthSuccess       `json:"matchSuccessData"`
	TrainerPerformanceData []TrainerPerformance `json:"trainerPerformanceData"`
	CategoryDistribution   []CategoryShare      `json:"categoryDistribution"`
	MatchSuccess           int                  `json:"matchSuccess"`
}

type AdminStat struct {
	Name   string `json:"name"`
	Value  int64  `json:"value"`
	Icon   string `json:"icon"`
	Change string `json:"change"`
	Color  string `json:"color"`
}

type VendorSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type TrainerSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type RecentUser struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      types.Role      `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
	Vendor    *VendorSummary  `json:"vendor,omitempty"`
	Trainer   *TrainerSummary `json:"trainer,omitempty"`
}

type AdminStats struct {
	Stats       []AdminStat  `json:"stats"`
	RecentUsers []RecentUser `json:"recentUsers"`
}

type DashboardService interface {
	GetStats(dbc dbctx.Context) (*DashboardStats, error)
	GetAnalytics(dbc dbctx.Context) (*DashboardAnalytics, error)
	GetAdminStats(dbc dbctx.Context) (*AdminStats, error)
}

type DashboardOption func(*dashboardService)

// WithDashboardClock replaces time.Now, mainly for tests.
func WithDashboardClock(now func() time.Time) DashboardOption {
	return func(s *dashboardService) {
		if now != nil {
			s.now = now
		}
	}
}

type dashboardService struct {
	db           *gorm.DB
	log          *logger.Logger
	users        repos.UserRepo
	vendors      repos.VendorRepo
	colleges     repos.CollegeRepo
	trainers     repos.TrainerRepo
	requirements repos.RequirementRepo
	matches      repos.MatchRepo
	sessions     repos.SessionRepo
	now          func() time.Time
}

func NewDashboardService(
	db *gorm.DB,
	baseLog *logger.Logger,
	users repos.UserRepo,
	vendors repos.VendorRepo,
	colleges repos.CollegeRepo,
	trainers repos.TrainerRepo,
	requirements repos.RequirementRepo,
	matches repos.MatchRepo,
	sessions repos.SessionRepo,
	opts ...DashboardOption,
) DashboardService {
	s := &dashboardService{
		db:           db,
		log:          baseLog.With("service", "DashboardService"),
		users:        users,
		vendors:      vendors,
		colleges:     colleges,
		trainers:     trainers,
		requirements: requirements,
		matches:      matches,
		sessions:     sessions,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// countGroup runs count queries concurrently. A shared transaction cannot be
// used from several goroutines, so callers holding one get serial execution.
func countGroup(dbc dbctx.Context) (*errgroup.Group, dbctx.Context) {
	g, gctx := errgroup.WithContext(dbc.Ctx)
	if dbc.Tx != nil {
		g.SetLimit(1)
	}
	return g, dbctx.Context{Ctx: gctx, Tx: dbc.Tx}
}

func (s *dashboardService) GetStats(dbc dbctx.Context) (*DashboardStats, error) {
	out := &DashboardStats{}
	g, gdbc := countGroup(dbc)

	g.Go(func() (err error) {
		out.TotalColleges, err = s.colleges.Count(gdbc)
		return wrapCount("colleges", err)
	})
	g.Go(func() (err error) {
		out.ActiveRequirements, err = s.requirements.CountActive(gdbc)
		return wrapCount("active requirements", err)
	})
	g.Go(func() (err error) {
		out.TrainersMatched, err = s.matches.CountByStatus(gdbc, types.MatchAccepted)
		return wrapCount("accepted matches", err)
	})
	g.Go(func() (err error) {
		out.SessionsScheduled, err = s.sessions.CountByStatus(gdbc, types.SessionScheduled)
		return wrapCount("scheduled sessions", err)
	})

	if err := g.Wait(); err != nil {
		s.log.Error("Failed to compute dashboard stats", "error", err)
		return nil, err
	}
	return out, nil
}

func (s *dashboardService) GetAnalytics(dbc dbctx.Context) (*DashboardAnalytics, error) {
	now := s.now()
	since := now.AddDate(0, -analyticsMonths, 0)

	matches, err := s.matches.ListCreatedSince(dbc, since)
	if err != nil {
		s.log.Error("Failed to load matches for analytics", "error", err, "since", since)
		return nil, fmt.Errorf("load matches: %w", err)
	}
	reqs, err := s.requirements.ListCreatedSince(dbc, since)
	if err != nil {
		s.log.Error("Failed to load requirements for analytics", "error", err, "since", since)
		return nil, fmt.Errorf("load requirements: %w", err)
	}

	return &DashboardAnalytics{
		MatchSuccessData:       MonthlyMatchSuccess(now, matches),
		TrainerPerformanceData: TrainerLeaderboard(matches),
		CategoryDistribution:   CategoryDistribution(reqs),
		MatchSuccess:           MatchSuccessRate(matches),
	}, nil
}

func (s *dashboardService) GetAdminStats(dbc dbctx.Context) (*AdminStats, error) {
	var (
		totalUsers, totalVendors, totalTrainers, newUsers int64
		recent                                            []*types.User
	)
	dayAgo := s.now().Add(-24 * time.Hour)
	g, gdbc := countGroup(dbc)

	g.Go(func() (err error) {
		totalUsers, err = s.users.Count(gdbc)
		return wrapCount("users", err)
	})
	g.Go(func() (err error) {
		totalVendors, err = s.vendors.Count(gdbc)
		return wrapCount("vendors", err)
	})
	g.Go(func() (err error) {
		totalTrainers, err = s.trainers.Count(gdbc)
		return wrapCount("trainers", err)
	})
	g.Go(func() (err error) {
		newUsers, err = s.users.CountCreatedSince(gdbc, dayAgo)
		return wrapCount("new users", err)
	})
	g.Go(func() (err error) {
		recent, err = s.users.ListRecent(gdbc, recentUsersLimit)
		if err != nil {
			return fmt.Errorf("list recent users: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Error("Failed to compute admin stats", "error", err)
		return nil, err
	}

	out := &AdminStats{
		Stats: []AdminStat{
			{Name: "Total Users", Value: totalUsers, Icon: "Users", Change: fmt.Sprintf("+%d today", newUsers), Color: "bg-blue-500"},
			{Name: "Vendors", Value: totalVendors, Icon: "Building2", Change: "Active partners", Color: "bg-purple-500"},
			{Name: "Trainers", Value: totalTrainers, Icon: "GraduationCap", Change: "In directory", Color: "bg-green-500"},
			{Name: "New Users (24h)", Value: newUsers, Icon: "UserPlus", Change: "Last 24 hours", Color: "bg-orange-500"},
		},
		RecentUsers: make([]RecentUser, 0, len(recent)),
	}
	for _, u := range recent {
		ru := RecentUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
		if u.Vendor != nil {
			ru.Vendor = &VendorSummary{ID: u.Vendor.ID, Name: u.Vendor.Name}
		}
		if u.Trainer != nil {
			ru.Trainer = &TrainerSummary{ID: u.Trainer.ID, Name: u.Trainer.Name, Email: u.Trainer.Email}
		}
		out.RecentUsers = append(out.RecentUsers, ru)
	}
	return out, nil
}

func wrapCount(what string, err error) error {
	if err != nil {
		return fmt.Errorf("count %s: %w", what, err)
	}
	return nil
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// MonthlyMatchSuccess buckets matches into the six calendar months ending with
// the month of now, oldest first. Every month is present even when empty.
func MonthlyMatchSuccess(now time.Time, matches []*types.Match) []MonthSuccess {
	first := monthStart(now)
	out := make([]MonthSuccess, analyticsMonths)
	index := make(map[time.Time]int, analyticsMonths)
	for i := 0; i < analyticsMonths; i++ {
		start := first.AddDate(0, -(analyticsMonths - 1 - i), 0)
		out[i].Month = start.Month().String()[:3]
		index[start] = i
	}
	for _, m := range matches {
		if m == nil {
			continue
		}
		i, ok := index[monthStart(m.CreatedAt.In(now.Location()))]
		if !ok {
			continue
		}
		out[i].Total++
		if m.Status == types.MatchAccepted {
			out[i].Success++
		}
	}
	return out
}

// TrainerLeaderboard counts accepted matches per trainer display name and
// keeps the top five. Equal counts are ordered by name.
func TrainerLeaderboard(matches []*types.Match) []TrainerPerformance {
	counts := map[string]int{}
	for _, m := range matches {
		if m == nil || m.Status != types.MatchAccepted {
			continue
		}
		counts[m.Trainer.DisplayName()]++
	}
	out := make([]TrainerPerformance, 0, len(counts))
	for name, n := range counts {
		out = append(out, TrainerPerformance{Name: name, Matches: n, Rating: placeholderRating})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > leaderboardSize {
		out = out[:leaderboardSize]
	}
	return out
}

// CategoryDistribution groups requirements by first tag. Percentages are
// floored so the shares never add up to more than 100.
func CategoryDistribution(reqs []*types.Requirement) []CategoryShare {
	counts := map[string]int{}
	total := 0
	for _, r := range reqs {
		if r == nil {
			continue
		}
		counts[r.Category()]++
		total++
	}
	type kv struct {
		raw string
		n   int
	}
	sorted := make([]kv, 0, len(counts))
	for k, n := range counts {
		sorted = append(sorted, kv{k, n})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].n != sorted[j].n {
			return sorted[i].n > sorted[j].n
		}
		return sorted[i].raw < sorted[j].raw
	})
	if len(sorted) > categoryTopN {
		sorted = sorted[:categoryTopN]
	}
	out := make([]CategoryShare, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, CategoryShare{
			Name:  capitalize(c.raw),
			Value: percentFloor(c.n, total),
			Count: c.n,
		})
	}
	return out
}

// MatchSuccessRate is the rounded share of accepted matches, 0 without data.
func MatchSuccessRate(matches []*types.Match) int {
	total, accepted := 0, 0
	for _, m := range matches {
		if m == nil {
			continue
		}
		total++
		if m.Status == types.MatchAccepted {
			accepted++
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(accepted) / float64(total)))
}

func percentFloor(n, total int) int {
	if total == 0 {
		return 0
	}
	return n * 100 / total
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
