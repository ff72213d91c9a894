package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/performance-portal-api/internal/models"
)

const defaultRecentStudents = 5

type dashboardDirectory interface {
	ListActive(ctx context.Context) ([]models.Student, error)
	Stats(ctx context.Context) (*models.StudentDirectoryStats, error)
}

type activitySource interface {
	Snapshot() models.ActivityMetrics
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	RecentStudents int
}

// DashboardService composes the administrator landing page.
type DashboardService struct {
	students dashboardDirectory
	activity activitySource
	logger   *zap.Logger
	now      func() time.Time
	cfg      DashboardServiceConfig
}

// NewDashboardService constructs the dashboard service. activity may be nil.
func NewDashboardService(students dashboardDirectory, activity activitySource, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RecentStudents <= 0 {
		cfg.RecentStudents = defaultRecentStudents
	}
	return &DashboardService{students: students, activity: activity, logger: logger, now: time.Now, cfg: cfg}
}

// Admin returns directory counts per program variant, the newest students and portal activity.
func (s *DashboardService) Admin(ctx context.Context) (*models.AdminDashboard, error) {
	stats, err := s.students.Stats(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.students.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	out := &models.AdminDashboard{
		Students:    *stats,
		GeneratedAt: s.now().UTC(),
	}

	recent := append([]models.Student(nil), students...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > s.cfg.RecentStudents {
		recent = recent[:s.cfg.RecentStudents]
	}
	out.RecentStudents = recent

	if s.activity != nil {
		out.Activity = s.activity.Snapshot()
	}
	return out, nil
}
