package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pentadosen-api/internal/dto"
	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/pkg/format"
)

const dashboardCacheKey = "dash:summary"

type researchLister interface{ All() []*models.Research }

type publicationLister interface{ All() []*models.Publication }

type hkiLister interface{ All() []*models.HKI }

type notificationFeed interface {
	List(ctx context.Context) models.NotificationFeed
}

type activityFeed interface {
	Recent(n int) []models.Activity
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL            time.Duration
	UpcomingEventsLimit int
	RecentActivityLimit int
}

// DashboardService composes the dashboard summary. Record statistics are
// cached; notification data is always recomputed.
type DashboardService struct {
	research      researchLister
	publications  publicationLister
	hki           hkiLister
	notifications notificationFeed
	activities    activityFeed
	cache         *CacheService
	logger        *zap.Logger
	now           func() time.Time
	cfg           DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Research      researchLister
	Publications  publicationLister
	HKI           hkiLister
	Notifications notificationFeed
	Activities    activityFeed
	Cache         *CacheService
	Logger        *zap.Logger
	Config        DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.UpcomingEventsLimit <= 0 {
		cfg.UpcomingEventsLimit = 5
	}
	if cfg.RecentActivityLimit <= 0 {
		cfg.RecentActivityLimit = 6
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		research:      params.Research,
		publications:  params.Publications,
		hki:           params.HKI,
		notifications: params.Notifications,
		activities:    params.Activities,
		cache:         params.Cache,
		logger:        logger,
		now:           time.Now,
		cfg:           cfg,
	}
}

// Summary returns the dashboard payload and whether the record statistics came from cache.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, bool, error) {
	var stats dto.RecordStats
	cached := s.cache.Get(ctx, dashboardCacheKey, &stats)
	if !cached {
		stats = s.composeRecordStats()
		s.cache.Set(ctx, dashboardCacheKey, stats, s.cfg.CacheTTL)
	}

	feed := s.notifications.List(ctx)
	upcoming := feed.Items
	if len(upcoming) > s.cfg.UpcomingEventsLimit {
		upcoming = upcoming[:s.cfg.UpcomingEventsLimit]
	}

	return &dto.DashboardSummary{
		Records: stats,
		Notifications: dto.NotificationSection{
			Today:       feed.Today.String(),
			UnreadCount: feed.UnreadCount,
			Upcoming:    upcoming,
		},
		RecentActivities: s.activities.Recent(s.cfg.RecentActivityLimit),
		GeneratedAt:      s.now().UTC(),
	}, cached, nil
}

// Invalidate drops the cached record statistics.
func (s *DashboardService) Invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, "dash:*")
}

func (s *DashboardService) composeRecordStats() dto.RecordStats {
	stats := dto.RecordStats{
		Research:     newKindStats(),
		Publications: newKindStats(),
		HKI:          newKindStats(),
	}
	for _, r := range s.research.All() {
		countRecord(&stats.Research, DeriveResearchStatus(r), r.Year)
		stats.TotalFunding += r.Amount
	}
	for _, p := range s.publications.All() {
		countRecord(&stats.Publications, PublicationStatus(p), p.Year)
	}
	for _, h := range s.hki.All() {
		countRecord(&stats.HKI, HKIStatus(h), h.Year())
	}
	stats.TotalFundingFormatted = format.FormatRupiah(stats.TotalFunding)
	return stats
}

func countRecord(k *dto.KindStats, status models.RecordStatus, year int) {
	k.Total++
	k.ByStatus[status]++
	if year > 0 {
		k.ByYear[year]++
	}
}

func newKindStats() dto.KindStats {
	return dto.KindStats{ByStatus: map[models.RecordStatus]int{}, ByYear: map[int]int{}}
}
