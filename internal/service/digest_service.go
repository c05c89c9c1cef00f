package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/pentadosen-api/internal/models"
)

type notificationLister interface {
	List(ctx context.Context) models.NotificationFeed
}

// DigestService logs the daily notification digest on a cron schedule
// evaluated in the service timezone.
type DigestService struct {
	notifications notificationLister
	metrics       *MetricsService
	logger        *zap.Logger
	schedule      string
	loc           *time.Location
	cron          *cron.Cron
}

// NewDigestService constructs the service. An empty schedule disables the digest.
func NewDigestService(notifications notificationLister, schedule string, loc *time.Location, metrics *MetricsService, logger *zap.Logger) *DigestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DigestService{notifications: notifications, metrics: metrics, logger: logger, schedule: schedule, loc: loc}
}

// Start schedules the digest. It returns an error for an invalid cron expression.
func (s *DigestService) Start() error {
	if s.schedule == "" {
		s.logger.Info("notification digest disabled")
		return nil
	}
	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.schedule, func() { s.Run(context.Background()) }); err != nil {
		return fmt.Errorf("schedule digest %q: %w", s.schedule, err)
	}
	c.Start()
	s.cron = c
	s.logger.Info("notification digest scheduled", zap.String("cron", s.schedule), zap.String("timezone", s.loc.String()))
	return nil
}

// Stop halts the scheduler and waits for a running digest to finish.
func (s *DigestService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// Run emits one digest and returns the feed it summarised.
func (s *DigestService) Run(ctx context.Context) models.NotificationFeed {
	feed := s.notifications.List(ctx)
	titles := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		titles = append(titles, fmt.Sprintf("%s [%s] %s", item.Event.StartDate, item.Phase, item.Event.Title))
	}
	s.metrics.SetUnreadNotifications(feed.UnreadCount)
	s.logger.Info("notification digest",
		zap.String("today", feed.Today.String()),
		zap.String("horizon", feed.Horizon.String()),
		zap.Int("relevant", len(feed.Items)),
		zap.Int("unread", feed.UnreadCount),
		zap.Strings("events", titles),
	)
	return feed
}
