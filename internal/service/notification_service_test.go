package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/repository"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
)

type staticEvents []models.CalendarEvent

func (s staticEvents) Snapshot() []models.CalendarEvent {
	return append([]models.CalendarEvent(nil), s...)
}

func newNotificationFixture(t *testing.T, events ...models.CalendarEvent) (*NotificationService, *flakyStateStore) {
	t.Helper()
	state, _ := newFlakyState()
	if len(events) == 0 {
		events = seedEvents()
	}
	svc := NewNotificationService(staticEvents(events), state, jakartaClock("2025-10-19"), DefaultHorizonDays, nil, nil)
	require.NoError(t, svc.Bootstrap(context.Background()))
	return svc, state
}

func TestNotificationServiceListsRelevantEvents(t *testing.T) {
	svc, _ := newNotificationFixture(t)

	feed := svc.List(context.Background())
	require.Len(t, feed.Items, 2)
	assert.Equal(t, day("2025-10-19"), feed.Today)
	assert.Equal(t, day("2025-10-26"), feed.Horizon)

	assert.Equal(t, "2", feed.Items[0].Event.ID)
	assert.Equal(t, models.RelevanceOngoing, feed.Items[0].Relevance)
	assert.Equal(t, models.PhaseOngoing, feed.Items[0].Phase)
	assert.Equal(t, "1", feed.Items[1].Event.ID)
	assert.Equal(t, models.RelevanceUpcoming, feed.Items[1].Relevance)
	assert.Equal(t, models.PhaseNotStarted, feed.Items[1].Phase)
	assert.Equal(t, 2, feed.UnreadCount)
}

func TestNotificationServiceMarkAsReadIsIdempotent(t *testing.T) {
	svc, state := newNotificationFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.MarkAsRead(ctx, "2"))
	require.NoError(t, svc.MarkAsRead(ctx, "2"))
	assert.Equal(t, 1, state.saves)
	assert.Equal(t, 1, svc.UnreadCount(ctx))
	assert.True(t, svc.List(ctx).Items[0].Read)
}

func TestNotificationServiceMarkAsReadAcceptsUnknownIDs(t *testing.T) {
	svc, _ := newNotificationFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.MarkAsRead(ctx, "never-existed"))
	assert.True(t, svc.IsRead("never-existed"))
	assert.Equal(t, 2, svc.UnreadCount(ctx))

	err := svc.MarkAsRead(ctx, "  ")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestNotificationServiceMarkAllAsRead(t *testing.T) {
	outside := testEvent("later", "2025-12-01", "")
	svc, _ := newNotificationFixture(t, append(seedEvents(), outside)...)
	ctx := context.Background()

	require.NoError(t, svc.MarkAsRead(ctx, "1"))
	added, err := svc.MarkAllAsRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Zero(t, svc.UnreadCount(ctx))
	assert.False(t, svc.IsRead("later"))

	added, err = svc.MarkAllAsRead(ctx)
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestNotificationServiceFailedSaveKeepsReadSet(t *testing.T) {
	svc, state := newNotificationFixture(t)
	ctx := context.Background()
	state.fail = true

	require.Error(t, svc.MarkAsRead(ctx, "1"))
	_, err := svc.MarkAllAsRead(ctx)
	require.Error(t, err)

	assert.False(t, svc.IsRead("1"))
	assert.Equal(t, 2, svc.UnreadCount(ctx))
}

func TestNotificationServiceReadSetSurvivesRestart(t *testing.T) {
	repo := repository.NewMemoryStateRepository()
	events := staticEvents(seedEvents())
	first := NewNotificationService(events, NewStateStore(repo, nil, nil), jakartaClock("2025-10-19"), 0, nil, nil)
	require.NoError(t, first.Bootstrap(context.Background()))
	require.NoError(t, first.MarkAsRead(context.Background(), "1"))

	second := NewNotificationService(events, NewStateStore(repo, nil, nil), jakartaClock("2025-10-19"), 0, nil, nil)
	require.NoError(t, second.Bootstrap(context.Background()))
	assert.True(t, second.IsRead("1"))
	assert.Equal(t, 1, second.UnreadCount(context.Background()))
}

func TestNotificationServiceReadIDsOutliveRelevance(t *testing.T) {
	repo := repository.NewMemoryStateRepository()
	events := staticEvents(seedEvents())
	ctx := context.Background()

	before := NewNotificationService(events, NewStateStore(repo, nil, nil), jakartaClock("2025-10-19"), 0, nil, nil)
	require.NoError(t, before.Bootstrap(ctx))
	_, err := before.MarkAllAsRead(ctx)
	require.NoError(t, err)

	after := NewNotificationService(events, NewStateStore(repo, nil, nil), jakartaClock("2025-10-31"), 0, nil, nil)
	require.NoError(t, after.Bootstrap(ctx))
	assert.Empty(t, after.List(ctx).Items)
	assert.True(t, after.IsRead("1"))
	assert.True(t, after.IsRead("2"))
}
