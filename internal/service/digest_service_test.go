package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDigestServiceRunLogsFeed(t *testing.T) {
	notifications, _ := newNotificationFixture(t)
	core, logs := observer.New(zapcore.InfoLevel)
	digest := NewDigestService(notifications, "", time.UTC, nil, zap.New(core))

	feed := digest.Run(context.Background())
	assert.Len(t, feed.Items, 2)

	entries := logs.FilterMessage("notification digest").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(2), fields["unread"])
	assert.Equal(t, "2025-10-19", fields["today"])
}

func TestDigestServiceStart(t *testing.T) {
	notifications, _ := newNotificationFixture(t)

	disabled := NewDigestService(notifications, "", nil, nil, nil)
	require.NoError(t, disabled.Start())
	disabled.Stop()

	invalid := NewDigestService(notifications, "every morning", nil, nil, nil)
	assert.Error(t, invalid.Start())

	jakarta := time.FixedZone("WIB", 7*60*60)
	scheduled := NewDigestService(notifications, "0 7 * * *", jakarta, nil, nil)
	require.NoError(t, scheduled.Start())
	scheduled.Stop()
}
