package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pentadosen-api/pkg/config"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "pentadosen:state:read_notifications", Key("pentadosen", "state", "read_notifications"))
	assert.Equal(t, "state:events", Key("", "state", "events"))
	assert.Equal(t, "dash:summary", Key("", "", "dash:summary"))
}

func TestNewRedisUnreachable(t *testing.T) {
	client, err := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: 1})
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
