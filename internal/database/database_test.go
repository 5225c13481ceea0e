package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig_Defaults(t *testing.T) {
	cfg := PoolConfig{DSN: "postgres://localhost/pandals"}.withDefaults()

	assert.Equal(t, int32(20), cfg.MaxConns)
	assert.Equal(t, int32(2), cfg.MinConns)
	assert.Equal(t, 30*time.Minute, cfg.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, cfg.MaxConnIdleTime)
	assert.Equal(t, 5, cfg.ConnectAttempts)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
}

func TestPoolConfig_KeepsExplicitValues(t *testing.T) {
	cfg := PoolConfig{MaxConns: 4, ConnectAttempts: 1, RetryDelay: time.Millisecond}.withDefaults()

	assert.Equal(t, int32(4), cfg.MaxConns)
	assert.Equal(t, 1, cfg.ConnectAttempts)
	assert.Equal(t, time.Millisecond, cfg.RetryDelay)
}

func TestNewPool_InvalidDSN(t *testing.T) {
	_, err := NewPool(context.Background(), PoolConfig{DSN: "not a dsn ::"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse db config")
}

func TestSchema_DeclaresCatalogTable(t *testing.T) {
	require.NotEmpty(t, schema)
	joined := ""
	for _, stmt := range schema {
		joined += stmt
	}
	assert.Contains(t, joined, "pandal_entries")
	assert.Contains(t, joined, "pandal_entry_ids")
}
