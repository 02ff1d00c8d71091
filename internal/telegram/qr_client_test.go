package telegram

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertpustota/telegram-ai-monitor/internal/config"
)

func TestNewQRClient_ReturnsRawClient(t *testing.T) {
	cfg := &config.Config{TGApiID: 12345, TGApiHash: "test_hash"}

	bundle, err := NewQRClient(cfg)

	require.NoError(t, err)
	require.NotNil(t, bundle)
	require.NotNil(t, bundle.Client, "raw td/telegram client should be created")
	require.NotNil(t, bundle.Storage, "memory storage should be provided for session capture")
}

func TestNewQRClient_DoesNotBlock(t *testing.T) {
	cfg := &config.Config{TGApiID: 12345, TGApiHash: "test_hash"}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		_, _ = NewQRClient(cfg)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("NewQRClient blocked, likely waiting for CLI input")
	}
}

func TestNewQRClient_MemoryStorageIsolation(t *testing.T) {
	cfg := &config.Config{TGApiID: 12345, TGApiHash: "test_hash"}

	bundle1, _ := NewQRClient(cfg)
	bundle2, _ := NewQRClient(cfg)

	require.NotNil(t, bundle1.Storage)
	require.NotNil(t, bundle2.Storage)
	assert.True(t, bundle1.Storage != bundle2.Storage, "each bundle should have isolated storage")
}
