package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/celestix/gotgproto"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/robertpustota/telegram-ai-monitor/internal/config"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	db.Exec("CREATE TABLE sessions (version integer primary key, data blob)")
	return db
}

func TestManager_Init_EmptySessions_Unauthorized(t *testing.T) {
	// Arrange
	db := newTestDB(t)
	cfg := &config.Config{TGApiID: 12345, TGApiHash: "test_hash"}
	m := NewManager(cfg, db)

	factoryCalled := false
	m.SetClientFactory(func(ctx context.Context, cfg *config.Config, db *gorm.DB) (*gotgproto.Client, error) {
		factoryCalled = true
		return nil, errors.New("should not be called")
	})

	// Act
	err := m.Init(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, StatusUnauthorized, m.GetStatus())
	assert.False(t, factoryCalled, "factory must not run without a stored session")
}

func TestManager_Init_FactoryError_Unauthorized(t *testing.T) {
	// Arrange
	db := newTestDB(t)
	db.Exec("INSERT INTO sessions (version, data) VALUES (1, ?)", []byte(`{"mock":"data"}`))

	cfg := &config.Config{TGApiID: 12345, TGApiHash: "test_hash"}
	m := NewManager(cfg, db)

	m.SetClientFactory(func(ctx context.Context, cfg *config.Config, db *gorm.DB) (*gotgproto.Client, error) {
		return nil, errors.New("factory failure")
	})

	// Act
	err := m.Init(context.Background())

	// Assert
	assert.NoError(t, err, "Init should not return error even if factory fails")
	assert.Equal(t, StatusUnauthorized, m.GetStatus())
}

func TestManager_BeginLogin_FactoryError(t *testing.T) {
	// Arrange
	db := newTestDB(t)
	m := NewManager(&config.Config{TGApiID: 12345, TGApiHash: "test_hash"}, db)

	m.SetLoginClientFactory(func(cfg *config.Config) (*LoginClientBundle, error) {
		return nil, errors.New("factory reached")
	})

	// Act
	err := m.BeginLogin(context.Background(), "+15550001122")

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "factory reached")
	assert.False(t, m.HasPendingLogin("+15550001122"))
}

func TestManager_CompleteLogin_NoPending(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(&config.Config{}, db)

	err := m.CompleteLogin(context.Background(), "+15550001122", "12345", "")

	assert.ErrorIs(t, err, ErrNoPendingLogin)
}

func TestManager_CompleteLogin_CanceledWhileSubmitting(t *testing.T) {
	db := newTestDB(t)
	m := NewManager(&config.Config{}, db)

	// A flow whose code buffer is already full, so a second submission
	// cannot be queued.
	flow := &loginFlow{
		phone:  "+15550001122",
		codeCh: make(chan codeSubmission, 1),
		doneCh: make(chan loginResult),
		cancel: func() {},
	}
	flow.codeCh <- codeSubmission{code: "11111"}
	m.pending["+15550001122"] = flow

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.CompleteLogin(ctx, "+15550001122", "22222", "")
	}()
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("CompleteLogin did not return after context cancellation")
	}
}

func TestManager_GetStatus_Concurrent(t *testing.T) {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	cfg := &config.Config{}
	m := NewManager(cfg, db)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			m.GetStatus()
		}()
	}

	close(start)
	wg.Wait()
}

func TestManager_Stop_Graceful(t *testing.T) {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	m := NewManager(&config.Config{}, db)

	// Should not panic
	assert.NotPanics(t, func() {
		m.Stop()
	})
}
