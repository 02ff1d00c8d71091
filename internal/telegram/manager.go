// Package telegram provides Telegram MTProto client wrappers: a persistent
// gotgproto client for monitoring and a raw gotd flow for phone code login.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robertpustota/telegram-ai-monitor/internal/config"
	"github.com/robertpustota/telegram-ai-monitor/internal/logger"

	"github.com/celestix/gotgproto"
	"github.com/gotd/td/session"
	"gorm.io/gorm"
)

// Status represents the Telegram client status.
type Status string

// Status constants define the possible states of the Telegram client.
const (
	StatusInitializing Status = "INITIALIZING"
	StatusReady        Status = "READY"
	StatusUnauthorized Status = "UNAUTHORIZED"
	StatusError        Status = "ERROR"
)

// ClientFactory is a function that creates a persistent telegram client.
type ClientFactory func(ctx context.Context, cfg *config.Config, db *gorm.DB) (*gotgproto.Client, error)

// Manager handles Telegram client lifecycle and authentication.
type Manager struct {
	client *gotgproto.Client
	db     *gorm.DB
	cfg    *config.Config
	log    *logger.Logger

	status Status
	mu     sync.RWMutex

	clientFactory      ClientFactory
	loginClientFactory LoginClientFactory

	// invoked after a client becomes ready, also on re-auth through the API
	onReady func(client *gotgproto.Client)

	// pending phone login flows keyed by phone number
	pending   map[string]*loginFlow
	pendingMu sync.Mutex
}

// NewManager creates a new Telegram Manager.
func NewManager(cfg *config.Config, db *gorm.DB) *Manager {
	return &Manager{
		db:                 db,
		cfg:                cfg,
		log:                logger.Get(),
		status:             StatusInitializing,
		clientFactory:      NewPersistentClient,
		loginClientFactory: NewLoginClient,
		pending:            make(map[string]*loginFlow),
	}
}

// SetClientFactory allows overriding the client creation logic (e.g. for testing).
func (m *Manager) SetClientFactory(f ClientFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clientFactory = f
}

// SetLoginClientFactory allows overriding the login client creation logic.
func (m *Manager) SetLoginClientFactory(f LoginClientFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginClientFactory = f
}

// SetOnReady registers a callback invoked every time a client becomes
// ready, including after a login completed through the API.
func (m *Manager) SetOnReady(f func(client *gotgproto.Client)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReady = f
}

// GetStatus returns the current Telegram client status.
func (m *Manager) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// GetClient returns the underlying Telegram client.
func (m *Manager) GetClient() *gotgproto.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// Init tries to restore a session from the database. An empty sessions
// table leaves the manager in StatusUnauthorized; the app keeps running
// and waits for a login through the API.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	m.status = StatusInitializing
	m.mu.Unlock()

	var count int64
	if err := m.db.Table("sessions").Count(&count).Error; err != nil {
		m.log.Warn().Err(err).Msg("telegram: failed to check sessions table")
	}

	if count == 0 {
		m.log.Info().Msg("telegram: no session in database, waiting for auth")
		m.mu.Lock()
		m.status = StatusUnauthorized
		m.mu.Unlock()
		return nil
	}

	client, err := m.clientFactory(ctx, m.cfg, m.db)
	if err != nil {
		m.log.Warn().Err(err).Msg("telegram: failed to initialize persistent client, switching to unauthorized mode")
		m.mu.Lock()
		m.status = StatusUnauthorized
		m.mu.Unlock()
		return nil
	}

	m.mu.Lock()
	m.client = client
	m.status = StatusReady
	onReady := m.onReady
	m.mu.Unlock()

	m.log.Info().Msg("telegram: client is ready")
	if onReady != nil {
		onReady(client)
	}
	return nil
}

// HasPendingLogin reports whether a login flow is waiting for a code for
// the given phone. An empty phone matches any pending flow.
func (m *Manager) HasPendingLogin(phone string) bool {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	if phone == "" {
		return len(m.pending) > 0
	}
	_, ok := m.pending[phone]
	return ok
}

// BeginLogin requests a Telegram login code for the phone number. It blocks
// until the code has been sent (or sending failed) and keeps the flow
// client connected, waiting for CompleteLogin.
func (m *Manager) BeginLogin(ctx context.Context, phone string) error {
	m.mu.RLock()
	ready := m.status == StatusReady
	factory := m.loginClientFactory
	m.mu.RUnlock()
	if ready {
		return ErrAlreadyAuthorized
	}

	m.pendingMu.Lock()
	if _, ok := m.pending[phone]; ok {
		m.pendingMu.Unlock()
		return ErrLoginInProgress
	}

	bundle, err := factory(m.cfg)
	if err != nil {
		m.pendingMu.Unlock()
		return fmt.Errorf("create login client: %w", err)
	}

	flowCtx, cancel := context.WithCancel(context.Background())
	flow := &loginFlow{
		phone:  phone,
		codeCh: make(chan codeSubmission, 1),
		doneCh: make(chan loginResult, 1),
		cancel: cancel,
	}
	m.pending[phone] = flow
	m.pendingMu.Unlock()

	sentCh := make(chan error, 1)
	go flow.run(flowCtx, bundle, sentCh)

	m.log.Info().Str("phone", phone).Msg("telegram: requesting login code")

	select {
	case err := <-sentCh:
		if err != nil {
			m.dropPending(phone)
			return err
		}
		return nil
	case res := <-flow.doneCh:
		// flow terminated before the code was sent
		m.dropPending(phone)
		if res.err != nil {
			return res.err
		}
		return errors.New("login flow ended unexpectedly")
	case <-ctx.Done():
		m.dropPending(phone)
		return ctx.Err()
	}
}

// CompleteLogin submits the verification code (and optional 2FA password)
// for a pending flow, persists the resulting session and reinitializes the
// persistent client.
func (m *Manager) CompleteLogin(ctx context.Context, phone, code, password string) error {
	m.pendingMu.Lock()
	flow, ok := m.pending[phone]
	m.pendingMu.Unlock()
	if !ok {
		return ErrNoPendingLogin
	}

	select {
	case flow.codeCh <- codeSubmission{code: code, password: password}:
	case <-ctx.Done():
		return ctx.Err()
	}

	var res loginResult
	select {
	case res = <-flow.doneCh:
	case <-ctx.Done():
		m.dropPending(phone)
		return ctx.Err()
	}

	m.dropPending(phone)

	if res.err != nil {
		return res.err
	}
	if res.session == nil {
		return errors.New("session data is nil after successful auth")
	}

	m.log.Info().Str("phone", phone).Msg("telegram: login success, saving session")
	if err := m.saveSessionToDB(res.session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return m.Init(ctx)
}

// CancelLogin aborts a pending login flow for the phone, if any.
func (m *Manager) CancelLogin(phone string) {
	m.dropPending(phone)
}

func (m *Manager) dropPending(phone string) {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	if flow, ok := m.pending[phone]; ok {
		flow.cancel()
		delete(m.pending, phone)
	}
}

func (m *Manager) saveSessionToDB(data *session.Data) error {
	sess, err := ConvertToGotgprotoSession(data)
	if err != nil {
		return err
	}

	// primary key is a fixed version, Save upserts
	return m.db.Save(sess).Error
}

// Stop stops the Telegram client and cancels pending logins.
func (m *Manager) Stop() {
	m.pendingMu.Lock()
	for phone, flow := range m.pending {
		flow.cancel()
		delete(m.pending, phone)
	}
	m.pendingMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		m.client.Stop()
	}
}
