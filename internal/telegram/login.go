package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/robertpustota/telegram-ai-monitor/internal/config"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
)

// login flow errors surfaced to the API layer.
var (
	ErrAlreadyAuthorized = errors.New("already logged in")
	ErrLoginInProgress   = errors.New("login already in progress for this phone")
	ErrNoPendingLogin    = errors.New("no pending login for this phone")
	ErrPhoneInvalid      = errors.New("invalid phone number")
	ErrPhoneBanned       = errors.New("phone number is banned")
	ErrCodeInvalid       = errors.New("invalid verification code")
	ErrCodeExpired       = errors.New("verification code expired")
	ErrPasswordRequired  = errors.New("2FA password is required")
	ErrPasswordInvalid   = errors.New("invalid 2FA password")
)

// LoginClientBundle contains the components needed for a code login flow.
type LoginClientBundle struct {
	Client  *telegram.Client
	Storage *session.StorageMemory
}

// LoginClientFactory is a function that creates a raw telegram client for
// the code login flow.
type LoginClientFactory func(cfg *config.Config) (*LoginClientBundle, error)

// NewLoginClient creates a raw td/telegram client suitable for the phone
// code login flow. Unlike the persistent gotgproto client, it keeps its
// session in memory until the flow completes.
func NewLoginClient(cfg *config.Config) (*LoginClientBundle, error) {
	memStorage := &session.StorageMemory{}

	client := telegram.NewClient(cfg.TGApiID, cfg.TGApiHash, telegram.Options{
		SessionStorage: memStorage,
	})

	return &LoginClientBundle{
		Client:  client,
		Storage: memStorage,
	}, nil
}

// codeSubmission carries the verification code from the verify handler to
// the running login goroutine.
type codeSubmission struct {
	code     string
	password string
}

// loginFlow tracks a pending phone login. The raw client stays connected
// between the code request and the code submission.
type loginFlow struct {
	phone  string
	codeCh chan codeSubmission
	doneCh chan loginResult
	cancel context.CancelFunc
}

type loginResult struct {
	session *session.Data
	err     error
}

// mapAuthError converts telegram RPC errors to the flow's sentinel errors.
func mapAuthError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case tgerr.Is(err, "PHONE_NUMBER_INVALID"):
		return ErrPhoneInvalid
	case tgerr.Is(err, "PHONE_NUMBER_BANNED"):
		return ErrPhoneBanned
	case tgerr.Is(err, "PHONE_CODE_INVALID"):
		return ErrCodeInvalid
	case tgerr.Is(err, "PHONE_CODE_EXPIRED"):
		return ErrCodeExpired
	case tgerr.Is(err, "PASSWORD_HASH_INVALID"):
		return ErrPasswordInvalid
	}
	return err
}

// run drives the login conversation with Telegram. It blocks until the
// flow completes, fails or the context is canceled.
func (f *loginFlow) run(ctx context.Context, bundle *LoginClientBundle, sentCh chan<- error) {
	var result loginResult

	err := bundle.Client.Run(ctx, func(ctx context.Context) error {
		sent, err := bundle.Client.Auth().SendCode(ctx, f.phone, auth.SendCodeOptions{})
		if err != nil {
			sentCh <- mapAuthError(err)
			return err
		}

		code, ok := sent.(*tg.AuthSentCode)
		if !ok {
			err := fmt.Errorf("unexpected sent code type %T", sent)
			sentCh <- err
			return err
		}
		sentCh <- nil

		var sub codeSubmission
		select {
		case sub = <-f.codeCh:
		case <-ctx.Done():
			return ctx.Err()
		}

		_, err = bundle.Client.Auth().SignIn(ctx, f.phone, sub.code, code.PhoneCodeHash)
		if errors.Is(err, auth.ErrPasswordAuthNeeded) {
			if sub.password == "" {
				return ErrPasswordRequired
			}
			_, err = bundle.Client.Auth().Password(ctx, sub.password)
		}
		if err != nil {
			return mapAuthError(err)
		}

		loader := session.Loader{Storage: bundle.Storage}
		data, err := loader.Load(ctx)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		result.session = data
		return nil
	})

	result.err = err
	f.doneCh <- result
}
