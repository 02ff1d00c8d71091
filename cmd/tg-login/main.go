package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/sessionMaker"
	"github.com/celestix/gotgproto/storage"
	"github.com/glebarez/sqlite"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram/auth/qrlogin"
	"github.com/gotd/td/tgerr"
	"github.com/joho/godotenv"
	"github.com/mdp/qrterminal/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/robertpustota/telegram-ai-monitor/internal/config"
	"github.com/robertpustota/telegram-ai-monitor/internal/telegram"
)

func main() {
	local := flag.Bool("local", false, "store the session in a local tg_session.db sqlite file instead of the configured database")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== telegram login tool ===")
	fmt.Println("authorizes the monitor's telegram account and stores the session")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	if cfg.TGApiID == 0 || cfg.TGApiHash == "" {
		fmt.Println("TG_API_ID / TG_API_HASH not set (get them from https://my.telegram.org)")
		cfg.TGApiID, cfg.TGApiHash = promptCredentials(reader)
	}

	dialector := dialectorFor(cfg, *local)

	fmt.Println("choose authentication method:")
	fmt.Println("  1. qr code (scan with the telegram mobile app)")
	fmt.Println("  2. phone number (sms/code)")
	fmt.Print("\nenter choice [1]: ")

	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)

	if choice == "2" {
		err = loginWithPhone(cfg, dialector, reader)
	} else {
		err = loginWithQR(cfg, dialector, reader)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nsession stored, the monitor will pick it up on next start")
}

func promptCredentials(reader *bufio.Reader) (int, string) {
	fmt.Print("enter api_id: ")
	idStr, _ := reader.ReadString('\n')
	fmt.Print("enter api_hash: ")
	hash, _ := reader.ReadString('\n')

	var id int
	if _, err := fmt.Sscanf(strings.TrimSpace(idStr), "%d", &id); err != nil {
		fmt.Fprintln(os.Stderr, "error: invalid api_id")
		os.Exit(1)
	}
	return id, strings.TrimSpace(hash)
}

func dialectorFor(cfg *config.Config, local bool) gorm.Dialector {
	if local {
		fmt.Println("using local sqlite session store: tg_session.db")
		return sqlite.Open("tg_session.db")
	}
	return postgres.Open(cfg.DatabaseURL)
}

// loginWithPhone runs gotgproto's interactive phone auth. The session is
// written to the store by gotgproto itself.
func loginWithPhone(cfg *config.Config, dialector gorm.Dialector, reader *bufio.Reader) error {
	fmt.Print("enter phone number (with country code, e.g. +1234567890): ")
	phone, _ := reader.ReadString('\n')
	phone = strings.TrimSpace(phone)

	fmt.Println("\nauthenticating... (check telegram for the code)")

	client, err := gotgproto.NewClient(
		cfg.TGApiID,
		cfg.TGApiHash,
		gotgproto.ClientTypePhone(phone),
		&gotgproto.ClientOpts{
			Session:          sessionMaker.SqlSession(dialector),
			DisableCopyright: true,
		},
	)
	if err != nil {
		return err
	}
	defer client.Stop()

	fmt.Printf("\nlogged in as: @%s\n", client.Self.Username)
	return nil
}

// loginWithQR drives the QR flow on a raw client and stores the captured
// session in the same format gotgproto expects.
func loginWithQR(cfg *config.Config, dialector gorm.Dialector, reader *bufio.Reader) error {
	bundle, err := telegram.NewQRClient(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var sessionData *session.Data

	err = bundle.Client.Run(ctx, func(ctx context.Context) error {
		qr := bundle.Client.QR()
		loggedIn := qrlogin.OnLoginToken(&bundle.Dispatcher)

		_, authErr := qr.Auth(ctx, loggedIn, func(_ context.Context, token qrlogin.Token) error {
			fmt.Println("\nscan this with telegram > settings > devices > link desktop device:")
			qrterminal.GenerateHalfBlock(token.URL(), qrterminal.L, os.Stdout)
			return nil
		})
		if tgerr.Is(authErr, "SESSION_PASSWORD_NEEDED") {
			fmt.Print("\ntwo-factor password: ")
			password, _ := reader.ReadString('\n')
			_, authErr = bundle.Client.Auth().Password(ctx, strings.TrimSpace(password))
		}
		if authErr != nil {
			return authErr
		}

		loader := session.Loader{Storage: bundle.Storage}
		sessionData, authErr = loader.Load(ctx)
		return authErr
	})
	if err != nil {
		return fmt.Errorf("qr auth: %w", err)
	}
	if sessionData == nil {
		return errors.New("no session captured after login")
	}

	return saveSession(dialector, sessionData)
}

func saveSession(dialector gorm.Dialector, data *session.Data) error {
	sess, err := telegram.ConvertToGotgprotoSession(data)
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	if err := db.AutoMigrate(&storage.Session{}); err != nil {
		return fmt.Errorf("migrate session store: %w", err)
	}
	if err := db.Save(sess).Error; err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
