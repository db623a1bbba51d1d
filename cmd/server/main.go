package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"offense_board/internal/app/di"
	"offense_board/internal/app/router"
	accountadapters "offense_board/internal/feature/account/adapters"
	accountentity "offense_board/internal/feature/account/domain/entity"
	accountusecase "offense_board/internal/feature/account/usecase"
	offenseentity "offense_board/internal/feature/offense/domain/entity"
	profileentity "offense_board/internal/feature/profile/domain/entity"
	csrfmw "offense_board/internal/platform/csrf"
	"offense_board/internal/platform/db"
	jwtmw "offense_board/internal/platform/jwt"
	"offense_board/internal/platform/logger"
	platformredis "offense_board/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env は任意（本番では環境変数を直接設定）
	_ = godotenv.Load()

	log := logger.New(logger.LoadConfig("offense_board"))

	if err := run(log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx := context.Background()

	// db
	gdb, err := db.Open(db.LoadConfigFromEnv(),
		&accountentity.Account{},
		&profileentity.Profile{},
		&offenseentity.Offense{},
		&accountadapters.SessionModel{},
	)
	if err != nil {
		return err
	}

	// Redis（未設定または疎通不可ならSQLのsessionsテーブルを使用）
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(ctx, platformredis.LoadConfig()); err != nil {
		if errors.Is(err, platformredis.ErrNotConfigured) {
			log.Info("redis not configured, storing sessions in the database")
		} else {
			log.Warn("redis unavailable, storing sessions in the database", "error", err)
		}
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("failed to close redis client", "error", err)
			}
		}()
	}

	// JWT_SECRETチェック
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}

	cookie := jwtmw.LoadCookieConfig(accountusecase.DefaultSessionTTL)
	app := di.NewComponents(gdb, rdb, secret, cookie)

	if _, err := app.Accounts.PurgeExpiredSessions(ctx); err != nil {
		log.Warn("failed to purge expired sessions", "error", err)
	}

	// ルータ生成
	engine := router.NewRouter(app.Handlers, app.Accounts, router.Config{
		CSRFKey:       csrfmw.LoadKey(secret),
		SecureCookies: cookie.Secure,
	}, log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-shutdown:
		log.Info("shutdown started", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			_ = server.Close()
			return err
		}
		log.Info("shutdown complete")
		return nil
	}
}
