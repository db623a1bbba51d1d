// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"

	"offense_board/internal/app/router"
	accountadapters "offense_board/internal/feature/account/adapters"
	accounthandler "offense_board/internal/feature/account/transport/handler"
	accountusecase "offense_board/internal/feature/account/usecase"
	moderationadapters "offense_board/internal/feature/moderation/adapters"
	moderationhandler "offense_board/internal/feature/moderation/transport/handler"
	moderationusecase "offense_board/internal/feature/moderation/usecase"
	offenseadapters "offense_board/internal/feature/offense/adapters"
	offensehandler "offense_board/internal/feature/offense/transport/handler"
	offenseusecase "offense_board/internal/feature/offense/usecase"
	profileadapters "offense_board/internal/feature/profile/adapters"
	profilehandler "offense_board/internal/feature/profile/transport/handler"
	profileusecase "offense_board/internal/feature/profile/usecase"
	"offense_board/internal/platform/http/handler"
	jwtmw "offense_board/internal/platform/jwt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Components is the wired application: usecases the commands need directly
// plus the handlers for the router.
type Components struct {
	Accounts *accountusecase.AccountUsecase
	Handlers router.Handlers
}

// NewComponents wires repositories, usecases and handlers. rdb may be nil,
// in which case sessions are kept in the database.
func NewComponents(db *gorm.DB, rdb *redis.Client, jwtSecret string, cookie jwtmw.CookieConfig, opts ...accountusecase.Option) *Components {
	// Repository
	accountRepo := accountadapters.NewAccountRepository(db)
	sessionRepo := NewSessionRepository(rdb, db)
	profileRepo := profileadapters.NewProfileRepository(db)
	offenseRepo := offenseadapters.NewOffenseRepository(db)
	moderationRepo := moderationadapters.NewOffenseRepository(db)

	// Usecase
	tokens := jwtmw.NewGenerator(jwtSecret, cookie.MaxAge)
	accountUC := accountusecase.NewAccountUsecase(accountRepo, sessionRepo, tokens, opts...)
	profileUC := profileusecase.NewProfileUsecase(profileRepo)
	offenseUC := offenseusecase.NewOffenseUsecase(offenseRepo)
	moderationUC := moderationusecase.NewModerationUsecase(moderationRepo)

	// Handler
	return &Components{
		Accounts: accountUC,
		Handlers: router.Handlers{
			Account:    accounthandler.NewAccountHandler(accountUC, cookie),
			Profile:    profilehandler.NewProfileHandler(profileUC, offenseUC),
			Offense:    offensehandler.NewOffenseHandler(offenseUC),
			Moderation: moderationhandler.NewModerationHandler(moderationUC),
			Health:     handler.NewHealthHandler(healthChecks(db, rdb)),
		},
	}
}

func healthChecks(db *gorm.DB, rdb *redis.Client) map[string]handler.Check {
	checks := map[string]handler.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}
