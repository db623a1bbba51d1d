// Command promote grants or revokes moderation rights for an account.
//
//	go run ./cmd/promote -username alice
//	go run ./cmd/promote -username alice -revoke
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	accountadapters "offense_board/internal/feature/account/adapters"
	accountusecase "offense_board/internal/feature/account/usecase"
	"offense_board/internal/platform/db"
	"offense_board/internal/platform/logger"
)

func main() {
	username := flag.String("username", "", "account to update (required)")
	revoke := flag.Bool("revoke", false, "remove staff rights instead of granting them")
	flag.Parse()

	if *username == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	log := logger.New(logger.LoadConfig("offense_board-promote"))

	gdb, err := db.Open(db.LoadConfigFromEnv())
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	accounts := accountadapters.NewAccountRepository(gdb)
	if err := accounts.SetStaff(ctx, *username, !*revoke); err != nil {
		if errors.Is(err, accountusecase.ErrAccountNotFound) {
			fmt.Fprintf(os.Stderr, "no account named %q\n", *username)
			os.Exit(1)
		}
		log.Error("failed to update account", "username", *username, "error", err)
		os.Exit(1)
	}

	log.Info("staff flag updated", "username", *username, "is_staff", !*revoke)
}
