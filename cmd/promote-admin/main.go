package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tapri-app/tapri-api/internal/config"
	"github.com/tapri-app/tapri-api/internal/database"
	"github.com/tapri-app/tapri-api/internal/logging"
	"github.com/tapri-app/tapri-api/internal/services"
)

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		fmt.Println("Usage: promote-admin <email> [--revoke]")
		os.Exit(1)
	}

	email := os.Args[1]
	admin := true
	if len(os.Args) == 3 {
		if os.Args[2] != "--revoke" {
			fmt.Println("Usage: promote-admin <email> [--revoke]")
			os.Exit(1)
		}
		admin = false
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	profile, err := services.NewProfileService(db).SetAdmin(ctx, email, admin)
	if err != nil {
		logger.Fatal().Err(err).Str("email", email).Msg("failed to update profile")
	}

	logger.Info().
		Str("email", profile.Email).
		Str("profile_id", profile.ID.String()).
		Bool("is_admin", profile.IsAdmin).
		Msg("profile updated")
}
