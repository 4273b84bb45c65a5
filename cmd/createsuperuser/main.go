// Command createsuperuser creates an administrative user for the service.
// Email and password come from flags or env (SUPERUSER_EMAIL,
// SUPERUSER_PASSWORD). Run from the project root so config files resolve.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"location-info-service/internal/auth"
	"location-info-service/internal/config"
	"location-info-service/internal/db"
	"location-info-service/internal/observability"
	"location-info-service/internal/repository"
	"location-info-service/internal/service"
)

func main() {
	_ = godotenv.Load()

	email := flag.String("email", os.Getenv("SUPERUSER_EMAIL"), "superuser email")
	password := flag.String("password", os.Getenv("SUPERUSER_PASSWORD"), "superuser password")
	flag.Parse()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if *email == "" || *password == "" {
		logger.Fatal("email and password are required (flags or SUPERUSER_EMAIL/SUPERUSER_PASSWORD)")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.New(ctx, db.Config{
		DSN:      cfg.DatabaseURL,
		MaxConns: 2,
		MinConns: 1,
	}, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer database.Close()

	if err := database.RunMigrations(); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	tokenManager, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal("token manager", zap.Error(err))
	}

	userRepo := repository.NewPostgresUserRepository(database.Pool, logger)
	countryRepo := repository.NewPostgresCountryRepository(database.Pool, logger)
	cityRepo := repository.NewPostgresCityRepository(database.Pool, logger)
	weatherRepo := repository.NewPostgresWeatherRepository(database.Pool, logger)
	adminSvc := service.NewAdminService(userRepo, countryRepo, cityRepo, weatherRepo, tokenManager)

	user, err := adminSvc.CreateSuperuser(ctx, *email, *password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			logger.Fatal("user already exists", zap.String("email", *email))
		}
		logger.Fatal("create superuser", zap.Error(err))
	}

	logger.Info("superuser created",
		zap.String("id", user.ID.String()),
		zap.String("email", user.Email))
}
