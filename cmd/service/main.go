package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"location-info-service/internal/auth"
	"location-info-service/internal/client"
	"location-info-service/internal/config"
	"location-info-service/internal/db"
	httphandler "location-info-service/internal/http"
	"location-info-service/internal/lifecycle"
	"location-info-service/internal/observability"
	"location-info-service/internal/repository"
	"location-info-service/internal/service"
)

func main() {
	_ = godotenv.Load()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.New(ctx, db.Config{
		DSN:             cfg.DatabaseURL,
		MaxConns:        cfg.DatabaseMaxConns,
		MinConns:        cfg.DatabaseMinConns,
		MaxConnLifetime: cfg.DatabaseMaxConnLifetime,
		MaxConnIdleTime: cfg.DatabaseMaxConnIdleTime,
	}, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer database.Close()

	if err := database.RunMigrations(); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	geoClient, err := client.NewAPILayerGeoClient(cfg.GeoAPIKey, cfg.GeoAPIURL, cfg.RatesAPIURL, cfg.GeoAPITimeout)
	if err != nil {
		logger.Fatal("geo client", zap.Error(err))
	}
	weatherClient, err := client.NewOpenWeatherClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.WeatherAPITimeout)
	if err != nil {
		logger.Fatal("weather client", zap.Error(err))
	}

	tokenManager, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal("token manager", zap.Error(err))
	}

	countryRepo := repository.NewPostgresCountryRepository(database.Pool, logger)
	cityRepo := repository.NewPostgresCityRepository(database.Pool, logger)
	weatherRepo := repository.NewPostgresWeatherRepository(database.Pool, logger)
	userRepo := repository.NewPostgresUserRepository(database.Pool, logger)

	countrySvc := service.NewCountryService(countryRepo, geoClient)
	citySvc := service.NewCityService(cityRepo, geoClient, countrySvc)
	weatherSvc := service.NewWeatherService(weatherRepo, weatherClient, citySvc)
	locationSvc := service.NewLocationService(citySvc, weatherSvc, geoClient)
	adminSvc := service.NewAdminService(userRepo, countryRepo, cityRepo, weatherRepo, tokenManager)

	var newsSvc *service.NewsService
	if cfg.NewsAPIKey != "" {
		newsClient, err := client.NewNewsAPIClient(cfg.NewsAPIKey, cfg.NewsAPIURL, cfg.NewsAPITimeout)
		if err != nil {
			logger.Fatal("news client", zap.Error(err))
		}
		newsRepo := repository.NewPostgresNewsRepository(database.Pool, logger)
		newsSvc = service.NewNewsService(newsRepo, newsClient, countrySvc)
		logger.Info("news provider enabled")
	} else {
		logger.Info("news provider disabled; NEWS_API_KEY not set")
	}

	handler := httphandler.NewHandler(
		countrySvc, citySvc, weatherSvc, locationSvc, newsSvc, adminSvc,
		weatherClient, database.Health, logger, cfg.MaxNameLength,
	)

	router := mux.NewRouter()
	router.Use(httphandler.CorrelationIDMiddleware(logger))
	router.Use(httphandler.MetricsMiddleware)
	router.HandleFunc("/health", handler.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())
	router.HandleFunc("/countries/{name}", handler.GetCountry).Methods("GET")
	router.HandleFunc("/cities/{name}", handler.GetCity).Methods("GET")
	router.HandleFunc("/weather/{city}", handler.GetWeather).Methods("GET")
	router.HandleFunc("/locations/{city}", handler.GetLocation).Methods("GET")
	if newsSvc != nil {
		router.HandleFunc("/news/{alpha2}", handler.GetNews).Methods("GET")
	}

	router.HandleFunc("/admin/login", handler.PostAdminLogin).Methods("POST")
	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(httphandler.AuthMiddleware(tokenManager))
	adminRouter.HandleFunc("/stats", handler.GetAdminStats).Methods("GET")
	adminRouter.HandleFunc("/users", handler.GetAdminUsers).Methods("GET")
	adminRouter.HandleFunc("/snapshots", handler.DeleteAdminSnapshots).Methods("DELETE")

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	lifecycle.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	inFlight := httphandler.InFlightCount()
	logger.Info("waiting for in-flight requests", zap.Int64("count", inFlight))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownInFlightTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.ShutdownInFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}

	logger.Info("shutdown complete")
}
