package main

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/psycoagenda/psycoagenda/internal/handler"
	"github.com/psycoagenda/psycoagenda/internal/repository"
	"github.com/psycoagenda/psycoagenda/internal/router"
	"github.com/psycoagenda/psycoagenda/internal/service"
	"github.com/psycoagenda/psycoagenda/pkg/cache"
	"github.com/psycoagenda/psycoagenda/pkg/config"
	"github.com/psycoagenda/psycoagenda/pkg/database"
	"github.com/psycoagenda/psycoagenda/pkg/logger"
	"github.com/psycoagenda/psycoagenda/pkg/storage"
)

// @title PsycoAgenda API
// @version 1.0.0
// @description Patient and session scheduling backend for a psychology practice
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, statistics cache disabled", "error", err)
		rdb = nil
	}

	validate := validator.New()

	pacienteRepo := repository.NewPacienteRepository(db)
	sesionRepo := repository.NewSesionRepository(db)
	estadisticasRepo := repository.NewEstadisticasRepository(db)
	userRepo := repository.NewUserRepository(db)

	estadisticasSvc := service.NewEstadisticasService(estadisticasRepo, rdb, cfg.Stats.CacheTTL, logr)
	pacienteSvc := service.NewPacienteService(pacienteRepo, estadisticasSvc, validate, logr)
	sesionSvc := service.NewSesionService(sesionRepo, estadisticasSvc, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:             cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
	})
	metricsSvc := service.NewMetricsService()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reportHandler *handler.ReportHandler
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("report storage init failed", "error", err)
		}
		reportSvc := service.NewReportService(service.ReportServiceParams{
			Sesiones:  sesionSvc,
			Pacientes: pacienteSvc,
			Store:     store,
			Signer:    storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL),
			Logger:    logr,
			Workers:   cfg.Reports.WorkerConcurrency,
			Retries:   cfg.Reports.WorkerRetries,
		})
		reportSvc.Start(ctx)
		defer reportSvc.Stop()
		go reportSvc.CleanupLoop(ctx, cfg.Reports.CleanupInterval, cfg.Reports.SignedURLTTL)
		reportHandler = handler.NewReportHandler(reportSvc)
	}

	r := router.New(router.Params{
		Config:       cfg,
		Logger:       logr,
		Pacientes:    handler.NewPacienteHandler(pacienteSvc),
		Sesiones:     handler.NewSesionHandler(sesionSvc),
		Estadisticas: handler.NewEstadisticasHandler(estadisticasSvc),
		Auth:         handler.NewAuthHandler(authSvc),
		Reports:      reportHandler,
		Metrics:      handler.NewMetricsHandler(metricsSvc),
		MetricsSvc:   metricsSvc,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
