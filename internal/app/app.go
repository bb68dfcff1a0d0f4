package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/printmate/printmate/internal/config"
	"github.com/printmate/printmate/internal/db"
	"github.com/printmate/printmate/internal/media"
	"github.com/printmate/printmate/internal/middleware"
	"github.com/printmate/printmate/internal/printer"
	"github.com/printmate/printmate/internal/repository"
	"github.com/printmate/printmate/internal/service"
)

type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	AuthService   *service.AuthService
	FileService   *service.FileService
	PrintService  *service.PrintService
	HelpService   *service.HelpService
	HealthService *service.HealthService
	LoginLimiter  *middleware.RateLimiter
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	fileRepository := repository.NewFileRepository(database)

	// Media host
	host, err := media.New(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize media host: %w", err)
	}

	// Services
	authService := service.NewAuthService(
		userRepository,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
		cfg.SessionCacheSize,
		cfg.SessionCacheTTL,
	)
	fileService := service.NewFileService(fileRepository, host, cfg.RecentPageSize, cfg.RecentMaxPageSize)
	printClient := printer.NewClient(cfg.PrintBackendURL, cfg.PrintAPIKey, cfg.PrintTimeout)
	printService := service.NewPrintService(printClient, fileService)
	helpService, err := service.NewHelpService()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to load help pages: %w", err)
	}

	return &App{
		Cfg:           cfg,
		DB:            database,
		AuthService:   authService,
		FileService:   fileService,
		PrintService:  printService,
		HelpService:   helpService,
		HealthService: service.NewHealthService(database),
		LoginLimiter:  middleware.RateLimitAuth(),
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
