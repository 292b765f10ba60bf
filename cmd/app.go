package cmd

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-vault/internal/config"
	"github.com/Taichi-iskw/yt-vault/internal/logger"
	"github.com/Taichi-iskw/yt-vault/internal/notifier"
	"github.com/Taichi-iskw/yt-vault/internal/repository"
	"github.com/Taichi-iskw/yt-vault/internal/service/orchestrator"
	"github.com/Taichi-iskw/yt-vault/internal/service/ytdlp"
)

// app holds the components shared by serve and parse
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	pool      *pgxpool.Pool
	videoRepo repository.VideoRepository
	hub       *notifier.Hub
	orch      *orchestrator.Orchestrator
}

// loadConfigAndLogger loads configuration and builds the logger it asks for
func loadConfigAndLogger() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// newApp connects to the database, applies migrations and wires the components
func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return nil, err
	}

	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		return nil, err
	}

	pool, err := config.NewDatabasePool(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	videoRepo := repository.NewVideoRepository(pool)
	hub := notifier.NewHub(log)
	downloader := ytdlp.NewService(ytdlp.Options{
		BinaryPath:  cfg.YtDlpPath,
		DownloadDir: cfg.DownloadDir,
		MaxHeight:   cfg.MaxHeight,
		RemuxVideo:  cfg.RemuxVideo,
	}, log)
	orch := orchestrator.New(downloader, videoRepo, hub, orchestrator.Options{
		DefaultChannelURL:      cfg.ChannelURL,
		DefaultMaxVideos:       cfg.MaxVideos,
		MaxConcurrentDownloads: cfg.MaxConcurrentDownloads,
	}, log)

	return &app{
		cfg:       cfg,
		log:       log,
		pool:      pool,
		videoRepo: videoRepo,
		hub:       hub,
		orch:      orch,
	}, nil
}

func (a *app) Close() {
	config.CloseDatabasePool(a.pool)
}
