package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/psp-report-service/internal/adapter/chromedp_portal"
	redis_adapter "github.com/user/psp-report-service/internal/adapter/redis"
	"github.com/user/psp-report-service/internal/adapter/resty_fetcher"
	"github.com/user/psp-report-service/internal/adapter/spreadsheet"
	"github.com/user/psp-report-service/internal/entity"
	"github.com/user/psp-report-service/internal/usecase"
	"github.com/user/psp-report-service/pkg/config"
)

const redisPingTimeout = 5 * time.Second

// App holds the wired extraction service and the connections it owns.
type App struct {
	Extractor usecase.ReportExtractor
	Redis     *redis.Client
}

// New wires repositories and use cases from cfg. Redis is connected only
// when an address is configured.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	// --- Repositories ---
	portalRepo, err := chromedp_portal.NewPortalRepo(chromedp_portal.Options{
		PortalURL:      cfg.PortalURL,
		ChromePath:     cfg.ChromePath,
		UserAgent:      cfg.UserAgent,
		Headless:       cfg.Headless,
		LaunchTimeout:  cfg.LaunchTimeout,
		ElementTimeout: cfg.ElementTimeout,
		SettleTimeout:  cfg.SettleTimeout,
		PollInterval:   cfg.PollInterval,
		MaxPages:       cfg.MaxPages,
	}, chromedp_portal.DefaultSelectors())
	if err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}

	fetcher := resty_fetcher.NewFetcher(resty_fetcher.Options{
		Timeout:            cfg.DownloadTimeout,
		Retries:            cfg.DownloadRetries,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		UserAgent:          cfg.UserAgent,
	})

	layout := entity.DefaultRegionLayout()
	if cfg.ReportSheet != "" {
		layout.Sheet = cfg.ReportSheet
	}
	if cfg.ReportFirstRow > 0 {
		layout.FirstRow = cfg.ReportFirstRow
	}

	var opts []usecase.AggregatorOption
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if _, err := rdb.Ping(pingCtx).Result(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		slog.Info("Redis connection established", "addr", cfg.RedisAddr)

		app.Redis = rdb
		opts = append(opts, usecase.WithRegionCache(redis_adapter.NewRegionCache(rdb), cfg.CacheTTL))
	}

	// --- Use Cases ---
	aggregator := usecase.NewAggregator(fetcher, spreadsheet.NewReader(), layout, opts...)
	app.Extractor = usecase.NewReportUseCase(portalRepo, aggregator, cfg.FirstFinancialYear, cfg.ExtractTimeout)

	return app, nil
}

// Close releases the connections held by the app.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			slog.Warn("Failed to close Redis client", "error", err)
		}
	}
}
