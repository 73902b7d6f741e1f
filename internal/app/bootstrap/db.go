// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/startupinsight/internal/app/resources"
	profilestore "github.com/dalemusser/startupinsight/internal/app/store/profiles"
	"github.com/dalemusser/startupinsight/internal/app/system/livesession"
	"github.com/dalemusser/startupinsight/internal/app/system/ratelimit"
	"github.com/dalemusser/startupinsight/internal/app/system/search"
	"github.com/dalemusser/startupinsight/internal/app/system/telemetry"
	"github.com/dalemusser/startupinsight/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

const (
	serviceName    = "startupinsight"
	serviceVersion = "0.1.0"
)

// ConnectDB builds the app's back end: metrics export, the company
// catalog, the live session hub and its cleanup worker.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	shutdown, err := telemetry.Init(ctx, appCfg.OTelEndpoint, serviceName, serviceVersion, appCfg.OTelInsecure)
	if err != nil {
		return DBDeps{}, err
	}
	if appCfg.OTelEndpoint != "" {
		logger.Info("OpenTelemetry metrics export enabled", zap.String("endpoint", appCfg.OTelEndpoint))
	}

	metrics, err := telemetry.NewDashboardMetrics(telemetry.Meter(serviceName))
	if err != nil {
		_ = shutdown(ctx)
		return DBDeps{}, err
	}

	store, err := loadCatalog(appCfg.ProfilesPath, logger)
	if err != nil {
		_ = shutdown(ctx)
		return DBDeps{}, err
	}

	hub := livesession.NewHub(store, livesession.Options{
		DefaultProfile: appCfg.DefaultProfile,
		RecentSeed:     search.DefaultRecentSearches,
		RecentLimit:    appCfg.RecentSearchesLimit,
		LookupLatency:  appCfg.AnalyzeLatency,
		Recorder:       metrics,
	}, logger)

	cleanup := workers.NewSessionCleanup(hub, logger, appCfg.SessionCleanupInterval, appCfg.SessionIdleTimeout)

	var limiter *ratelimit.Limiter
	if appCfg.NewSessionsPerMinute > 0 {
		limiter = ratelimit.New(appCfg.NewSessionsPerMinute, time.Minute, appCfg.TrustProxyHeaders)
	}

	return DBDeps{
		Profiles:          store,
		Hub:               hub,
		SessionCleanup:    cleanup,
		NewSessions:       limiter,
		TelemetryShutdown: shutdown,
	}, nil
}

// loadCatalog reads the company catalog from path, or the built-in one
// when path is blank.
func loadCatalog(path string, logger *zap.Logger) (*profilestore.Store, error) {
	if path != "" {
		store, err := profilestore.LoadFile(path, logger)
		if err != nil {
			return nil, fmt.Errorf("load company catalog %s: %w", path, err)
		}
		return store, nil
	}

	data, err := resources.Profiles()
	if err != nil {
		return nil, fmt.Errorf("read built-in company catalog: %w", err)
	}
	store, err := profilestore.Load(data, logger)
	if err != nil {
		return nil, fmt.Errorf("load built-in company catalog: %w", err)
	}
	return store, nil
}

// EnsureSchema checks that the catalog can serve the configured default
// company, so a bad default fails at startup instead of on first visit.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	p, err := deps.Profiles.Default(appCfg.DefaultProfile)
	if err != nil {
		logger.Error("default company not in catalog",
			zap.String("default_profile", appCfg.DefaultProfile),
			zap.Strings("available", deps.Profiles.Names()))
		return fmt.Errorf("default_profile: %w", err)
	}
	logger.Info("company catalog ready",
		zap.Int("profiles", deps.Profiles.Len()),
		zap.String("default_profile", p.Name))
	return nil
}
