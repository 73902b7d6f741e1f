// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/startupinsight/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background work, closes every live dashboard and flushes
// metrics.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.SessionCleanup != nil {
		deps.SessionCleanup.Stop()
	}
	if deps.Hub != nil {
		logger.Info("closing live sessions", zap.Int("count", deps.Hub.Len()))
		deps.Hub.Close()
	}
	if deps.NewSessions != nil {
		deps.NewSessions.Stop()
	}
	if deps.TelemetryShutdown != nil {
		flushCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Telemetry(), logger, "telemetry flush")
		defer cancel()
		if err := deps.TelemetryShutdown(flushCtx); err != nil {
			logger.Error("telemetry shutdown failed", zap.Error(err))
			return err
		}
	}
	return nil
}
