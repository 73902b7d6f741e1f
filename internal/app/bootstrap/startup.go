// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/startupinsight/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the back end is
// built, but before the HTTP handler is built. It starts the worker that
// closes idle live dashboards.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{Dispatch: appCfg.DispatchTimeout})
	logger.Debug("handler timeouts", zap.Duration("dispatch", timeouts.Dispatch()))

	if deps.SessionCleanup != nil {
		deps.SessionCleanup.Start()
	}
	return nil
}
