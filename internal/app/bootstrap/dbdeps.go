// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	profilestore "github.com/dalemusser/startupinsight/internal/app/store/profiles"
	"github.com/dalemusser/startupinsight/internal/app/system/livesession"
	"github.com/dalemusser/startupinsight/internal/app/system/ratelimit"
	"github.com/dalemusser/startupinsight/internal/app/system/telemetry"
	"github.com/dalemusser/startupinsight/internal/app/system/workers"
)

// DBDeps holds the back-end dependencies for the app. StartupInsight has
// no database; its back end is the in-memory company catalog and the hub
// of live visitor dashboards.
type DBDeps struct {
	Profiles          *profilestore.Store
	Hub               *livesession.Hub
	SessionCleanup    *workers.SessionCleanup
	NewSessions       *ratelimit.Limiter // nil when new_sessions_per_minute is 0
	TelemetryShutdown telemetry.Shutdown
}
