// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig is where everything specific to StartupInsight lives: the
// visitor cookie, the company catalog, the simulated lookup and the live
// session lifecycle.
type AppConfig struct {
	// Visitor cookie configuration
	SessionKey    string // Secret key for signing visitor cookies (must be strong in production)
	SessionName   string // Cookie name (default: startupinsight-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Company catalog
	ProfilesPath   string // YAML catalog file; blank uses the embedded catalog
	DefaultProfile string // Company shown when a visitor arrives

	// Search panel
	AnalyzeLatency      time.Duration // How long the simulated lookup takes
	RecentSearchesLimit int           // Cap for the recent-searches list

	// Theme used when the browser sends no colour-scheme hint
	DefaultDarkMode bool

	// Live sessions
	SessionIdleTimeout     time.Duration // Idle time before a live session is closed
	SessionCleanupInterval time.Duration // How often idle sessions are swept
	NewSessionsPerMinute   int           // Live sessions one client IP may open per minute (0 disables the limit)
	DispatchTimeout        time.Duration // How long a request waits on its live session
	TrustProxyHeaders      bool          // Take client IPs from X-Forwarded-For / X-Real-IP

	// OpenTelemetry metrics export
	OTelEndpoint string // OTLP/HTTP endpoint (host:port); blank disables export
	OTelInsecure bool   // Use plain HTTP to the collector
}
