// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/startupinsight/internal/app/system/search"
	"github.com/dalemusser/startupinsight/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

const (
	// minSessionKeyLen is the shortest session key accepted in production.
	minSessionKeyLen = 32

	devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"
)

// appConfigKeys defines the configuration keys for StartupInsight.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: session_name, profiles_path, etc.
//   - Environment variables: STARTUPINSIGHT_SESSION_NAME, STARTUPINSIGHT_PROFILES_PATH, etc.
//   - Command-line flags: --session_name, --profiles_path, etc.
var appConfigKeys = []config.AppKey{
	{Name: "session_key", Default: devSessionKey, Desc: "Visitor cookie signing key (must be strong in production)"},
	{Name: "session_name", Default: "startupinsight-session", Desc: "Visitor cookie name"},
	{Name: "session_domain", Default: "", Desc: "Visitor cookie domain (blank means current host)"},

	// Company catalog
	{Name: "profiles_path", Default: "", Desc: "Path to a YAML company catalog (blank uses the built-in catalog)"},
	{Name: "default_profile", Default: "NutriTech", Desc: "Company shown when a visitor arrives"},

	// Search panel
	{Name: "analyze_latency", Default: "1500ms", Desc: "Simulated lookup latency (e.g., 1500ms, 2s)"},
	{Name: "recent_searches_limit", Default: search.DefaultRecentLimit, Desc: "Maximum number of recent searches kept per visitor"},

	// Theme
	{Name: "default_dark_mode", Default: false, Desc: "Start in dark mode when the browser sends no colour-scheme hint"},

	// Live sessions
	{Name: "session_idle_timeout", Default: "30m", Desc: "Close a visitor's live dashboard after this much inactivity"},
	{Name: "session_cleanup_interval", Default: "1m", Desc: "How often idle live dashboards are swept"},
	{Name: "new_sessions_per_minute", Default: 30, Desc: "Live dashboards one client IP may open per minute (0 disables the limit)"},
	{Name: "dispatch_timeout", Default: "5s", Desc: "How long a request waits on its live dashboard"},
	{Name: "trust_proxy_headers", Default: false, Desc: "Take client IPs from X-Forwarded-For/X-Real-IP (only behind a proxy that sets them)"},

	// OpenTelemetry
	{Name: "otel_endpoint", Default: "", Desc: "OTLP/HTTP metrics endpoint, host:port (blank disables export)"},
	{Name: "otel_insecure", Default: false, Desc: "Use plain HTTP to the OTLP collector"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, STARTUPINSIGHT_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STARTUPINSIGHT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		ProfilesPath:   appValues.String("profiles_path"),
		DefaultProfile: appValues.String("default_profile"),

		AnalyzeLatency:      appValues.Duration("analyze_latency", search.DefaultLatency),
		RecentSearchesLimit: appValues.Int("recent_searches_limit"),

		DefaultDarkMode: appValues.Bool("default_dark_mode"),

		SessionIdleTimeout:     appValues.Duration("session_idle_timeout", 30*time.Minute),
		SessionCleanupInterval: appValues.Duration("session_cleanup_interval", time.Minute),
		NewSessionsPerMinute:   appValues.Int("new_sessions_per_minute"),
		DispatchTimeout:        appValues.Duration("dispatch_timeout", timeouts.DefaultDispatch),
		TrustProxyHeaders:      appValues.Bool("trust_proxy_headers"),

		OTelEndpoint: appValues.String("otel_endpoint"),
		OTelInsecure: appValues.Bool("otel_insecure"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.AnalyzeLatency <= 0 {
		return fmt.Errorf("analyze_latency must be positive, got %v", appCfg.AnalyzeLatency)
	}
	if appCfg.RecentSearchesLimit < 1 {
		return fmt.Errorf("recent_searches_limit must be at least 1, got %d", appCfg.RecentSearchesLimit)
	}
	if appCfg.SessionIdleTimeout <= 0 {
		return fmt.Errorf("session_idle_timeout must be positive, got %v", appCfg.SessionIdleTimeout)
	}
	if appCfg.SessionCleanupInterval <= 0 {
		return fmt.Errorf("session_cleanup_interval must be positive, got %v", appCfg.SessionCleanupInterval)
	}
	if appCfg.NewSessionsPerMinute < 0 {
		return fmt.Errorf("new_sessions_per_minute must not be negative, got %d", appCfg.NewSessionsPerMinute)
	}
	if appCfg.DispatchTimeout <= 0 {
		return fmt.Errorf("dispatch_timeout must be positive, got %v", appCfg.DispatchTimeout)
	}
	if appCfg.SessionName == "" {
		return fmt.Errorf("session_name must not be empty")
	}

	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.SessionKey) < minSessionKeyLen {
		logger.Error("session key too short for production",
			zap.Int("length", len(appCfg.SessionKey)),
			zap.Int("required", minSessionKeyLen))
		return fmt.Errorf("session_key must be at least %d characters in prod", minSessionKeyLen)
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SessionKey == devSessionKey {
		return fmt.Errorf("session_key must be changed from the development default in prod")
	}

	return nil
}
