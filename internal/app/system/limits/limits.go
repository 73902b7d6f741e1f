// internal/app/system/limits/limits.go
package limits

// Request body size limits for dashboard actions.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxActionFormSize is the maximum size of a dashboard action form
	// (search query, category, recent search, company selection).
	MaxActionFormSize = 16 << 10 // 16 KB
)
