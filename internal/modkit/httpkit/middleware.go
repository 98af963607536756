package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"aardsync/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	// Origins allowed by CORS; empty allows any
	Origins []string

	// Timeout cancels request contexts; 0 uses 5m since imports are long running
	Timeout time.Duration

	// Slow marks requests at or above this duration as warn in the access log
	Slow time.Duration
}

// CommonStack returns the baseline middleware for API routes
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Minute
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.Correlate(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
