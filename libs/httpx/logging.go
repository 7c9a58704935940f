package httpx

import (
	"log/slog"
	"net/http"
	"time"
)

func WithAccessLog(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if logger == nil {
			return next
		}
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)

			attrs := []any{
				"request_id", r.Header.Get(RequestIDHeader),
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				logger.Warn("http call failed", append(attrs, "err", err)...)
				return nil, err
			}
			logger.Debug("http call", append(attrs, "status", resp.StatusCode)...)
			return resp, nil
		})
	}
}
