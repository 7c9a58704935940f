package httpx

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
)

const RequestIDHeader = "X-Request-Id"

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// ContextWithRequestID pins the id the next outbound request will carry.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// WithRequestID stamps every outbound request with X-Request-Id, taken from the context
// when present and freshly generated otherwise.
func WithRequestID(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get(RequestIDHeader) != "" {
			return next.RoundTrip(r)
		}
		id := RequestIDFromContext(r.Context())
		if id == "" {
			id = uuid.NewString()
		}
		ctx := ContextWithRequestID(r.Context(), id)
		r = r.Clone(ctx)
		r.Header.Set(RequestIDHeader, id)
		return next.RoundTrip(r)
	})
}
