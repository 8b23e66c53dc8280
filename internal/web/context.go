package web

import (
	"context"
	"net/http"

	"github.com/veemap/taskdash/internal/core"
)

// withRequestMetadata adds the client IP to context for audit logging.
// RemoteAddr has already been rewritten by chi's RealIP middleware.
func withRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithIPAddress(ctx, r.RemoteAddr)
}
