// Package request carries the per-request correlation ID from chi into requestcontext.
package request

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"tracker/pkg/requestcontext"
)

// HeaderRequestID is echoed on every response.
const HeaderRequestID = "X-Request-ID"

// RequestContext copies the ID assigned by chi's RequestID middleware into requestcontext
// so services and stores can log it without importing chi. It must run after chi's RequestID.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := chimw.GetReqID(r.Context())
		if reqID == "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set(HeaderRequestID, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request ID stored on ctx.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
