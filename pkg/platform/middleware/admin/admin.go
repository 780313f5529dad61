package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "tracker/pkg/domain-errors"
	"tracker/pkg/platform/httputil"
	"tracker/pkg/platform/middleware/metadata"
	request "tracker/pkg/platform/middleware/request"
)

// HeaderAdminToken carries the admin token on mutating requests.
const HeaderAdminToken = "X-Admin-Token"

// RequireAdminToken rejects requests whose X-Admin-Token does not match expectedToken.
// An empty expectedToken disables the check.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if expectedToken == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderAdminToken)
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				attrs := append([]any{
					"request_id", request.GetRequestID(ctx),
					"method", r.Method,
					"path", r.URL.Path,
				}, metadata.FromContext(ctx).LogAttrs()...)
				logger.WarnContext(ctx, "admin token mismatch", attrs...)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
