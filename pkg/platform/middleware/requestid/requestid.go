// Package requestid assigns every request a correlation id, honoring one
// supplied by the caller so multi-hop traces line up.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"answerwire/pkg/requestcontext"
)

// Header is the inbound/outbound request id header.
const Header = "X-Request-ID"

// Middleware stores the request id in the context and echoes it on the
// response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
