// Package admin guards the operator API. Two credentials are accepted: a
// Bearer JWT signed with the shared key and carrying role=admin, or an
// X-Admin-Key header matched against the configured bcrypt hash.
package admin

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"answerwire/pkg/requestcontext"
)

// Verifier validates admin credentials.
type Verifier struct {
	signingKey []byte
	apiKeyHash []byte
}

// NewVerifier builds a verifier. apiKeyHash may be empty, in which case only
// JWTs are accepted.
func NewVerifier(signingKey, apiKeyHash string) *Verifier {
	return &Verifier{
		signingKey: []byte(signingKey),
		apiKeyHash: []byte(apiKeyHash),
	}
}

// VerifyToken checks a JWT's signature, expiry, and admin role.
func (v *Verifier) VerifyToken(tokenString string) error {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("unexpected claims type")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return errors.New("token does not carry the admin role")
	}
	return nil
}

// VerifyAPIKey compares a raw key against the configured bcrypt hash.
func (v *Verifier) VerifyAPIKey(key string) error {
	if len(v.apiKeyHash) == 0 {
		return errors.New("no admin api key configured")
	}
	return bcrypt.CompareHashAndPassword(v.apiKeyHash, []byte(key))
}

// RequireAdmin rejects requests without a valid admin credential.
func RequireAdmin(v *Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if key := r.Header.Get("X-Admin-Key"); key != "" {
				if err := v.VerifyAPIKey(key); err == nil {
					next.ServeHTTP(w, r)
					return
				}
				logger.WarnContext(ctx, "admin api key mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "invalid admin key")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				if err := v.VerifyToken(token); err == nil {
					next.ServeHTTP(w, r)
					return
				}
				logger.WarnContext(ctx, "admin token rejected",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			logger.WarnContext(ctx, "admin credential missing",
				"request_id", requestcontext.RequestID(ctx),
			)
			writeUnauthorized(w, "admin credential required")
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, desc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"unauthorized","error_description":"%s"}`, desc))
}
