package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

type ctxKey int

const identityKey ctxKey = 1

// WithIdentity attaches the resolved identity to the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity resolved for this request. Requests
// that never passed through ResolveSession get the anonymous identity.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}

// ResolveSession resolves the caller's identity once per request, before
// route dispatch. A missing or empty bearer header is not an error: the
// request continues anonymously and public routes stay reachable. A token
// that was actually presented MUST verify; the caller asserted it should be
// recognized, so any verification failure rejects the request rather than
// downgrading it to anonymous.
func ResolveSession(codec *Codec, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Every request gets a defined identity, even with no header.
			ctx := WithIdentity(r.Context(), Identity{})

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			id, err := codec.Verify(token)
			if err != nil {
				logger.Warn("authentication failed: invalid token",
					"tokenPreview", tokenPreview(token), "err", err)
				writeEnvelope(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			logger.Info("user authenticated via token", "userId", id.UserID)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireRole gates a route on the resolved identity holding at least one
// of the given roles. Admins pass every check whether or not admin was
// asked for. Unknown role names are logged and never satisfied; they are a
// configuration smell, not a fatal error.
func RequireRole(logger *slog.Logger, roles ...Role) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFrom(r.Context())
			if !id.Authenticated {
				writeEnvelope(w, http.StatusUnauthorized,
					"Authentication required. Please include a valid token.")
				return
			}

			if id.IsAdmin {
				next.ServeHTTP(w, r)
				return
			}

			authorized := false
			for _, role := range roles {
				check, known := roleChecks[role]
				if !known {
					logger.Warn("unknown role in route configuration", "role", string(role))
					continue
				}
				if check(id) {
					authorized = true
					break
				}
			}

			if !authorized {
				logger.Warn("authorization failed",
					"userId", id.UserID,
					"requiredRoles", roleNames(roles),
					"isAdmin", id.IsAdmin,
					"isFounder", id.IsFounder,
					"isInvestor", id.IsInvestor,
					"isCurious", id.IsCuriousPerson)
				writeEnvelope(w, http.StatusForbidden,
					"Access denied. User does not have the required role(s): "+
						strings.Join(roleNames(roles), " or ")+".")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// tokenPreview redacts a token down to a short prefix for logs.
func tokenPreview(token string) string {
	if len(token) <= 10 {
		return token
	}
	return token[:10]
}

func writeEnvelope(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": message,
	})
}
