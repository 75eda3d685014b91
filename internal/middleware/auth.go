// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/angelamos/referral-service/internal/core"
)

const (
	AccountIDKey contextKey = "account_id"
	EmailKey     contextKey = "email"
)

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (string, error)
}

// Principal is the authenticated account behind a request.
type Principal struct {
	AccountID string
	Email     string
}

type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, email string) (*Principal, error)
}

// Authenticator verifies the bearer token and resolves its subject to an
// existing account. Every failure mode (missing header, bad signature,
// expired token, unknown subject) answers 401 with the same message so
// the endpoint cannot be used to probe for accounts; only the machine
// code distinguishes expired from invalid tokens.
func Authenticator(
	verifier TokenVerifier,
	resolver PrincipalResolver,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			email, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, core.ErrTokenExpired) {
					core.JSONError(w, core.TokenExpiredError())
					return
				}
				core.JSONError(w, core.TokenInvalidError())
				return
			}

			principal, err := resolver.ResolvePrincipal(r.Context(), email)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, AccountIDKey, principal.AccountID)
			ctx = context.WithValue(ctx, EmailKey, principal.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	core.JSONError(w, core.UnauthorizedError("could not validate credentials"))
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func GetAccountID(ctx context.Context) string {
	if id, ok := ctx.Value(AccountIDKey).(string); ok {
		return id
	}
	return ""
}

func GetEmail(ctx context.Context) string {
	if email, ok := ctx.Value(EmailKey).(string); ok {
		return email
	}
	return ""
}
