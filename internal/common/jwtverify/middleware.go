package jwtverify

import (
	"context"
	"errors"
	"net/http"

	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
	commonhttp "github.com/AlibekovAA/dh-notes/internal/common/http"
	"github.com/AlibekovAA/dh-notes/internal/common/logger"
	"github.com/AlibekovAA/dh-notes/internal/observability/metrics"
)

type Verifier interface {
	Verify(tokenString string) (Claims, error)
	IsExpired(claims Claims) bool
}

type contextKey string

const claimsKey contextKey = "jwt_claims"

// Authorize fails with a FORBIDDEN domain error when claims lack role.
func Authorize(claims Claims, role string) error {
	if !claims.HasRole(role) {
		return commonerrors.ErrInsufficientRole.WithMessage("role " + role + " is required")
	}
	return nil
}

// Middleware rejects requests without a valid, unexpired bearer token that
// carries requiredRole. Verified claims are stored in the request context.
func Middleware(verifier Verifier, requiredRole string, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.JWTValidationsTotal.Inc()

			claims, err := authenticate(verifier, requiredRole, r)
			if err != nil {
				reason := "unknown"
				if de, ok := commonerrors.AsDomainError(err); ok {
					reason = de.Code()
				}
				metrics.JWTValidationsFailed.WithLabelValues(reason).Inc()

				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"reason": reason,
					"action": "access_denied",
				}).Warn("access denied")
				commonhttp.HandleError(w, r, err, log)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func authenticate(verifier Verifier, requiredRole string, r *http.Request) (Claims, error) {
	token, ok := commonhttp.BearerToken(r)
	if !ok {
		return Claims{}, commonerrors.ErrMissingAuthorization
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		if !commonerrors.IsCategory(err, commonerrors.CategoryUnauthorized) {
			return Claims{}, commonerrors.ErrTokenMalformed.WithCause(err)
		}
		return Claims{}, err
	}

	if verifier.IsExpired(claims) {
		return Claims{}, commonerrors.ErrTokenExpired
	}

	if err := Authorize(claims, requiredRole); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

var errNoClaims = errors.New("no verified claims in context")

// MustFromContext returns the claims placed by Middleware or an UNAUTHORIZED error.
func MustFromContext(ctx context.Context) (Claims, error) {
	claims, ok := FromContext(ctx)
	if !ok {
		return Claims{}, commonerrors.ErrMissingAuthorization.WithCause(errNoClaims)
	}
	return claims, nil
}
