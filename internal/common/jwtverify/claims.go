package jwtverify

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
)

type Claims struct {
	Subject   string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type tokenClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Sign encodes claims as a compact HS256 JWS.
func Sign(claims Claims, secret []byte) (string, error) {
	tc := tokenClaims{
		Roles: claims.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			ID:        claims.ID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(secret)
}

// ParseToken checks the signature and decodes the claim set. Time based claims
// are not validated here; callers check expiry against their own clock.
func ParseToken(tokenString string, secret []byte) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithoutClaimsValidation(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	var tc tokenClaims
	_, err := parser.ParseWithClaims(tokenString, &tc, func(token *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenUnverifiable) {
			return Claims{}, commonerrors.ErrTokenInvalidSignature.WithCause(err)
		}
		return Claims{}, commonerrors.ErrTokenMalformed.WithCause(err)
	}

	if tc.Subject == "" || tc.ExpiresAt == nil {
		return Claims{}, commonerrors.ErrTokenMalformed.WithMessage("token is missing required claims")
	}

	claims := Claims{
		Subject:   tc.Subject,
		Roles:     tc.Roles,
		ExpiresAt: tc.ExpiresAt.Time,
		ID:        tc.ID,
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time
	}
	return claims, nil
}
