package service

import (
	"time"

	"github.com/AlibekovAA/dh-notes/internal/common/clock"
	"github.com/AlibekovAA/dh-notes/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/dh-notes/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
	"github.com/AlibekovAA/dh-notes/internal/common/jwtverify"
)

// TokenService issues and verifies HS256 identity tokens. It holds no state
// besides the signing key, so it is safe for concurrent use.
type TokenService struct {
	secret      []byte
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	ttl         time.Duration
}

func NewTokenService(secret string, idGenerator commoncrypto.IDGenerator, ttl time.Duration, clk clock.Clock) *TokenService {
	if ttl <= 0 {
		ttl = constants.DefaultTokenTTL
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &TokenService{
		secret:      []byte(secret),
		idGenerator: idGenerator,
		clock:       clk,
		ttl:         ttl,
	}
}

func (s *TokenService) Issue(username string) (string, error) {
	jti, err := s.idGenerator.NewID()
	if err != nil {
		return "", commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now().Truncate(time.Second)
	token, err := jwtverify.Sign(jwtverify.Claims{
		Subject:   username,
		Roles:     []string{constants.RoleUser},
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
		ID:        jti,
	}, s.secret)
	if err != nil {
		return "", commonerrors.ErrInternalError.WithCause(err)
	}

	incrementAccessTokensIssued()
	return token, nil
}

func (s *TokenService) Verify(tokenString string) (jwtverify.Claims, error) {
	return jwtverify.ParseToken(tokenString, s.secret)
}

func (s *TokenService) IsExpired(claims jwtverify.Claims) bool {
	return claims.ExpiresAt.Before(s.clock.Now())
}
