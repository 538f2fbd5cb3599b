package service

import (
	"context"
	"errors"
	"sync"

	"github.com/AlibekovAA/dh-notes/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/dh-notes/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
	"github.com/AlibekovAA/dh-notes/internal/common/logger"
	userdomain "github.com/AlibekovAA/dh-notes/internal/user/domain"
	userrepo "github.com/AlibekovAA/dh-notes/internal/user/repository"
)

type TokenIssuer interface {
	Issue(username string) (string, error)
}

type AuthService struct {
	repo   userrepo.Repository
	hasher commoncrypto.PasswordHasher
	tokens TokenIssuer
	clock  clock.Clock
	log    *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	tokens TokenIssuer,
	clk clock.Clock,
	log *logger.Logger,
) *AuthService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		clock:  clk,
		log:    log,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (userdomain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validateCredentials(username, password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		recordRegistration("invalid")
		return userdomain.User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		recordRegistration("error")
		return userdomain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user, err := s.repo.Save(ctx, userdomain.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, commonerrors.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			recordRegistration("duplicate")
			return userdomain.User{}, err
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "register_save_failed",
		}).Errorf("register failed: %v", err)
		recordRegistration("error")
		return userdomain.User{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")
	recordRegistration("success")

	return user, nil
}

// Authenticate reports ok=false for an unknown user and a wrong password
// alike. Unknown users are still compared against a dummy hash so both paths
// spend roughly the same time.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (userdomain.User, bool, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummy(), password)
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "authenticate_rejected",
			}).Debug("authenticate rejected")
			return userdomain.User{}, false, nil
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "authenticate_fetch_failed",
		}).Errorf("authenticate failed: %v", err)
		return userdomain.User{}, false, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "authenticate_rejected",
		}).Debug("authenticate rejected")
		return userdomain.User{}, false, nil
	}

	return user, true, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": username,
		"action":   "login_attempt",
	}).Info("login attempt")

	user, ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		recordLogin("error")
		return "", err
	}
	if !ok {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "login_invalid_credentials",
		}).Warn("login failed: invalid credentials")
		recordLogin("invalid_credentials")
		return "", commonerrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		recordLogin("error")
		return "", err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")
	recordLogin("success")

	return token, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("timing-equalizer-password")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
