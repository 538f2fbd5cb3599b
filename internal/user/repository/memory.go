package repository

import (
	"context"
	"sync"

	"github.com/AlibekovAA/dh-notes/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/dh-notes/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
	"github.com/AlibekovAA/dh-notes/internal/user/domain"
)

type MemoryRepository struct {
	mu          sync.RWMutex
	byUsername  map[string]domain.User
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
}

func NewMemoryRepository(idGenerator commoncrypto.IDGenerator, clk clock.Clock) *MemoryRepository {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &MemoryRepository{
		byUsername:  make(map[string]domain.User),
		idGenerator: idGenerator,
		clock:       clk,
	}
}

func (r *MemoryRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return domain.User{}, commonerrors.ErrUsernameAlreadyExists
	}

	id, err := r.idGenerator.NewID()
	if err != nil {
		return domain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}
	user.ID = domain.ID(id)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.clock.Now()
	}

	r.byUsername[user.Username] = user
	return user, nil
}

func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byUsername[username]
	if !ok {
		return domain.User{}, commonerrors.ErrUserNotFound
	}
	return user, nil
}
