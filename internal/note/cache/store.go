package cache

import (
	"context"
	"errors"

	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
	"github.com/AlibekovAA/dh-notes/internal/common/logger"
	"github.com/AlibekovAA/dh-notes/internal/common/resilience"
	"github.com/AlibekovAA/dh-notes/internal/note/domain"
	"github.com/AlibekovAA/dh-notes/internal/note/repository"
	"github.com/AlibekovAA/dh-notes/internal/observability/metrics"
)

// CachedStore is a read-through cache in front of a note store. Cache failures
// are logged and fall back to the underlying store. Reads and fills go through
// the breaker when one is set; invalidations always reach the cache.
type CachedStore struct {
	repository.Store
	cache   Cache
	breaker *resilience.CircuitBreaker
	log     *logger.Logger
}

func NewCachedStore(store repository.Store, cache Cache, breaker *resilience.CircuitBreaker, log *logger.Logger) *CachedStore {
	return &CachedStore{Store: store, cache: cache, breaker: breaker, log: log}
}

func (s *CachedStore) guarded(ctx context.Context, fn func(context.Context) error) error {
	if s.breaker == nil {
		return fn(ctx)
	}
	return s.breaker.Call(ctx, fn)
}

// FindByID fills the cache only after a successful lookup, using the
// generation that lookup saw. An invalidation racing with the store read makes
// the fill a no-op.
func (s *CachedStore) FindByID(ctx context.Context, id domain.ID) (domain.Note, error) {
	var (
		note domain.Note
		gen  Generation
		ok   bool
	)
	err := s.guarded(ctx, func(ctx context.Context) error {
		var getErr error
		note, gen, ok, getErr = s.cache.Get(ctx, id)
		return getErr
	})
	switch {
	case errors.Is(err, commonerrors.ErrCircuitOpen):
		metrics.NoteCacheLookups.WithLabelValues("bypass").Inc()
	case err != nil:
		metrics.NoteCacheLookups.WithLabelValues("error").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"note_id": int64(id),
			"action":  "note_cache_get_failed",
		}).Warnf("note cache lookup failed: %v", err)
	case ok:
		metrics.NoteCacheLookups.WithLabelValues("hit").Inc()
		return note, nil
	default:
		metrics.NoteCacheLookups.WithLabelValues("miss").Inc()
	}
	fill := err == nil

	note, err = s.Store.FindByID(ctx, id)
	if err != nil {
		return domain.Note{}, err
	}
	if fill {
		s.fill(ctx, note, gen)
	}
	return note, nil
}

func (s *CachedStore) fill(ctx context.Context, note domain.Note, gen Generation) {
	var stored bool
	err := s.guarded(ctx, func(ctx context.Context) error {
		var setErr error
		stored, setErr = s.cache.Set(ctx, note, gen)
		return setErr
	})
	switch {
	case errors.Is(err, commonerrors.ErrCircuitOpen):
	case err != nil:
		s.log.WithFields(ctx, logger.Fields{
			"note_id": int64(note.ID),
			"action":  "note_cache_set_failed",
		}).Warnf("note cache fill failed: %v", err)
	case !stored:
		if s.log.Enabled(logger.DEBUG) {
			s.log.WithFields(ctx, logger.Fields{
				"note_id":    int64(note.ID),
				"generation": int64(gen),
				"action":     "note_cache_fill_skipped",
			}).Debug("note changed during lookup, cache fill skipped")
		}
	}
}

func (s *CachedStore) Update(ctx context.Context, note domain.Note) (domain.Note, error) {
	updated, err := s.Store.Update(ctx, note)
	s.invalidate(ctx, note.ID)
	return updated, err
}

func (s *CachedStore) Delete(ctx context.Context, id domain.ID) error {
	err := s.Store.Delete(ctx, id)
	s.invalidate(ctx, id)
	return err
}

func (s *CachedStore) invalidate(ctx context.Context, id domain.ID) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"note_id": int64(id),
			"action":  "note_cache_invalidate_failed",
		}).Warnf("note cache invalidation failed: %v", err)
	}
}
