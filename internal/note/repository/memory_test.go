package repository

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/AlibekovAA/dh-notes/internal/common/errors"
	"github.com/AlibekovAA/dh-notes/internal/note/domain"
)

var created = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func seed(t *testing.T, s *MemoryStore, pairs ...[2]string) []domain.Note {
	t.Helper()
	out := make([]domain.Note, 0, len(pairs))
	for _, p := range pairs {
		n, err := s.Insert(context.Background(), domain.NewNote(p[0], p[1]).WithCreatedAt(created))
		require.NoError(t, err)
		out = append(out, n)
	}
	return out
}

func TestMemoryStore_InsertAllocatesIncreasingIDs(t *testing.T) {
	s := NewMemoryStore()
	notes := seed(t, s, [2]string{"a", "1"}, [2]string{"b", "2"})

	assert.Equal(t, domain.ID(1), notes[0].ID)
	assert.Equal(t, domain.ID(2), notes[1].ID)

	ignored, err := s.Insert(context.Background(), domain.NewNote("c", "3").WithID(99))
	require.NoError(t, err)
	assert.Equal(t, domain.ID(3), ignored.ID)
}

func TestMemoryStore_FindAllInIDOrder(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, [2]string{"a", "1"}, [2]string{"b", "2"}, [2]string{"c", "3"})
	require.NoError(t, s.Delete(context.Background(), 2))

	all, err := s.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.ID(1), all[0].ID)
	assert.Equal(t, domain.ID(3), all[1].ID)
}

func TestMemoryStore_UpdateKeepsCreatedAt(t *testing.T) {
	s := NewMemoryStore()
	n := seed(t, s, [2]string{"a", "1"})[0]

	later := created.Add(time.Hour)
	patch := domain.Note{ID: n.ID, Title: "new", Content: "body", CreatedAt: later}.Touched(later)
	updated, err := s.Update(context.Background(), patch)
	require.NoError(t, err)

	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, "new", updated.Title)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, later, *updated.UpdatedAt)
}

func TestMemoryStore_MissingIDs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.FindByID(ctx, 42)
	assert.ErrorIs(t, err, commonerrors.ErrNoteNotFound)

	_, err = s.Update(ctx, domain.NewNote("a", "b").WithID(42))
	assert.ErrorIs(t, err, commonerrors.ErrNoteNotFound)

	assert.ErrorIs(t, s.Delete(ctx, 42), commonerrors.ErrNoteNotFound)
}

func TestMemoryStore_DeleteTwice(t *testing.T) {
	s := NewMemoryStore()
	n := seed(t, s, [2]string{"a", "1"})[0]

	require.NoError(t, s.Delete(context.Background(), n.ID))
	assert.ErrorIs(t, s.Delete(context.Background(), n.ID), commonerrors.ErrNoteNotFound)
}

func TestMemoryStore_Search(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s,
		[2]string{"Nota importante", "x"},
		[2]string{"other", "algo importante aqui"},
		[2]string{"Importante", "capitalized only"},
		[2]string{"unrelated", "nothing"},
		[2]string{"importante", "importante"},
	)

	notes, total, err := s.Search(context.Background(), "importante", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, notes, 3)
	assert.Equal(t, domain.ID(1), notes[0].ID)
	assert.Equal(t, domain.ID(2), notes[1].ID)
	assert.Equal(t, domain.ID(5), notes[2].ID)
}

func TestMemoryStore_SearchPaging(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 5; i++ {
		seed(t, s, [2]string{"match", "x"})
	}

	notes, total, err := s.Search(context.Background(), "match", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, notes, 2)
	assert.Equal(t, domain.ID(3), notes[0].ID)

	notes, total, err = s.Search(context.Background(), "match", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, notes, 1)

	notes, total, err = s.Search(context.Background(), "match", 9, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, notes)
}

func TestMemoryStore_SearchExtremePaging(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, [2]string{"match", "x"}, [2]string{"match", "y"})

	cases := []struct {
		name       string
		page, size int
		want       int
	}{
		{"offset overflows", math.MaxInt/2 + 1, 2, 0},
		{"offset wraps to zero", 1 << 32, 1 << 32, 0},
		{"huge size on first page", 0, math.MaxInt, 2},
		{"huge page", math.MaxInt, 1, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var (
				notes []domain.Note
				total int64
				err   error
			)
			require.NotPanics(t, func() {
				notes, total, err = s.Search(context.Background(), "match", tc.page, tc.size)
			})
			require.NoError(t, err)
			assert.Equal(t, int64(2), total)
			assert.Len(t, notes, tc.want)
		})
	}
}

func TestMemoryStore_ConcurrentInsertsGetDistinctIDs(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	ids := make(chan domain.ID, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.Insert(context.Background(), domain.NewNote("t", "c"))
			if err == nil {
				ids <- n.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[domain.ID]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, 50)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Insert(ctx, domain.NewNote("a", "b"))
	assert.ErrorIs(t, err, context.Canceled)
}
