package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNote_BuildersDoNotMutate(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	original := NewNote("title", "content").WithID(1).WithCreatedAt(created)

	updated := original.WithTitle("new").WithContent("body").Touched(created.Add(time.Minute))

	assert.Equal(t, "title", original.Title)
	assert.Equal(t, "content", original.Content)
	assert.Nil(t, original.UpdatedAt)

	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "body", updated.Content)
	assert.Equal(t, created, updated.CreatedAt)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, created.Add(time.Minute), *updated.UpdatedAt)
}

func TestNote_IsPersisted(t *testing.T) {
	assert.False(t, NewNote("a", "b").IsPersisted())
	assert.True(t, NewNote("a", "b").WithID(3).IsPersisted())
}

func TestNewPage(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		pages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 5, 5},
	}
	for _, tc := range cases {
		p := NewPage(nil, 0, tc.size, tc.total)
		assert.Equal(t, tc.pages, p.TotalPages, "total=%d size=%d", tc.total, tc.size)
		assert.NotNil(t, p.Content)
	}
}

func TestEmptyPage(t *testing.T) {
	p := EmptyPage(2, 5)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, 2, p.Number)
	assert.Equal(t, 5, p.Size)
	assert.Zero(t, p.TotalElements)
}

func TestPageOffset(t *testing.T) {
	cases := []struct {
		name       string
		page, size int
		want       int
		ok         bool
	}{
		{"first page", 0, 10, 0, true},
		{"third page", 2, 10, 20, true},
		{"negative page", -1, 10, 0, false},
		{"zero size", 1, 0, 0, false},
		{"product overflows", math.MaxInt/2 + 1, 2, 0, false},
		{"product wraps to zero", 1 << 32, 1 << 32, 0, false},
		{"largest page", math.MaxInt, 1, math.MaxInt, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PageOffset(tc.page, tc.size)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewPage_HugeSize(t *testing.T) {
	p := NewPage(nil, 0, math.MaxInt, 3)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, int64(3), p.TotalElements)
}
