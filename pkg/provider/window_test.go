package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campussync/campussync/pkg/category"
)

func TestNewWindow(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		w, err := NewWindow(start, start.Add(7*24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, start, w.Start)
	})

	t.Run("end equals start", func(t *testing.T) {
		_, err := NewWindow(start, start)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewWindow(start, start.Add(-time.Hour))
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("normalizes to UTC", func(t *testing.T) {
		loc := time.FixedZone("IST", 3600)
		w, err := NewWindow(time.Date(2025, 1, 6, 1, 0, 0, 0, loc), time.Date(2025, 1, 7, 1, 0, 0, 0, loc))
		require.NoError(t, err)
		assert.Equal(t, time.UTC, w.Start.Location())
		assert.Equal(t, start, w.Start)
	})
}

func TestCacheKey(t *testing.T) {
	window := Window{
		Start: time.Date(2025, 1, 6, 0, 30, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 13, 0, 45, 0, 0, time.UTC),
	}
	refs := []category.EntityRef{
		{Kind: category.KindModule, Identity: "b"},
		{Kind: category.KindModule, Identity: "a"},
	}

	t.Run("identity order does not matter", func(t *testing.T) {
		reversed := []category.EntityRef{refs[1], refs[0]}
		assert.Equal(t, CacheKey("scientia", refs, window), CacheKey("scientia", reversed, window))
	})

	t.Run("windows within the same hour share a key", func(t *testing.T) {
		shifted := Window{
			Start: window.Start.Add(10 * time.Minute),
			End:   window.End.Add(10 * time.Minute),
		}
		assert.Equal(t, CacheKey("scientia", refs, window), CacheKey("scientia", refs, shifted))
	})

	t.Run("provider name distinguishes keys", func(t *testing.T) {
		assert.NotEqual(t, CacheKey("scientia", refs, window), CacheKey("clubsoc", refs, window))
	})

	t.Run("different identities produce different keys", func(t *testing.T) {
		other := []category.EntityRef{{Kind: category.KindModule, Identity: "c"}}
		assert.NotEqual(t, CacheKey("scientia", refs, window), CacheKey("scientia", other, window))
	})
}
