package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptlab/engine/internal/jsruntime"
)

func TestPutThenGetReturnsEntryWithinMaxAge(t *testing.T) {
	c := New(time.Minute, 10)
	c.Put("id", &Entry{ID: "id", ContentHash: 1, Source: SourceMain})

	e, ok := c.Get("id")
	require.True(t, ok)
	assert.Equal(t, "id", e.ID)
}

func TestGetEvictsExpiredEntry(t *testing.T) {
	c := New(time.Millisecond, 10)
	c.Put("id", &Entry{ID: "id"})
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("id")
	assert.False(t, ok)

	_, ok = c.Get("id")
	assert.False(t, ok, "entry must stay evicted")
}

func TestInvalidateIfContentChangedEvictsOnMismatch(t *testing.T) {
	c := New(time.Minute, 10)
	c.Put("id", &Entry{ID: "id", ContentHash: ContentHash("v1")})

	changed := c.InvalidateIfContentChanged("id", "v2")
	assert.True(t, changed)
	_, ok := c.Get("id")
	assert.False(t, ok)
}

func TestInvalidateIfContentChangedKeepsEntryOnMatch(t *testing.T) {
	c := New(time.Minute, 10)
	c.Put("id", &Entry{ID: "id", ContentHash: ContentHash("v1")})

	changed := c.InvalidateIfContentChanged("id", "v1")
	assert.False(t, changed)
	_, ok := c.Get("id")
	assert.True(t, ok)
}

func TestCleanupTrimsToMaxSizeByLRU(t *testing.T) {
	c := New(time.Minute, 2)
	c.Put("a", &Entry{ID: "a"})
	time.Sleep(time.Millisecond)
	c.Put("b", &Entry{ID: "b"})
	time.Sleep(time.Millisecond)
	c.Put("c", &Entry{ID: "c"})

	c.Cleanup()
	stats := c.Stats()
	assert.Equal(t, 2, stats.Count)

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should be trimmed")
}

func TestClearEmptiesCache(t *testing.T) {
	c := New(time.Minute, 10)
	c.Put("a", &Entry{ID: "a"})
	c.Clear()
	stats := c.Stats()
	assert.Equal(t, 0, stats.Count)
}

func TestStatsCountsBySourceTag(t *testing.T) {
	c := New(time.Minute, 10)
	c.Put("a", &Entry{ID: "a", Source: SourceMain})
	c.Put("b", &Entry{ID: "b", Source: SourceDependency})
	c.Put("c", &Entry{ID: "c", Source: SourceDependency})

	stats := c.Stats()
	assert.Equal(t, 1, stats.CountBySource[SourceMain])
	assert.Equal(t, 2, stats.CountBySource[SourceDependency])
}

func TestContentHashDiffersForDifferentSource(t *testing.T) {
	h1 := ContentHash("export const io = {};")
	h2 := ContentHash("export const io = {  };")
	assert.NotEqual(t, h1, h2)
}

func TestContentHashStableForIdenticalSource(t *testing.T) {
	assert.Equal(t, ContentHash("same"), ContentHash("same"))
}

func TestEntryCarriesIntrospection(t *testing.T) {
	c := New(time.Minute, 10)
	intro := &jsruntime.Introspection{Deps: []string{"dep"}}
	c.Put("id", &Entry{ID: "id", Introspection: intro})

	e, ok := c.Get("id")
	require.True(t, ok)
	assert.Equal(t, []string{"dep"}, e.Introspection.Deps)
}
