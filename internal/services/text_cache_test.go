package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu      sync.Mutex
	data    map[string]string
	failGet bool
	failSet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return "", false, errors.New("connection refused")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key, text string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errors.New("connection refused")
	}
	m.data[key] = text
	return nil
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCachedTextExtractor_HitsCacheForSameContent(t *testing.T) {
	dir := t.TempDir()
	first := writeTemp(t, dir, "a.txt", "Python")
	second := writeTemp(t, dir, "b.txt", "Python")

	inner := &fakeExtractor{texts: map[string]string{first: "Python", second: "Python"}}
	cache := newMemoryCache()
	extractor := NewCachedTextExtractor(inner, cache, time.Hour, nil)

	text, err := extractor.ExtractText(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, "Python", text)

	text, err = extractor.ExtractText(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, "Python", text)

	assert.Equal(t, int32(1), inner.calls.Load())
	assert.Len(t, cache.data, 1)
}

func TestCachedTextExtractor_ExtensionIsPartOfKey(t *testing.T) {
	dir := t.TempDir()
	txt := writeTemp(t, dir, "a.txt", "same bytes")
	pdf := writeTemp(t, dir, "a.pdf", "same bytes")

	inner := &fakeExtractor{texts: map[string]string{txt: "x", pdf: "y"}}
	extractor := NewCachedTextExtractor(inner, newMemoryCache(), time.Hour, nil)

	_, _ = extractor.ExtractText(context.Background(), txt)
	_, _ = extractor.ExtractText(context.Background(), pdf)

	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachedTextExtractor_CacheFailuresAreBypassed(t *testing.T) {
	path := writeTemp(t, t.TempDir(), "a.txt", "Go")

	inner := &fakeExtractor{texts: map[string]string{path: "Go"}}
	cache := newMemoryCache()
	cache.failGet = true
	cache.failSet = true
	extractor := NewCachedTextExtractor(inner, cache, time.Hour, nil)

	for i := 0; i < 2; i++ {
		text, err := extractor.ExtractText(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "Go", text)
	}
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachedTextExtractor_ErrorsAreNotCached(t *testing.T) {
	path := writeTemp(t, t.TempDir(), "a.txt", "broken")

	inner := &fakeExtractor{errs: map[string]error{path: errors.New("corrupt")}}
	cache := newMemoryCache()
	extractor := NewCachedTextExtractor(inner, cache, time.Hour, nil)

	_, err := extractor.ExtractText(context.Background(), path)
	assert.Error(t, err)
	assert.Empty(t, cache.data)
}

func TestCachedTextExtractor_MissingFileReachesInner(t *testing.T) {
	inner := &fakeExtractor{errs: map[string]error{"/nope.txt": os.ErrNotExist}}
	extractor := NewCachedTextExtractor(inner, newMemoryCache(), time.Hour, nil)

	_, err := extractor.ExtractText(context.Background(), "/nope.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewCachedTextExtractor_NilCache(t *testing.T) {
	inner := &fakeExtractor{}

	assert.Same(t, inner, NewCachedTextExtractor(inner, nil, time.Hour, nil))
}

func TestNewRedisTextCache_InvalidURL(t *testing.T) {
	_, err := NewRedisTextCache(context.Background(), "not-a-redis-url")
	assert.Error(t, err)
}
