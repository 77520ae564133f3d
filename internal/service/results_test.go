package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentflow-ai/platform/internal/model"
)

func sampleResult() *model.GenerationResult {
	return &model.GenerationResult{
		ID:           uuid.New().String(),
		Organization: "BlueRide",
		Platforms:    []model.Platform{model.PlatformX},
		Mode:         model.ModeGenerate,
		Posts: []model.PostConcept{
			{
				ID: uuid.New().String(),
				PlatformPosts: map[model.Platform]model.PlatformPost{
					model.PlatformX: {
						Text:      "hello",
						Hashtags:  []string{"#a", "#b"},
						ImageIdea: "a boat",
					},
				},
			},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestResultCacheRoundTrip(t *testing.T) {
	cache := NewResultCache()
	result := sampleResult()
	require.NoError(t, cache.Put("session-1", result))

	raw, ok := cache.Raw(result.ID)
	require.True(t, ok)

	var parsed model.GenerationResult
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, *result, parsed)
}

func TestResultCacheSupersedesSession(t *testing.T) {
	cache := NewResultCache()
	first := sampleResult()
	second := sampleResult()

	require.NoError(t, cache.Put("session-1", first))
	require.NoError(t, cache.Put("session-1", second))

	_, ok := cache.Raw(first.ID)
	assert.False(t, ok, "superseded result should be evicted")
	_, ok = cache.Raw(second.ID)
	assert.True(t, ok)
}

func TestResultCacheEvictsOldestAtCapacity(t *testing.T) {
	cache := NewResultCacheWithCapacity(2)
	first := sampleResult()
	second := sampleResult()
	third := sampleResult()

	// Distinct sessions, as produced by clients that never reuse a token.
	require.NoError(t, cache.Put("session-1", first))
	require.NoError(t, cache.Put("session-2", second))
	require.NoError(t, cache.Put("session-3", third))

	_, ok := cache.Raw(first.ID)
	assert.False(t, ok, "oldest result should be evicted at capacity")
	_, ok = cache.Raw(second.ID)
	assert.True(t, ok)
	_, ok = cache.Raw(third.ID)
	assert.True(t, ok)
}

func TestResultCacheSupersessionDoesNotEvictOthers(t *testing.T) {
	cache := NewResultCacheWithCapacity(2)
	a := sampleResult()
	b1 := sampleResult()
	b2 := sampleResult()

	require.NoError(t, cache.Put("session-a", a))
	require.NoError(t, cache.Put("session-b", b1))
	require.NoError(t, cache.Put("session-b", b2))

	_, ok := cache.Raw(a.ID)
	assert.True(t, ok, "supersession within a session should not evict other sessions")
	_, ok = cache.Raw(b1.ID)
	assert.False(t, ok)
	_, ok = cache.Raw(b2.ID)
	assert.True(t, ok)
}

func TestResultCacheIndependentSessions(t *testing.T) {
	cache := NewResultCache()
	a := sampleResult()
	b := sampleResult()

	require.NoError(t, cache.Put("session-a", a))
	require.NoError(t, cache.Put("session-b", b))

	_, ok := cache.Raw(a.ID)
	assert.True(t, ok)
	_, ok = cache.Raw(b.ID)
	assert.True(t, ok)
}
