package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentflow-ai/platform/internal/flows"
	"github.com/contentflow-ai/platform/internal/model"
	"github.com/contentflow-ai/platform/pkg/logger"
)

// stubRunner fakes the generation collaborator. Safe for concurrent use.
type stubRunner struct {
	calls    atomic.Int64
	failOn   model.Platform
	analyzed atomic.Int64
}

func (s *stubRunner) GeneratePosts(ctx context.Context, in *flows.PostsInput) (*flows.PostsOutput, error) {
	s.calls.Add(1)
	if in.Platform == s.failOn {
		return nil, fmt.Errorf("provider unavailable")
	}
	posts := make([]flows.GeneratedPost, in.NumberOfPosts)
	for i := range posts {
		posts[i] = flows.GeneratedPost{
			Text:      fmt.Sprintf("%s post %d for %s", in.Platform, i, in.Organization),
			Hashtags:  []string{"#eco", "#kenya"},
			ImageIdea: "a boat at sunset",
		}
	}
	return &flows.PostsOutput{
		Organization: in.Organization,
		Platform:     string(in.Platform),
		Posts:        posts,
	}, nil
}

func (s *stubRunner) AnalyzePost(ctx context.Context, in *flows.AnalyzeInput) (*flows.AnalyzeOutput, error) {
	s.analyzed.Add(1)
	if in.Platform == s.failOn {
		return nil, fmt.Errorf("provider unavailable")
	}
	return &flows.AnalyzeOutput{
		Platform: string(in.Platform),
		Post: flows.GeneratedPost{
			Text:      "improved: " + in.PostText,
			Hashtags:  []string{"#better", "#now"},
			ImageIdea: "a chart going up",
		},
		Summary:         "Solid engagement for the follower count.",
		Highlights:      []string{"strong opening line"},
		Recommendations: []string{"post in the morning"},
	}, nil
}

func (s *stubRunner) SuggestHashtags(ctx context.Context, postText string) ([]string, error) {
	return []string{"#one", "#two"}, nil
}

func (s *stubRunner) GenerateImageIdea(ctx context.Context, in *flows.ImageIdeaInput) (string, error) {
	return "an idea", nil
}

func (s *stubRunner) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return "data:image/png;base64,xxxx", nil
}

func generateRequest() *model.GenerationRequest {
	return &model.GenerationRequest{
		OrganizationName: "BlueRide",
		Topics:           []string{"eco-friendly transport", "boat rides in Kenya"},
		Platforms:        []model.Platform{model.PlatformX, model.PlatformLinkedIn},
		NumberOfPosts:    2,
		Tone:             model.ToneCasual,
		Language:         model.LanguageEnglish,
		Mode:             model.ModeGenerate,
	}
}

func TestGenerateFansOutPerPlatform(t *testing.T) {
	stub := &stubRunner{}
	orch := NewOrchestrator(stub, logger.NewNop())

	result, err := orch.Run(context.Background(), generateRequest())
	require.NoError(t, err)

	assert.Equal(t, "BlueRide", result.Organization)
	assert.Equal(t, model.ModeGenerate, result.Mode)
	assert.Equal(t, []model.Platform{model.PlatformX, model.PlatformLinkedIn}, result.Platforms)
	require.Len(t, result.Posts, 2)
	assert.Equal(t, int64(2), stub.calls.Load())

	for _, concept := range result.Posts {
		assert.NotEmpty(t, concept.ID)
		require.Len(t, concept.PlatformPosts, 2)
		for _, platform := range []model.Platform{model.PlatformX, model.PlatformLinkedIn} {
			post, ok := concept.PlatformPosts[platform]
			require.True(t, ok, "missing platform %s", platform)
			assert.NotEmpty(t, post.Text)
			assert.GreaterOrEqual(t, len(post.Hashtags), 2)
			assert.LessOrEqual(t, len(post.Hashtags), 5)
			assert.Nil(t, post.Analytics)
		}
	}
}

func TestGenerateAllOrNothing(t *testing.T) {
	stub := &stubRunner{failOn: model.PlatformLinkedIn}
	orch := NewOrchestrator(stub, logger.NewNop())

	result, err := orch.Run(context.Background(), generateRequest())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "LinkedIn")
	// Both calls were issued and awaited before reporting.
	assert.Equal(t, int64(2), stub.calls.Load())
}

// shortRunner returns fewer posts than requested for one platform.
type shortRunner struct {
	stubRunner
	short model.Platform
}

func (s *shortRunner) GeneratePosts(ctx context.Context, in *flows.PostsInput) (*flows.PostsOutput, error) {
	out, err := s.stubRunner.GeneratePosts(ctx, in)
	if err == nil && in.Platform == s.short {
		out.Posts = out.Posts[:len(out.Posts)-1]
	}
	return out, err
}

func TestGenerateRejectsShortPostsResponse(t *testing.T) {
	stub := &shortRunner{short: model.PlatformLinkedIn}
	orch := NewOrchestrator(stub, logger.NewNop())

	result, err := orch.Run(context.Background(), generateRequest())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "LinkedIn")
	assert.Contains(t, err.Error(), "expected 2")
}

func TestAnalyzeProducesSingleAnnotatedConcept(t *testing.T) {
	stub := &stubRunner{}
	orch := NewOrchestrator(stub, logger.NewNop())

	req := generateRequest()
	req.Mode = model.ModeAnalyze
	req.NumberOfPosts = 4 // ignored in analyze mode
	req.Analysis = &model.AnalysisInput{
		PostText: "hello world",
		Metrics:  model.EngagementMetrics{Likes: intPtr(10)},
	}

	result, err := orch.Run(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, result.Posts, 1)
	assert.Equal(t, model.ModeAnalyze, result.Mode)
	for _, post := range result.Posts[0].PlatformPosts {
		require.NotNil(t, post.Analytics)
		assert.NotEmpty(t, post.Analytics.Summary)
	}
	assert.Equal(t, int64(2), stub.analyzed.Load())
}

func TestRunIsIdempotentAcrossRequests(t *testing.T) {
	stub := &stubRunner{}
	orch := NewOrchestrator(stub, logger.NewNop())

	first, err := orch.Run(context.Background(), generateRequest())
	require.NoError(t, err)
	second, err := orch.Run(context.Background(), generateRequest())
	require.NoError(t, err)

	// Independent complete results, no shared state between requests.
	assert.NotEqual(t, first.ID, second.ID)
	require.Len(t, second.Posts, 2)
	for i := range first.Posts {
		assert.NotEqual(t, first.Posts[i].ID, second.Posts[i].ID)
		assert.Equal(t, first.Posts[i].PlatformPosts, second.Posts[i].PlatformPosts)
	}
}

func intPtr(n int) *int { return &n }
