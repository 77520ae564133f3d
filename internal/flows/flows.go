// Package flows implements the request/response operations against the
// external generative-AI collaborator: post generation, post analysis,
// hashtag suggestion, image-idea generation and image generation. Each flow
// sends a prompt to the configured provider and decodes the response against
// a fixed schema; anything that does not conform fails the call.
package flows

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/contentflow-ai/platform/internal/llm"
	"github.com/contentflow-ai/platform/internal/model"
	"github.com/contentflow-ai/platform/pkg/logger"
	"github.com/contentflow-ai/platform/pkg/metrics"
)

// PostsInput is the input to the post generation flow. One call covers one
// platform.
type PostsInput struct {
	Organization  string
	Topics        []string
	Platform      model.Platform
	NumberOfPosts int
	Tone          model.Tone
	Language      model.Language
}

// GeneratedPost is one post as returned by the collaborator.
type GeneratedPost struct {
	Text      string   `json:"text"`
	Hashtags  []string `json:"hashtags"`
	ImageIdea string   `json:"image_idea"`
}

// PostsOutput is the output of the post generation flow.
type PostsOutput struct {
	Organization string          `json:"organization"`
	Platform     string          `json:"platform"`
	Posts        []GeneratedPost `json:"posts"`
}

// AnalyzeInput is the input to the post analysis flow.
type AnalyzeInput struct {
	Organization string
	Platform     model.Platform
	Tone         model.Tone
	Language     model.Language
	PostText     string
	PostDate     string
	Metrics      model.EngagementMetrics
}

// AnalyzeOutput is the output of the post analysis flow: one improved post
// plus the analytics annotation.
type AnalyzeOutput struct {
	Platform        string        `json:"platform"`
	Post            GeneratedPost `json:"post"`
	Summary         string        `json:"summary"`
	Highlights      []string      `json:"highlights"`
	Recommendations []string      `json:"recommendations"`
}

// ImageIdeaInput is the input to the image-idea flow.
type ImageIdeaInput struct {
	Organization string
	Platform     model.Platform
	PostText     string
}

// Runner is the boundary to the external generation collaborator.
type Runner interface {
	GeneratePosts(ctx context.Context, in *PostsInput) (*PostsOutput, error)
	AnalyzePost(ctx context.Context, in *AnalyzeInput) (*AnalyzeOutput, error)
	SuggestHashtags(ctx context.Context, postText string) ([]string, error)
	GenerateImageIdea(ctx context.Context, in *ImageIdeaInput) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Client runs flows against an LLM text provider and an image provider.
type Client struct {
	text       llm.Client
	image      llm.ImageClient
	textModel  string
	imageModel string
	logger     *logger.Logger
}

// Config holds flow client settings.
type Config struct {
	TextModel  string
	ImageModel string
}

// NewClient creates a flow client. The image client may be nil when no image
// provider is configured; image generation then fails with a configuration
// error.
func NewClient(text llm.Client, image llm.ImageClient, cfg Config, log *logger.Logger) *Client {
	return &Client{
		text:       text,
		image:      image,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		logger:     log,
	}
}

// GeneratePosts generates NumberOfPosts posts for a single platform.
func (c *Client) GeneratePosts(ctx context.Context, in *PostsInput) (*PostsOutput, error) {
	start := time.Now()

	resp, err := c.text.Complete(ctx, &llm.CompletionRequest{
		Model:      c.textModel,
		System:     postsSystemPrompt,
		Prompt:     buildPostsPrompt(in),
		JSONOutput: true,
	})
	if err != nil {
		metrics.RecordFlowCall("generate_posts", string(in.Platform), "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("generation flow failed: %w", err)
	}
	metrics.RecordTokens(resp.Model, resp.TokensIn, resp.TokensOut)

	out, err := decodePostsOutput(resp.Content, in)
	if err != nil {
		metrics.RecordFlowCall("generate_posts", string(in.Platform), "schema_mismatch", time.Since(start).Seconds())
		return nil, err
	}

	metrics.RecordFlowCall("generate_posts", string(in.Platform), "success", time.Since(start).Seconds())
	c.logger.Debug("posts generated",
		zap.String("platform", string(in.Platform)),
		zap.Int("count", len(out.Posts)),
		zap.Int64("latency_ms", resp.LatencyMs),
	)
	return out, nil
}

// AnalyzePost analyzes an existing post and its engagement metrics for a
// single platform.
func (c *Client) AnalyzePost(ctx context.Context, in *AnalyzeInput) (*AnalyzeOutput, error) {
	start := time.Now()

	resp, err := c.text.Complete(ctx, &llm.CompletionRequest{
		Model:      c.textModel,
		System:     analyzeSystemPrompt,
		Prompt:     buildAnalyzePrompt(in),
		JSONOutput: true,
	})
	if err != nil {
		metrics.RecordFlowCall("analyze_post", string(in.Platform), "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("analysis flow failed: %w", err)
	}
	metrics.RecordTokens(resp.Model, resp.TokensIn, resp.TokensOut)

	out, err := decodeAnalyzeOutput(resp.Content, in)
	if err != nil {
		metrics.RecordFlowCall("analyze_post", string(in.Platform), "schema_mismatch", time.Since(start).Seconds())
		return nil, err
	}

	metrics.RecordFlowCall("analyze_post", string(in.Platform), "success", time.Since(start).Seconds())
	return out, nil
}

// SuggestHashtags suggests 2-5 hashtags for the given post text.
func (c *Client) SuggestHashtags(ctx context.Context, postText string) ([]string, error) {
	start := time.Now()

	resp, err := c.text.Complete(ctx, &llm.CompletionRequest{
		Model:      c.textModel,
		Prompt:     buildHashtagsPrompt(postText),
		JSONOutput: true,
	})
	if err != nil {
		metrics.RecordFlowCall("suggest_hashtags", "", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("hashtag flow failed: %w", err)
	}
	metrics.RecordTokens(resp.Model, resp.TokensIn, resp.TokensOut)

	tags, err := decodeHashtagsOutput(resp.Content)
	if err != nil {
		metrics.RecordFlowCall("suggest_hashtags", "", "schema_mismatch", time.Since(start).Seconds())
		return nil, err
	}

	metrics.RecordFlowCall("suggest_hashtags", "", "success", time.Since(start).Seconds())
	return tags, nil
}

// GenerateImageIdea generates an image idea for a post.
func (c *Client) GenerateImageIdea(ctx context.Context, in *ImageIdeaInput) (string, error) {
	start := time.Now()

	resp, err := c.text.Complete(ctx, &llm.CompletionRequest{
		Model:      c.textModel,
		Prompt:     buildImageIdeaPrompt(in),
		JSONOutput: true,
	})
	if err != nil {
		metrics.RecordFlowCall("image_idea", string(in.Platform), "error", time.Since(start).Seconds())
		return "", fmt.Errorf("image idea flow failed: %w", err)
	}
	metrics.RecordTokens(resp.Model, resp.TokensIn, resp.TokensOut)

	idea, err := decodeImageIdeaOutput(resp.Content)
	if err != nil {
		metrics.RecordFlowCall("image_idea", string(in.Platform), "schema_mismatch", time.Since(start).Seconds())
		return "", err
	}

	metrics.RecordFlowCall("image_idea", string(in.Platform), "success", time.Since(start).Seconds())
	return idea, nil
}

// ErrNoImageProvider is returned when no image generation provider is
// configured.
var ErrNoImageProvider = fmt.Errorf("image generation is not configured")

// GenerateImage generates an image from a text prompt, returned as a data
// URI.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if c.image == nil {
		return "", ErrNoImageProvider
	}

	start := time.Now()
	url, err := c.image.GenerateImage(ctx, c.imageModel, prompt)
	if err != nil {
		metrics.RecordFlowCall("generate_image", "", "error", time.Since(start).Seconds())
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	metrics.RecordFlowCall("generate_image", "", "success", time.Since(start).Seconds())
	return url, nil
}
