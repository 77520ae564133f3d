// Package service provides business logic for the content generation
// platform.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contentflow-ai/platform/internal/flows"
	"github.com/contentflow-ai/platform/internal/model"
	"github.com/contentflow-ai/platform/pkg/logger"
	"github.com/contentflow-ai/platform/pkg/metrics"
)

// Orchestrator maps a validated GenerationRequest onto generation flow calls
// and assembles the combined result. Fan-out is one call per platform, run
// concurrently; the contract is all-or-nothing: every call must succeed or
// the whole request fails, and no partial result is surfaced.
type Orchestrator struct {
	runner flows.Runner
	logger *logger.Logger
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(runner flows.Runner, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		runner: runner,
		logger: log,
	}
}

// Run executes the request in its validated mode.
func (o *Orchestrator) Run(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error) {
	start := time.Now()

	var result *model.GenerationResult
	var err error
	switch req.Mode {
	case model.ModeAnalyze:
		result, err = o.analyze(ctx, req)
	default:
		result, err = o.generate(ctx, req)
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.GenerationsTotal.WithLabelValues(string(req.Mode), status).Inc()

	if err != nil {
		o.logger.Error("generation request failed",
			zap.String("mode", string(req.Mode)),
			zap.Error(err),
		)
		return nil, err
	}

	o.logger.Info("generation request completed",
		zap.String("mode", string(req.Mode)),
		zap.String("result_id", result.ID),
		zap.Int("platforms", len(req.Platforms)),
		zap.Int("posts", len(result.Posts)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// generate fans out one GeneratePosts call per platform and merges the i-th
// post of every platform response into the i-th concept. Platform order of
// the request is preserved in the assembled result.
func (o *Orchestrator) generate(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error) {
	outputs := make([]*flows.PostsOutput, len(req.Platforms))
	errs := make([]error, len(req.Platforms))

	var wg sync.WaitGroup
	for i, platform := range req.Platforms {
		wg.Add(1)
		go func(i int, platform model.Platform) {
			defer wg.Done()
			outputs[i], errs[i] = o.runner.GeneratePosts(ctx, &flows.PostsInput{
				Organization:  req.OrganizationName,
				Topics:        req.Topics,
				Platform:      platform,
				NumberOfPosts: req.NumberOfPosts,
				Tone:          req.Tone,
				Language:      req.Language,
			})
		}(i, platform)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("generation failed for %s: %w", req.Platforms[i], err)
		}
	}
	for i, out := range outputs {
		if len(out.Posts) != req.NumberOfPosts {
			return nil, fmt.Errorf("generation for %s returned %d posts, expected %d",
				req.Platforms[i], len(out.Posts), req.NumberOfPosts)
		}
	}

	concepts := make([]model.PostConcept, req.NumberOfPosts)
	for j := range concepts {
		concepts[j] = model.PostConcept{
			ID:            uuid.Must(uuid.NewV7()).String(),
			PlatformPosts: make(map[model.Platform]model.PlatformPost, len(req.Platforms)),
		}
		for i, platform := range req.Platforms {
			post := outputs[i].Posts[j]
			concepts[j].PlatformPosts[platform] = model.PlatformPost{
				Text:      post.Text,
				Hashtags:  post.Hashtags,
				ImageIdea: post.ImageIdea,
			}
		}
	}

	return o.assemble(req, concepts), nil
}

// analyze fans out one AnalyzePost call per platform and merges the
// per-platform annotated rewrites into a single concept. The result always
// carries exactly one PostConcept, regardless of the requested post count.
func (o *Orchestrator) analyze(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error) {
	outputs := make([]*flows.AnalyzeOutput, len(req.Platforms))
	errs := make([]error, len(req.Platforms))

	var wg sync.WaitGroup
	for i, platform := range req.Platforms {
		wg.Add(1)
		go func(i int, platform model.Platform) {
			defer wg.Done()
			outputs[i], errs[i] = o.runner.AnalyzePost(ctx, &flows.AnalyzeInput{
				Organization: req.OrganizationName,
				Platform:     platform,
				Tone:         req.Tone,
				Language:     req.Language,
				PostText:     req.Analysis.PostText,
				PostDate:     req.Analysis.PostDate,
				Metrics:      req.Analysis.Metrics,
			})
		}(i, platform)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("analysis failed for %s: %w", req.Platforms[i], err)
		}
	}

	concept := model.PostConcept{
		ID:            uuid.Must(uuid.NewV7()).String(),
		PlatformPosts: make(map[model.Platform]model.PlatformPost, len(req.Platforms)),
	}
	for i, platform := range req.Platforms {
		out := outputs[i]
		concept.PlatformPosts[platform] = model.PlatformPost{
			Text:      out.Post.Text,
			Hashtags:  out.Post.Hashtags,
			ImageIdea: out.Post.ImageIdea,
			Analytics: &model.PostAnalytics{
				Summary:         out.Summary,
				Highlights:      out.Highlights,
				Recommendations: out.Recommendations,
			},
		}
	}

	return o.assemble(req, []model.PostConcept{concept}), nil
}

func (o *Orchestrator) assemble(req *model.GenerationRequest, concepts []model.PostConcept) *model.GenerationResult {
	platforms := make([]model.Platform, len(req.Platforms))
	copy(platforms, req.Platforms)

	return &model.GenerationResult{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Organization: req.OrganizationName,
		Platforms:    platforms,
		Mode:         req.Mode,
		Posts:        concepts,
		CreatedAt:    time.Now().UTC(),
	}
}
