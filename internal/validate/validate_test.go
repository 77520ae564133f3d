package validate

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentflow-ai/platform/internal/model"
)

func validForm() url.Values {
	return url.Values{
		"organizationName": {"BlueRide"},
		"topics":           {"eco-friendly transport, boat rides in Kenya"},
		"platforms":        {"X", "LinkedIn"},
		"numberOfPosts":    {"2"},
		"tone":             {"Casual"},
		"language":         {"English"},
	}
}

func TestParseFormGenerateMode(t *testing.T) {
	req, err := ParseForm(validForm())
	require.NoError(t, err)

	assert.Equal(t, "BlueRide", req.OrganizationName)
	assert.Equal(t, []string{"eco-friendly transport", "boat rides in Kenya"}, req.Topics)
	assert.Equal(t, []model.Platform{model.PlatformX, model.PlatformLinkedIn}, req.Platforms)
	assert.Equal(t, 2, req.NumberOfPosts)
	assert.Equal(t, model.ToneCasual, req.Tone)
	assert.Equal(t, model.LanguageEnglish, req.Language)
	assert.Equal(t, model.ModeGenerate, req.Mode)
	assert.Nil(t, req.Analysis)
}

func TestParseFormAnalyzeMode(t *testing.T) {
	form := validForm()
	form.Set("postText", "We just launched solar-powered boat rides!")
	form.Set("likes", "120")
	form.Set("impressions", "4000")
	// Topics and count are ignored in analyze mode.
	form.Del("topics")
	form.Del("numberOfPosts")

	req, err := ParseForm(form)
	require.NoError(t, err)

	assert.Equal(t, model.ModeAnalyze, req.Mode)
	require.NotNil(t, req.Analysis)
	assert.Equal(t, "We just launched solar-powered boat rides!", req.Analysis.PostText)
	require.NotNil(t, req.Analysis.Metrics.Likes)
	assert.Equal(t, 120, *req.Analysis.Metrics.Likes)
	require.NotNil(t, req.Analysis.Metrics.Impressions)
	assert.Equal(t, 4000, *req.Analysis.Metrics.Impressions)
	assert.Nil(t, req.Analysis.Metrics.Comments)
	assert.Equal(t, 1, req.NumberOfPosts)
}

func TestParseFormRepeatedTopicsValues(t *testing.T) {
	form := validForm()
	form["topics"] = []string{"eco-friendly transport", "boat rides in Kenya"}

	req, err := ParseForm(form)
	require.NoError(t, err)
	assert.Equal(t, []string{"eco-friendly transport", "boat rides in Kenya"}, req.Topics)
}

func TestParseFormMixedTopicsValues(t *testing.T) {
	form := validForm()
	form["topics"] = []string{"solar ferries, night cruises", "boat rides in Kenya"}

	req, err := ParseForm(form)
	require.NoError(t, err)
	assert.Equal(t, []string{"solar ferries", "night cruises", "boat rides in Kenya"}, req.Topics)
}

func TestParseFormPostTextWithoutMetricsIsGenerateMode(t *testing.T) {
	form := validForm()
	form.Set("postText", "an old post")

	req, err := ParseForm(form)
	require.NoError(t, err)
	assert.Equal(t, model.ModeGenerate, req.Mode)
}

func TestParseFormAggregatesAllFieldErrors(t *testing.T) {
	form := url.Values{
		"numberOfPosts": {"abc"},
		"tone":          {"Sarcastic"},
		"language":      {"Klingon"},
	}

	_, err := ParseForm(form)
	require.Error(t, err)

	fields, ok := err.(FieldErrors)
	require.True(t, ok)
	assert.Contains(t, fields, "organizationName")
	assert.Contains(t, fields, "topics")
	assert.Contains(t, fields, "platforms")
	assert.Contains(t, fields, "numberOfPosts")
	assert.Contains(t, fields, "tone")
	assert.Contains(t, fields, "language")
	assert.Contains(t, err.Error(), "Invalid form data.")
}

func TestParseFormPostCountBounds(t *testing.T) {
	for _, n := range []string{"1", "5"} {
		form := validForm()
		form.Set("numberOfPosts", n)
		_, err := ParseForm(form)
		assert.NoError(t, err, "count %s should validate", n)
	}

	form := validForm()
	form.Set("numberOfPosts", "6")
	_, err := ParseForm(form)
	require.Error(t, err)
	fields := err.(FieldErrors)
	assert.Contains(t, fields, "numberOfPosts")
	assert.Len(t, fields, 1)
}

func TestParseFormUnknownPlatform(t *testing.T) {
	form := validForm()
	form["platforms"] = []string{"X", "MySpace"}

	_, err := ParseForm(form)
	require.Error(t, err)
	assert.Contains(t, err.(FieldErrors), "platforms")
}

func TestParseFormTwitterAlias(t *testing.T) {
	form := validForm()
	form["platforms"] = []string{"Twitter"}

	req, err := ParseForm(form)
	require.NoError(t, err)
	assert.Equal(t, []model.Platform{model.PlatformX}, req.Platforms)
}

func TestParseFormDuplicatePlatformsCollapsed(t *testing.T) {
	form := validForm()
	form["platforms"] = []string{"X", "Twitter", "X"}

	req, err := ParseForm(form)
	require.NoError(t, err)
	assert.Equal(t, []model.Platform{model.PlatformX}, req.Platforms)
}

func TestParseFormBadMetricValue(t *testing.T) {
	form := validForm()
	form.Set("postText", "a post")
	form.Set("likes", "lots")

	_, err := ParseForm(form)
	require.Error(t, err)
	assert.Contains(t, err.(FieldErrors), "likes")
}
