// Package validate coerces raw form input into typed generation requests.
package validate

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/contentflow-ai/platform/internal/model"
)

// MaxPostsPerRequest bounds the number of posts per platform in one request.
const MaxPostsPerRequest = 5

// FieldErrors maps field names to validation messages. It aggregates every
// failing field; a request never partially validates.
type FieldErrors map[string]string

// Error joins all field messages into a single message, ordered by field name.
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %s", f, e[f])
	}
	return "Invalid form data. " + strings.Join(parts, " ")
}

// ParseForm validates raw key/value form input and produces a typed
// GenerationRequest. All values arrive as text. The generate/analyze mode is
// decided here: a non-empty post_text plus at least one numeric metric puts
// the request in analyze mode.
func ParseForm(values url.Values) (*model.GenerationRequest, error) {
	errs := FieldErrors{}

	req := &model.GenerationRequest{
		OrganizationName: strings.TrimSpace(values.Get("organizationName")),
	}
	if req.OrganizationName == "" {
		errs["organizationName"] = "Organization name is required."
	}

	// Mode is decided up front so topic and post-count requirements can be
	// skipped in analyze mode, where they are ignored.
	analysis := parseAnalysis(values, errs)
	analyze := analysis != nil && analysis.PostText != "" && analysis.Metrics.Any()

	req.Platforms = parsePlatforms(values["platforms"], errs)

	if tone, ok := model.ParseTone(values.Get("tone")); ok {
		req.Tone = tone
	} else {
		errs["tone"] = "Tone must be one of Casual, Official or Fun."
	}

	if lang, ok := model.ParseLanguage(values.Get("language")); ok {
		req.Language = lang
	} else {
		errs["language"] = "Language must be one of English, Swahili or Sheng."
	}

	if analyze {
		req.NumberOfPosts = 1
	} else {
		req.Topics = splitTopics(values["topics"])
		if len(req.Topics) == 0 {
			errs["topics"] = "Please provide at least one topic."
		}
		req.NumberOfPosts = parsePostCount(values.Get("numberOfPosts"), errs)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	if analyze {
		req.Mode = model.ModeAnalyze
		req.Analysis = analysis
	} else {
		req.Mode = model.ModeGenerate
	}

	return req, nil
}

// splitTopics flattens every submitted topics value. Topics arrive either as
// one free-text value with comma or newline separators, or as repeated values
// when the client sent a list.
func splitTopics(raw []string) []string {
	var topics []string
	for _, value := range raw {
		for _, t := range strings.FieldsFunc(value, func(r rune) bool {
			return r == ',' || r == '\n'
		}) {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
	}
	return topics
}

func parsePlatforms(raw []string, errs FieldErrors) []model.Platform {
	if len(raw) == 0 {
		errs["platforms"] = "Select at least one platform."
		return nil
	}

	seen := make(map[model.Platform]bool, len(raw))
	platforms := make([]model.Platform, 0, len(raw))
	for _, name := range raw {
		p, ok := model.ParsePlatform(strings.TrimSpace(name))
		if !ok {
			errs["platforms"] = fmt.Sprintf("Unknown platform %q.", name)
			return nil
		}
		if !seen[p] {
			seen[p] = true
			platforms = append(platforms, p)
		}
	}
	return platforms
}

func parsePostCount(raw string, errs FieldErrors) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		errs["numberOfPosts"] = "Number of posts must be an integer."
		return 0
	}
	if n < 1 || n > MaxPostsPerRequest {
		errs["numberOfPosts"] = fmt.Sprintf("Number of posts must be between 1 and %d.", MaxPostsPerRequest)
		return 0
	}
	return n
}

func parseAnalysis(values url.Values, errs FieldErrors) *model.AnalysisInput {
	analysis := &model.AnalysisInput{
		PostText: strings.TrimSpace(values.Get("postText")),
		PostDate: strings.TrimSpace(values.Get("postDate")),
	}

	analysis.Metrics.Likes = parseOptionalInt(values, "likes", errs)
	analysis.Metrics.Comments = parseOptionalInt(values, "comments", errs)
	analysis.Metrics.Shares = parseOptionalInt(values, "shares", errs)
	analysis.Metrics.Clicks = parseOptionalInt(values, "clicks", errs)
	analysis.Metrics.Impressions = parseOptionalInt(values, "impressions", errs)

	if analysis.PostText == "" && analysis.PostDate == "" && !analysis.Metrics.Any() {
		return nil
	}
	return analysis
}

// parseOptionalInt parses an optional numeric field. A missing or blank value
// is absent (nil), not zero.
func parseOptionalInt(values url.Values, key string, errs FieldErrors) *int {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs[key] = fmt.Sprintf("%s must be a number.", key)
		return nil
	}
	return &n
}
