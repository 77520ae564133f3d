package flows

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	minHashtags = 2
	maxHashtags = 5
)

// ErrSchemaMismatch wraps any response that does not conform to the declared
// output shape. The call is treated as failed; malformed data is never passed
// through.
type ErrSchemaMismatch struct {
	Flow   string
	Reason string
}

func (e *ErrSchemaMismatch) Error() string {
	return fmt.Sprintf("%s flow returned malformed output: %s", e.Flow, e.Reason)
}

func decodePostsOutput(raw string, in *PostsInput) (*PostsOutput, error) {
	var out PostsOutput
	if err := decodeJSON(raw, &out); err != nil {
		return nil, &ErrSchemaMismatch{Flow: "generate_posts", Reason: err.Error()}
	}
	if len(out.Posts) != in.NumberOfPosts {
		return nil, &ErrSchemaMismatch{
			Flow:   "generate_posts",
			Reason: fmt.Sprintf("expected %d posts, got %d", in.NumberOfPosts, len(out.Posts)),
		}
	}
	for i, p := range out.Posts {
		if err := validatePost(p); err != nil {
			return nil, &ErrSchemaMismatch{
				Flow:   "generate_posts",
				Reason: fmt.Sprintf("post %d: %s", i, err),
			}
		}
	}
	if out.Organization == "" {
		out.Organization = in.Organization
	}
	if out.Platform == "" {
		out.Platform = string(in.Platform)
	}
	return &out, nil
}

func decodeAnalyzeOutput(raw string, in *AnalyzeInput) (*AnalyzeOutput, error) {
	var out AnalyzeOutput
	if err := decodeJSON(raw, &out); err != nil {
		return nil, &ErrSchemaMismatch{Flow: "analyze_post", Reason: err.Error()}
	}
	if err := validatePost(out.Post); err != nil {
		return nil, &ErrSchemaMismatch{Flow: "analyze_post", Reason: err.Error()}
	}
	if out.Summary == "" {
		return nil, &ErrSchemaMismatch{Flow: "analyze_post", Reason: "missing summary"}
	}
	if out.Platform == "" {
		out.Platform = string(in.Platform)
	}
	return &out, nil
}

func decodeHashtagsOutput(raw string) ([]string, error) {
	var out struct {
		Hashtags []string `json:"hashtags"`
	}
	if err := decodeJSON(raw, &out); err != nil {
		return nil, &ErrSchemaMismatch{Flow: "suggest_hashtags", Reason: err.Error()}
	}
	if err := validateHashtags(out.Hashtags); err != nil {
		return nil, &ErrSchemaMismatch{Flow: "suggest_hashtags", Reason: err.Error()}
	}
	return out.Hashtags, nil
}

func decodeImageIdeaOutput(raw string) (string, error) {
	var out struct {
		ImageIdea string `json:"image_idea"`
	}
	if err := decodeJSON(raw, &out); err != nil {
		return "", &ErrSchemaMismatch{Flow: "image_idea", Reason: err.Error()}
	}
	if out.ImageIdea == "" {
		return "", &ErrSchemaMismatch{Flow: "image_idea", Reason: "missing image_idea"}
	}
	return out.ImageIdea, nil
}

func validatePost(p GeneratedPost) error {
	if strings.TrimSpace(p.Text) == "" {
		return fmt.Errorf("empty post text")
	}
	return validateHashtags(p.Hashtags)
}

func validateHashtags(tags []string) error {
	if len(tags) < minHashtags || len(tags) > maxHashtags {
		return fmt.Errorf("expected %d-%d hashtags, got %d", minHashtags, maxHashtags, len(tags))
	}
	for _, t := range tags {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("empty hashtag")
		}
	}
	return nil
}

// decodeJSON decodes a provider response, tolerating markdown code fences
// around the JSON body.
func decodeJSON(raw string, v any) error {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	return json.Unmarshal([]byte(s), v)
}
