package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentflow-ai/platform/internal/model"
)

func postsInput(n int) *PostsInput {
	return &PostsInput{
		Organization:  "BlueRide",
		Topics:        []string{"boat rides"},
		Platform:      model.PlatformX,
		NumberOfPosts: n,
		Tone:          model.ToneCasual,
		Language:      model.LanguageEnglish,
	}
}

func TestDecodePostsOutput(t *testing.T) {
	raw := `{
		"organization": "BlueRide",
		"platform": "X",
		"posts": [
			{"text": "Ride the wave!", "hashtags": ["#eco", "#kenya"], "image_idea": "a boat at sunset"}
		]
	}`

	out, err := decodePostsOutput(raw, postsInput(1))
	require.NoError(t, err)
	assert.Equal(t, "BlueRide", out.Organization)
	assert.Len(t, out.Posts, 1)
	assert.Equal(t, []string{"#eco", "#kenya"}, out.Posts[0].Hashtags)
}

func TestDecodePostsOutputStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"posts\":[{\"text\":\"hi\",\"hashtags\":[\"#a\",\"#b\"],\"image_idea\":\"x\"}]}\n```"

	out, err := decodePostsOutput(raw, postsInput(1))
	require.NoError(t, err)
	// Missing envelope fields are backfilled from the input.
	assert.Equal(t, "BlueRide", out.Organization)
	assert.Equal(t, "X", out.Platform)
}

func TestDecodePostsOutputWrongCount(t *testing.T) {
	raw := `{"posts":[{"text":"hi","hashtags":["#a","#b"],"image_idea":"x"}]}`

	_, err := decodePostsOutput(raw, postsInput(2))
	require.Error(t, err)
	var mismatch *ErrSchemaMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, mismatch.Reason, "expected 2 posts")
}

func TestDecodePostsOutputHashtagBounds(t *testing.T) {
	tooFew := `{"posts":[{"text":"hi","hashtags":["#a"],"image_idea":"x"}]}`
	_, err := decodePostsOutput(tooFew, postsInput(1))
	assert.Error(t, err)

	tooMany := `{"posts":[{"text":"hi","hashtags":["#a","#b","#c","#d","#e","#f"],"image_idea":"x"}]}`
	_, err = decodePostsOutput(tooMany, postsInput(1))
	assert.Error(t, err)
}

func TestDecodeAnalyzeOutputRequiresSummary(t *testing.T) {
	raw := `{
		"post": {"text": "better post", "hashtags": ["#a", "#b"], "image_idea": "x"},
		"highlights": ["short text"],
		"recommendations": ["post earlier"]
	}`

	_, err := decodeAnalyzeOutput(raw, &AnalyzeInput{Platform: model.PlatformX})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing summary")
}

func TestDecodeHashtagsOutput(t *testing.T) {
	tags, err := decodeHashtagsOutput(`{"hashtags":["#one","#two","#three"]}`)
	require.NoError(t, err)
	assert.Len(t, tags, 3)

	_, err = decodeHashtagsOutput(`{"hashtags":[]}`)
	assert.Error(t, err)
}

func TestDecodeImageIdeaOutput(t *testing.T) {
	idea, err := decodeImageIdeaOutput(`{"image_idea":"a drone shot of the harbor"}`)
	require.NoError(t, err)
	assert.Equal(t, "a drone shot of the harbor", idea)

	_, err = decodeImageIdeaOutput(`{}`)
	assert.Error(t, err)
}

func TestDecodeRejectsNonJSON(t *testing.T) {
	_, err := decodePostsOutput("sorry, I can't help with that", postsInput(1))
	require.Error(t, err)
	var mismatch *ErrSchemaMismatch
	assert.ErrorAs(t, err, &mismatch)
}
