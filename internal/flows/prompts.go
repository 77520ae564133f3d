package flows

import (
	"fmt"
	"strings"
)

const postsSystemPrompt = `You are a social media content creation agent for organizations.
Your task is to generate engaging, professional, and audience-relevant social media posts.

Rules:
1. Always write posts that align with the organization's mission and tone of voice.
2. Keep posts within the platform's length limit (max 280 characters for X, up to 200 words for LinkedIn/Instagram/Facebook/TikTok).
3. Always include relevant hashtags (2-5 per post).
4. Suggest an image idea for each post, but do not generate the image.
5. Output strictly the requested JSON, with no commentary.`

func buildPostsPrompt(in *PostsInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Organization name: %s\n", in.Organization)
	fmt.Fprintf(&b, "Topics/keywords: %s\n", strings.Join(in.Topics, ", "))
	fmt.Fprintf(&b, "Platform: %s\n", in.Platform)
	fmt.Fprintf(&b, "Tone: %s\n", in.Tone)
	fmt.Fprintf(&b, "Language: %s\n", in.Language)
	fmt.Fprintf(&b, "Number of posts: %d\n\n", in.NumberOfPosts)
	fmt.Fprintf(&b, `Output format (JSON):
{
  "organization": "%s",
  "platform": "%s",
  "posts": [
    {
      "text": "Post caption here...",
      "hashtags": ["#tag1", "#tag2"],
      "image_idea": "Describe the kind of image/graphic that would go well"
    }
  ]
}

Generate %d social media posts for %s on %s. Follow the rules and output the JSON format.`,
		in.Organization, in.Platform, in.NumberOfPosts, in.Organization, in.Platform)
	return b.String()
}

const analyzeSystemPrompt = `You are a social media performance analyst for organizations.
Given an existing post and its engagement metrics, you summarize how it performed,
call out what worked, recommend improvements, and rewrite the post applying them.
Output strictly the requested JSON, with no commentary.`

func buildAnalyzePrompt(in *AnalyzeInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Organization name: %s\n", in.Organization)
	fmt.Fprintf(&b, "Platform: %s\n", in.Platform)
	fmt.Fprintf(&b, "Tone: %s\n", in.Tone)
	fmt.Fprintf(&b, "Language: %s\n", in.Language)
	fmt.Fprintf(&b, "Post text: %s\n", in.PostText)
	if in.PostDate != "" {
		fmt.Fprintf(&b, "Post date: %s\n", in.PostDate)
	}
	b.WriteString("Engagement metrics:\n")
	writeMetric(&b, "likes", in.Metrics.Likes)
	writeMetric(&b, "comments", in.Metrics.Comments)
	writeMetric(&b, "shares", in.Metrics.Shares)
	writeMetric(&b, "clicks", in.Metrics.Clicks)
	writeMetric(&b, "impressions", in.Metrics.Impressions)
	fmt.Fprintf(&b, `
Output format (JSON):
{
  "platform": "%s",
  "post": {
    "text": "Improved post caption...",
    "hashtags": ["#tag1", "#tag2"],
    "image_idea": "Describe the kind of image/graphic that would go well"
  },
  "summary": "One paragraph performance summary",
  "highlights": ["what worked"],
  "recommendations": ["what to improve"]
}`, in.Platform)
	return b.String()
}

func writeMetric(b *strings.Builder, name string, v *int) {
	if v != nil {
		fmt.Fprintf(b, "- %s: %d\n", name, *v)
	}
}

func buildHashtagsPrompt(postText string) string {
	return fmt.Sprintf(`You are a social media expert. Given the following post text, suggest a list of 2-5 relevant hashtags to increase its visibility.

Post text: %s

Output format (JSON): {"hashtags": ["#tag1", "#tag2"]}`, postText)
}

func buildImageIdeaPrompt(in *ImageIdeaInput) string {
	return fmt.Sprintf(`You are a social media expert generating ideas for images to accompany social media posts.

Given the following social media post, generate an idea for an image that would be visually appealing and relevant to the post's content.

Organization: %s
Platform: %s
Post text: %s

Output format (JSON): {"image_idea": "..."}`, in.Organization, in.Platform, in.PostText)
}
