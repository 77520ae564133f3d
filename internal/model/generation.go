// Package model defines data structures for the content generation platform.
package model

import (
	"time"
)

// Platform is a supported social media platform.
type Platform string

const (
	PlatformX         Platform = "X"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformInstagram Platform = "Instagram"
	PlatformFacebook  Platform = "Facebook"
	PlatformTikTok    Platform = "TikTok"
)

// AllPlatforms lists every supported platform.
var AllPlatforms = []Platform{
	PlatformX,
	PlatformLinkedIn,
	PlatformInstagram,
	PlatformFacebook,
	PlatformTikTok,
}

// ParsePlatform resolves a platform name, accepting "Twitter" as an alias for X.
func ParsePlatform(s string) (Platform, bool) {
	if s == "Twitter" {
		return PlatformX, true
	}
	for _, p := range AllPlatforms {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// TextLimit returns the character length hint for post text on the platform.
func (p Platform) TextLimit() int {
	switch p {
	case PlatformX:
		return 280
	case PlatformLinkedIn:
		return 3000
	default:
		return 2200
	}
}

// Tone is the desired voice of generated posts.
type Tone string

const (
	ToneCasual   Tone = "Casual"
	ToneOfficial Tone = "Official"
	ToneFun      Tone = "Fun"
)

// ParseTone resolves a tone name.
func ParseTone(s string) (Tone, bool) {
	switch Tone(s) {
	case ToneCasual, ToneOfficial, ToneFun:
		return Tone(s), true
	}
	return "", false
}

// Language is the output language for generated posts.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageSwahili Language = "Swahili"
	LanguageSheng   Language = "Sheng"
)

// ParseLanguage resolves a language name.
func ParseLanguage(s string) (Language, bool) {
	switch Language(s) {
	case LanguageEnglish, LanguageSwahili, LanguageSheng:
		return Language(s), true
	}
	return "", false
}

// Mode selects between generating fresh posts and analyzing an existing one.
// It is decided once at validation time, never re-derived downstream.
type Mode string

const (
	ModeGenerate Mode = "generate"
	ModeAnalyze  Mode = "analyze"
)

// EngagementMetrics are the numeric metrics reported for an existing post.
// Absent fields are nil, not zero.
type EngagementMetrics struct {
	Likes       *int `json:"likes,omitempty"`
	Comments    *int `json:"comments,omitempty"`
	Shares      *int `json:"shares,omitempty"`
	Clicks      *int `json:"clicks,omitempty"`
	Impressions *int `json:"impressions,omitempty"`
}

// Any reports whether at least one metric is present.
func (m EngagementMetrics) Any() bool {
	return m.Likes != nil || m.Comments != nil || m.Shares != nil ||
		m.Clicks != nil || m.Impressions != nil
}

// AnalysisInput carries an existing post and its metrics for analyze mode.
type AnalysisInput struct {
	PostText string            `json:"post_text"`
	PostDate string            `json:"post_date,omitempty"`
	Metrics  EngagementMetrics `json:"metrics"`
}

// GenerationRequest is a validated request for post generation or analysis.
type GenerationRequest struct {
	OrganizationName string         `json:"organization_name"`
	Topics           []string       `json:"topics"`
	Platforms        []Platform     `json:"platforms"`
	NumberOfPosts    int            `json:"number_of_posts"`
	Tone             Tone           `json:"tone"`
	Language         Language       `json:"language"`
	Mode             Mode           `json:"mode"`
	Analysis         *AnalysisInput `json:"analysis,omitempty"`
}

// PostAnalytics annotates a post with analysis output. Populated only in
// analyze mode.
type PostAnalytics struct {
	Summary         string   `json:"summary"`
	Highlights      []string `json:"highlights,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// PlatformPost is one rendering of a post concept for a single platform.
type PlatformPost struct {
	Text      string         `json:"text"`
	Hashtags  []string       `json:"hashtags"`
	ImageIdea string         `json:"image_idea"`
	Analytics *PostAnalytics `json:"analytics,omitempty"`
}

// PostConcept is one generated idea rendered per platform. Immutable once
// produced.
type PostConcept struct {
	ID            string                    `json:"id"`
	PlatformPosts map[Platform]PlatformPost `json:"platform_posts"`
}

// GenerationResult is the assembled output of one generation request.
type GenerationResult struct {
	ID           string        `json:"id"`
	Organization string        `json:"organization"`
	Platforms    []Platform    `json:"platforms"`
	Mode         Mode          `json:"mode"`
	Posts        []PostConcept `json:"posts"`
	CreatedAt    time.Time     `json:"created_at"`
}
