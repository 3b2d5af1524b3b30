package extract

import (
	"context"
	"hash/fnv"
	"regexp"
)

// Canned serves a deterministic per-platform transcript selected by the
// content identifier in the URL. It stands in for the real
// download-and-transcribe pipeline, which runs as a separate service;
// swapping in that pipeline only requires another Extractor.
type Canned struct{}

// NewCanned creates a Canned extractor.
func NewCanned() *Canned {
	return &Canned{}
}

// Extract resolves the platform, pulls the content identifier out of the
// URL, and returns one of the platform's canned transcripts. URLs whose
// identifier cannot be located yield no content.
func (c *Canned) Extract(_ context.Context, mediaURL, platform string) (string, error) {
	if platform == "" || platform == PlatformAuto {
		platform = DetectPlatform(mediaURL)
	}

	transcripts, ok := cannedTranscripts[platform]
	if !ok {
		return "", nil
	}

	id := extractContentID(platform, mediaURL)
	if id == "" {
		return "", nil
	}

	h := fnv.New32a()
	h.Write([]byte(id))
	return transcripts[int(h.Sum32())%len(transcripts)], nil
}

// extractContentID pulls the platform-native identifier out of the URL:
// the video ID for YouTube and TikTok, the post ID for Instagram, the
// tweet ID for Twitter.
func extractContentID(platform, mediaURL string) string {
	patterns, ok := contentIDPatterns[platform]
	if !ok {
		return ""
	}
	for _, p := range patterns {
		if m := p.FindStringSubmatch(mediaURL); m != nil {
			return m[1]
		}
	}
	return ""
}

var contentIDPatterns = map[string][]*regexp.Regexp{
	PlatformYouTube: {
		regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`),
		regexp.MustCompile(`embed/([0-9A-Za-z_-]{11})`),
	},
	PlatformInstagram: {
		regexp.MustCompile(`/p/([A-Za-z0-9_-]+)`),
		regexp.MustCompile(`/reel/([A-Za-z0-9_-]+)`),
		regexp.MustCompile(`/tv/([A-Za-z0-9_-]+)`),
	},
	PlatformTikTok: {
		regexp.MustCompile(`/video/([0-9]+)`),
	},
	PlatformTwitter: {
		regexp.MustCompile(`/status/([0-9]+)`),
	},
}

var cannedTranscripts = map[string][]string{
	PlatformYouTube: {
		"In this video, I'm going to show you how to make the perfect coffee at home. We'll cover everything from selecting the right beans to brewing techniques that will elevate your morning routine.",
		"Welcome back to my channel! Today we're discussing the latest trends in technology and how they're shaping our future. From AI to renewable energy, there's so much to explore.",
		"Hey everyone! In this tutorial, I'll walk you through the basics of photography composition. Whether you're a beginner or looking to improve your skills, these tips will help you take better photos.",
	},
	PlatformInstagram: {
		"Just finished an amazing workout! Feeling energized and ready to take on the day. Remember, consistency is key when it comes to fitness. 💪 #fitness #motivation #health",
		"Coffee and contemplation. Sometimes the best ideas come when you least expect them. What are you working on today? ☕ #coffee #productivity #mindfulness",
		"Sunset vibes from my favorite spot. Nature has a way of putting things into perspective. Grateful for these peaceful moments. 🌅 #sunset #nature #gratitude",
	},
	PlatformTikTok: {
		"POV: When you finally understand that complicated concept after studying for hours 📚✨ The feeling is unmatched! Who else can relate?",
		"Life hack: This simple trick will change how you organize your workspace forever! Trust me, your productivity will thank you later. 🚀",
		"Tell me you grew up in the 90s without telling me... I'll go first: I still remember the sound of dial-up internet connecting 😂 #90s #nostalgia",
	},
	PlatformTwitter: {
		"Just launched my new project! After months of hard work, it's finally live. Check it out and let me know what you think. Feedback appreciated! 🚀",
		"Hot take: Remote work isn't just about location flexibility. It's about trusting people to manage their time and deliver results. The future is asynchronous.",
		"Reminder: Your mental health is just as important as your physical health. Take breaks, set boundaries, and prioritize self-care. You can't pour from an empty cup.",
	},
}

// Compile-time check that Canned implements Extractor.
var _ Extractor = (*Canned)(nil)
