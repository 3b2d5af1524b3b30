// Package extract resolves media URLs to transcript text for analysis.
package extract

import (
	"context"
	"net/url"
	"strings"
)

// Platform identifiers recognized by DetectPlatform.
const (
	PlatformAuto      = "auto"
	PlatformYouTube   = "youtube"
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
	PlatformTwitter   = "twitter"
	PlatformUnknown   = "unknown"
)

// Extractor fetches the transcript for a piece of media content. An empty
// transcript with a nil error means the content has no extractable text.
type Extractor interface {
	Extract(ctx context.Context, mediaURL, platform string) (string, error)
}

// DetectPlatform identifies the source platform from the media URL host.
// Unparseable or unrecognized URLs map to PlatformUnknown.
func DetectPlatform(mediaURL string) string {
	u, err := url.Parse(mediaURL)
	if err != nil || u.Host == "" {
		return PlatformUnknown
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))

	switch {
	case host == "youtu.be" || strings.HasSuffix(host, "youtube.com"):
		return PlatformYouTube
	case strings.HasSuffix(host, "instagram.com"):
		return PlatformInstagram
	case strings.HasSuffix(host, "tiktok.com"):
		return PlatformTikTok
	case strings.HasSuffix(host, "twitter.com") || host == "x.com" || strings.HasSuffix(host, ".x.com"):
		return PlatformTwitter
	default:
		return PlatformUnknown
	}
}
