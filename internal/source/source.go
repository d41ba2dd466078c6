// Package source decides which fetch path a shared URL takes.
package source

import "strings"

type Kind int

const (
	Generic Kind = iota
	InstagramReel
	YouTubeShort
)

func (k Kind) String() string {
	switch k {
	case InstagramReel:
		return "instagram_reel"
	case YouTubeShort:
		return "youtube_short"
	default:
		return "generic"
	}
}

// Classify inspects rawURL without parsing it. Malformed input falls
// through to Generic and fails later at fetch time.
func Classify(rawURL string) Kind {
	if strings.Contains(rawURL, "/reel/") {
		return InstagramReel
	}
	if strings.Contains(rawURL, "/shorts/") {
		return YouTubeShort
	}
	return Generic
}
