package model

// Platform tags the source a Metadata result was extracted from.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformGeneric   Platform = "generic"
)

// DirectURL is a playable or downloadable media URL, as opposed to the
// page URL a user shared.
type DirectURL struct {
	URL     string  `json:"url"`
	Quality *string `json:"quality"`
	Format  string  `json:"format"`
	Type    string  `json:"type"`
}

type URLs struct {
	Thumbnail   *string     `json:"thumbnail"`
	OriginalURL string      `json:"original_url"`
	DirectURLs  []DirectURL `json:"direct_urls"`
}

// Metadata is the unified schema every platform result is mapped into.
// No field carries omitempty: consumers get every key, null when unknown.
type Metadata struct {
	Platform    Platform `json:"platform"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Username    *string  `json:"username"`
	Category    *string  `json:"category"`
	Keywords    []string `json:"keywords"`
	URLs        URLs     `json:"urls"`
}

// NewMetadata returns a result for originalURL with every optional field
// unset and an empty, non-nil direct URL list.
func NewMetadata(platform Platform, originalURL string) *Metadata {
	return &Metadata{
		Platform: platform,
		URLs: URLs{
			OriginalURL: originalURL,
			DirectURLs:  make([]DirectURL, 0),
		},
	}
}

// StringOrNil returns nil for the empty string so it serializes as null.
func StringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
