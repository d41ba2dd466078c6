package services

import (
	"regexp"

	"metagrab/internal/instagram"
	"metagrab/internal/model"
	"metagrab/internal/scraper"
	"metagrab/internal/youtube"
)

var hashtagRE = regexp.MustCompile(`#\w+`)

// Hashtags returns the #word tokens of caption without the leading '#',
// or nil when there are none.
func Hashtags(caption string) []string {
	matches := hashtagRE.FindAllString(caption, -1)
	if len(matches) == 0 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1:])
	}
	return tags
}

// NormalizeInstagram maps an extracted post into the unified schema.
func NormalizeInstagram(post *instagram.Post, originalURL string) *model.Metadata {
	md := model.NewMetadata(model.PlatformInstagram, originalURL)

	var first instagram.MediaDetail
	if len(post.MediaDetails) > 0 {
		first = post.MediaDetails[0]
	}

	mediaType := first.Type
	if mediaType == "" {
		mediaType = "video"
	}
	for _, u := range post.URLList {
		md.URLs.DirectURLs = append(md.URLs.DirectURLs, model.DirectURL{
			URL:    u,
			Format: "mp4",
			Type:   mediaType,
		})
	}

	username := post.PostInfo.OwnerUsername
	title := "Instagram Reel"
	if username != "" {
		title = "Reel by " + username
	}

	md.Title = &title
	md.Description = model.StringOrNil(post.PostInfo.Caption)
	md.Username = model.StringOrNil(username)
	md.Category = model.StringOrNil(first.Type)
	md.Keywords = Hashtags(post.PostInfo.Caption)
	md.URLs.Thumbnail = model.StringOrNil(first.Thumbnail)
	return md
}

// NormalizeYouTube maps a fetched video into the unified schema. No
// strategy yields a real media URL, so the only direct URL is the shared one.
func NormalizeYouTube(v *youtube.Video, originalURL string) *model.Metadata {
	md := model.NewMetadata(model.PlatformYouTube, originalURL)

	md.Title = model.StringOrNil(v.Title)
	md.Description = model.StringOrNil(v.Description)
	md.Username = model.StringOrNil(v.Author)
	md.Category = model.StringOrNil(v.Category)
	if len(v.Keywords) > 0 {
		md.Keywords = v.Keywords
	}
	md.URLs.Thumbnail = model.StringOrNil(v.Thumbnail)
	md.URLs.DirectURLs = append(md.URLs.DirectURLs, model.DirectURL{
		URL:    originalURL,
		Format: "mp4",
		Type:   "video",
	})
	return md
}

// NormalizeGeneric applies the OpenGraph > Twitter card > plain HTML
// priority to page meta values.
func NormalizeGeneric(meta scraper.PageMeta, originalURL string) *model.Metadata {
	md := model.NewMetadata(model.PlatformGeneric, originalURL)

	md.Title = model.StringOrNil(firstNonEmpty(meta.OgTitle, meta.TwitterTitle, meta.Title))
	md.Description = model.StringOrNil(firstNonEmpty(meta.OgDescription, meta.TwitterDescription, meta.Description))
	md.URLs.Thumbnail = model.StringOrNil(firstNonEmpty(meta.OgImage, meta.TwitterImage))
	md.Username = model.StringOrNil(meta.OgSiteName)
	md.Category = model.StringOrNil(meta.OgType)
	md.Keywords = scraper.SplitKeywords(meta.Keywords)
	return md
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
