package scraper

import "strings"

// SplitKeywords splits a comma separated keywords value, trimming each
// token and dropping empty ones. It returns nil when nothing remains.
func SplitKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var out []string
	for _, tok := range strings.Split(raw, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
