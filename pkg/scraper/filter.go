package scraper

import (
	"path"
	"regexp"
	"strings"

	"faunafetch/pkg/commons"
)

// filenameSanitizer strips everything outside the portable filename set
var filenameSanitizer = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename replaces spaces with underscores and strips every
// remaining character outside [A-Za-z0-9_.-].
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	return filenameSanitizer.ReplaceAllString(name, "")
}

// filterItem applies the size, extension, and keyword filters to one
// item. It returns an empty string when the item passes, otherwise the
// skip reason.
func (s *Scraper) filterItem(title string, info commons.ImageInfo) string {
	if info.URL == "" {
		return "missing url"
	}

	// An image passes the size filter if either dimension is large enough
	fetch := s.config.Fetch
	if info.Width < fetch.MinWidth && info.Height < fetch.MinHeight {
		return "too small"
	}

	base := strings.ToLower(SanitizeFilename(path.Base(info.URL)))
	for _, ext := range fetch.ExcludeExtensions {
		if strings.HasSuffix(base, ext) {
			return "excluded extension"
		}
	}

	// Keyword filters match against title and filename together
	haystack := strings.ToLower(title) + " " + base
	for _, kw := range fetch.ExcludeKeywords {
		if strings.Contains(haystack, kw) {
			return "excluded keyword"
		}
	}
	if len(fetch.IncludeKeywords) > 0 {
		matched := false
		for _, kw := range fetch.IncludeKeywords {
			if strings.Contains(haystack, kw) {
				matched = true
				break
			}
		}
		if !matched {
			return "not in include list"
		}
	}

	return ""
}
