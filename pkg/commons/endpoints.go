package commons

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultAPIURL is the MediaWiki API endpoint for Wikimedia Commons
	DefaultAPIURL = "https://commons.wikimedia.org/w/api.php"

	// DefaultUserAgent identifies the tool to the Wikimedia servers
	DefaultUserAgent = "faunafetch/1.0 (animal asset pipeline)"

	// PageSize is the maximum number of category members returned per listing page
	PageSize = 50

	// BatchSize is the maximum number of titles per imageinfo request
	BatchSize = 50

	// CategoryPrefix marks category pages in member listings
	CategoryPrefix = "Category:"

	// FilePrefix marks file pages in member listings
	FilePrefix = "File:"

	// MemberTypes restricts member listings to files and subcategories
	MemberTypes = "file|subcat"
)

// CategoryMembersURL constructs the URL for one page of category members.
// The requested page size is the remaining item budget, clamped to PageSize.
func CategoryMembersURL(apiURL, category, cont string, limit int) string {
	if limit <= 0 || limit > PageSize {
		limit = PageSize
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "categorymembers")
	params.Set("cmtitle", category)
	params.Set("cmtype", MemberTypes)
	params.Set("cmlimit", fmt.Sprintf("%d", limit))
	params.Set("format", "json")
	params.Set("origin", "*")
	if cont != "" {
		params.Set("cmcontinue", cont)
	}

	return fmt.Sprintf("%s?%s", apiURL, params.Encode())
}

// ImageInfoURL constructs the URL for an imageinfo lookup over a batch
// of pipe-joined titles.
func ImageInfoURL(apiURL string, titles []string) string {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "imageinfo")
	params.Set("titles", strings.Join(titles, "|"))
	params.Set("iiprop", "url|extmetadata|size")
	params.Set("format", "json")
	params.Set("origin", "*")

	return fmt.Sprintf("%s?%s", apiURL, params.Encode())
}

// NormalizeCategory trims a category argument and ensures the
// "Category:" prefix so bare names work on the command line.
func NormalizeCategory(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, CategoryPrefix) {
		return name
	}
	return CategoryPrefix + name
}

// IsCategory reports whether a member title names a category page
func IsCategory(title string) bool {
	return strings.HasPrefix(title, CategoryPrefix)
}

// IsFile reports whether a member title names a file page
func IsFile(title string) bool {
	return strings.HasPrefix(title, FilePrefix)
}
