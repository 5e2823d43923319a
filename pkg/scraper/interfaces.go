package scraper

import "faunafetch/pkg/commons"

// CommonsClient defines the interface for Wikimedia Commons API operations
type CommonsClient interface {
	ListCategoryMembers(category, cont string, limit int) ([]commons.CategoryMember, string, error)
	FetchImageInfo(titles []string) (map[string]commons.ImageInfo, error)
	DownloadFile(fileURL string) ([]byte, error)
}
