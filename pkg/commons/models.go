package commons

import (
	"fmt"
	"strings"
)

// Extmetadata fields recorded in the provenance CSV
const (
	MetaLicense = "LicenseShortName"
	MetaArtist  = "Artist"
	MetaCredit  = "Credit"
)

// QueryResponse is the envelope of a MediaWiki query API response
type QueryResponse struct {
	Continue *Continue `json:"continue,omitempty"`
	Query    Query     `json:"query"`
	Error    *APIError `json:"error,omitempty"`
}

// Continue carries pagination tokens between listing requests
type Continue struct {
	CMContinue string `json:"cmcontinue"`
	Continue   string `json:"continue"`
}

// Query holds the payload of a query response
type Query struct {
	CategoryMembers []CategoryMember `json:"categorymembers"`
	Pages           map[string]Page  `json:"pages"`
}

// APIError is an error reported inside a MediaWiki response body
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// CategoryMember is one entry of a categorymembers listing
type CategoryMember struct {
	PageID int64  `json:"pageid"`
	NS     int    `json:"ns"`
	Title  string `json:"title"`
}

// Page is one page of an imageinfo response
type Page struct {
	PageID    int64       `json:"pageid"`
	Title     string      `json:"title"`
	ImageInfo []ImageInfo `json:"imageinfo"`
}

// ImageInfo describes the current revision of a file page
type ImageInfo struct {
	URL            string                      `json:"url"`
	DescriptionURL string                      `json:"descriptionurl"`
	Width          int                         `json:"width"`
	Height         int                         `json:"height"`
	ExtMetadata    map[string]ExtMetadataValue `json:"extmetadata"`
}

// ExtMetadataValue wraps the loosely typed values of extmetadata
// fields, which the API serves as strings, numbers or booleans.
type ExtMetadataValue struct {
	Value interface{} `json:"value"`
}

// String renders the metadata value, empty when absent
func (v ExtMetadataValue) String() string {
	switch val := v.Value.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Meta returns the trimmed string value of an extmetadata field
func (i ImageInfo) Meta(key string) string {
	if i.ExtMetadata == nil {
		return ""
	}
	return strings.TrimSpace(i.ExtMetadata[key].String())
}
