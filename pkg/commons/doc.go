// Package commons provides a client for the Wikimedia Commons MediaWiki API.
//
// This package includes:
//   - A configurable HTTP client with rate limiting and error handling
//   - Type-safe models for categorymembers and imageinfo responses
//   - Helper functions for constructing API endpoints
//   - An optional response cache for imageinfo lookups
//   - Built-in error types for better error handling
//
// Example usage:
//
//	client := commons.NewClient("", "", 30*time.Second, limiter, nil)
//
//	// List one page of category members
//	members, next, err := client.ListCategoryMembers("Category:Lions", "", 50)
//	if err != nil {
//	    if apiErr, ok := err.(*commons.Error); ok {
//	        switch apiErr.Type {
//	        case commons.ErrorTypeRateLimit:
//	            // Handle rate limit
//	        case commons.ErrorTypeNetwork:
//	            // Handle network failure
//	        }
//	    }
//	}
//
//	// Fetch metadata for the file titles
//	info, err := client.FetchImageInfo(titles)
//	for title, ii := range info {
//	    data, err := client.DownloadFile(ii.URL)
//	    // Handle image data
//	}
package commons
