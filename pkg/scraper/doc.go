// Package scraper provides the core functionality for fetching animal
// images from Wikimedia Commons categories.
//
// The scraper package orchestrates the entire fetch, coordinating the
// category walker, the Commons API client, filtering, storage, and the
// provenance CSV.
//
// Architecture:
//
// The Scraper struct is the main component that:
//   - Walks category trees to collect file titles up to a limit
//   - Batches imageinfo metadata requests for the collected titles
//   - Filters items by size, extension, and keywords
//   - Downloads survivors and writes them atomically to disk
//   - Records one provenance row per saved image
//
// Usage:
//
//	cfg := config.DefaultConfig()
//	cfg.Fetch.OutputDirectory = "animals"
//
//	s, err := scraper.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	report, err := s.FetchCategories([]string{"Category:Felidae"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Error handling:
//
// Category listing and metadata failures abort the run. A download or
// write failure for a single item is logged, recorded in the report,
// and skipped; the remaining items still run. Each run rewrites the
// metadata CSV from scratch.
package scraper
