package scraper_test

import (
	"fmt"

	"faunafetch/pkg/config"
	"faunafetch/pkg/scraper"
)

func ExampleScraper_FetchCategories() {
	cfg := config.DefaultConfig()
	cfg.Fetch.OutputDirectory = "animals"
	cfg.Fetch.Limit = 25
	cfg.Fetch.IncludeKeywords = []string{"lion", "tiger"}

	s, err := scraper.New(cfg)
	if err != nil {
		fmt.Printf("Failed to create scraper: %v\n", err)
		return
	}
	defer s.Close()

	report, err := s.FetchCategories([]string{"Category:Felidae"})
	if err != nil {
		fmt.Printf("Fetch failed: %v\n", err)
		return
	}

	fmt.Printf("Downloaded %d of %d examined images\n", report.Downloaded, report.Examined)
}
