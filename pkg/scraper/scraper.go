package scraper

import (
	"bytes"
	"fmt"
	"path"
	"time"

	"faunafetch/pkg/cache"
	"faunafetch/pkg/commons"
	"faunafetch/pkg/config"
	"faunafetch/pkg/logger"
	"faunafetch/pkg/ratelimit"
	"faunafetch/pkg/storage"
	"faunafetch/pkg/walker"
)

// Scraper orchestrates the category walk, metadata batching, and the
// filter and download pipeline
type Scraper struct {
	client CommonsClient
	store  *storage.Manager
	walker *walker.Walker
	cache  *cache.Cache
	config *config.Config
	logger logger.Logger
}

// New creates a new Scraper instance from configuration
func New(cfg *config.Config) (*Scraper, error) {
	// Get logger
	log := logger.GetLogger()

	// Rate limiter based on config
	limiter, err := ratelimit.New(cfg.RateLimit.Strategy, cfg.RateLimit.RequestsPerMinute)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	// Commons API client
	client := commons.NewClient(
		cfg.Commons.APIURL,
		cfg.Commons.UserAgent,
		cfg.Commons.RequestTimeout,
		limiter,
		log,
	)
	client.SetBatchPause(cfg.RateLimit.BatchPause)

	// Optional imageinfo response cache. A cache that fails to open is
	// logged and skipped, the fetch just goes to the network.
	var responseCache *cache.Cache
	if cfg.Cache.Path != "" {
		responseCache, err = cache.Open(cfg.Cache.Path)
		if err != nil {
			log.WithError(err).WithField("path", cfg.Cache.Path).Warn("Failed to open metadata cache, continuing without it")
			responseCache = nil
		} else {
			if n, err := responseCache.Prune(); err != nil {
				log.WithError(err).Warn("Failed to prune expired cache entries")
			} else if n > 0 {
				log.DebugWithFields("Pruned expired cache entries", map[string]interface{}{
					"entries": n,
				})
			}
			client.SetCache(responseCache, cfg.Cache.TTL)
		}
	}

	// Storage manager for the output directory
	store, err := storage.NewManager(cfg.Fetch.OutputDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}
	if n := store.GetSavedCount(); n > 0 {
		log.InfoWithFields("Output directory already contains files", map[string]interface{}{
			"directory": cfg.Fetch.OutputDirectory,
			"files":     n,
		})
	}

	w := walker.New(client, cfg.Fetch.MaxDepth, cfg.RateLimit.WalkPause, log)

	return &Scraper{
		client: client,
		store:  store,
		walker: w,
		cache:  responseCache,
		config: cfg,
		logger: log,
	}, nil
}

// Close releases the metadata cache, if one is open
func (s *Scraper) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

// ItemResult records the outcome for a single file title
type ItemResult struct {
	Title    string
	Filename string
	URL      string
	Kept     bool          // passed every filter
	Reason   string        // skip reason when not kept
	Err      error         // download, save, or metadata write failure
	Size     int
	Duration time.Duration
}

// Report summarizes a fetch run
type Report struct {
	Examined   int            // titles examined after de-duplication
	Kept       int            // titles that passed the filters
	Downloaded int            // files downloaded, saved, and recorded
	Failed     int            // kept titles that failed downloading or saving
	Skipped    map[string]int // filtered titles, by reason
	Results    []ItemResult
	CSVPath    string
}

// FetchCategories walks each category, batches metadata for the files
// found, filters them, and downloads the survivors. Category listing
// and metadata failures abort the run; a failed single download is
// logged and skipped.
func (s *Scraper) FetchCategories(categories []string) (*Report, error) {
	limit := s.config.Fetch.Limit

	// Gather file titles from all categories up to the limit
	var titles []string
	for _, category := range categories {
		remaining := limit - len(titles)
		if remaining <= 0 {
			break
		}

		cat := commons.NormalizeCategory(category)
		s.logger.InfoWithFields("Walking category", map[string]interface{}{
			"category":  cat,
			"remaining": remaining,
		})

		found, err := s.walker.Walk(cat, remaining)
		if err != nil {
			s.logger.WithError(err).WithField("category", cat).Error("Category walk failed")
			return nil, fmt.Errorf("failed to walk category %s: %w", cat, err)
		}
		titles = append(titles, found...)
	}
	titles = dedupe(titles)

	report := &Report{Skipped: make(map[string]int)}
	if len(titles) == 0 {
		return report, nil
	}

	s.logger.InfoWithFields("Fetching image metadata", map[string]interface{}{
		"titles": len(titles),
	})
	info, err := s.client.FetchImageInfo(titles)
	if err != nil {
		s.logger.WithError(err).Error("Metadata fetch failed")
		return nil, fmt.Errorf("failed to fetch image info: %w", err)
	}

	// The metadata CSV sits next to the output directory and is
	// rewritten on every run
	csvPath := storage.MetadataPathFor(s.store.GetOutputDir())
	meta, err := storage.CreateMetadataCSV(csvPath)
	if err != nil {
		return nil, err
	}
	defer meta.Close()
	report.CSVPath = csvPath

	for _, title := range titles {
		report.Examined++

		ii, ok := info[title]
		if !ok {
			// Missing metadata excludes the item
			s.logger.DebugWithFields("No metadata for title", map[string]interface{}{
				"title": title,
			})
			report.Skipped["no metadata"]++
			report.Results = append(report.Results, ItemResult{Title: title, Reason: "no metadata"})
			continue
		}

		result := s.fetchItem(title, ii, meta)
		report.Results = append(report.Results, result)
		switch {
		case !result.Kept:
			report.Skipped[result.Reason]++
		case result.Err != nil:
			report.Kept++
			report.Failed++
		default:
			report.Kept++
			report.Downloaded++
		}
	}

	s.logger.InfoWithFields("Fetch finished", map[string]interface{}{
		"examined":   report.Examined,
		"kept":       report.Kept,
		"downloaded": report.Downloaded,
		"failed":     report.Failed,
		"action":     "fetch_complete",
	})

	return report, nil
}

// fetchItem filters a single title and, if it survives, downloads the
// file and appends its provenance row
func (s *Scraper) fetchItem(title string, info commons.ImageInfo, meta *storage.MetadataWriter) ItemResult {
	result := ItemResult{Title: title, URL: info.URL}

	if reason := s.filterItem(title, info); reason != "" {
		result.Reason = reason
		s.logger.DebugWithFields("Filtered out", map[string]interface{}{
			"title":  title,
			"reason": reason,
		})
		return result
	}

	result.Kept = true
	result.Filename = SanitizeFilename(path.Base(info.URL))

	if s.store.IsSaved(result.Filename) {
		s.logger.DebugWithFields("Overwriting existing file", map[string]interface{}{
			"filename": result.Filename,
		})
	}

	start := time.Now()
	data, err := s.client.DownloadFile(info.URL)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		logger.LogDownload(title, info.URL, false, err)
		return result
	}
	result.Size = len(data)

	if err := s.store.SaveFile(bytes.NewReader(data), result.Filename); err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		logger.LogDownload(title, info.URL, false, err)
		return result
	}
	result.Duration = time.Since(start)

	record := storage.Record{
		Filename:  result.Filename,
		SourceURL: info.URL,
		License:   info.Meta(commons.MetaLicense),
		Artist:    info.Meta(commons.MetaArtist),
		Credit:    info.Meta(commons.MetaCredit),
	}
	if err := meta.Append(record); err != nil {
		result.Err = err
		logger.LogDownload(title, info.URL, false, err)
		return result
	}

	logger.LogDownload(title, info.URL, true, nil)
	return result
}

// dedupe removes duplicate titles while preserving first-occurrence order
func dedupe(titles []string) []string {
	seen := make(map[string]bool, len(titles))
	var out []string
	for _, t := range titles {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
