package scraper

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faunafetch/pkg/commons"
	"faunafetch/pkg/config"
	"faunafetch/pkg/logger"
	"faunafetch/pkg/storage"
	"faunafetch/pkg/walker"
)

// mockCommonsClient is a mock implementation of the CommonsClient interface
type mockCommonsClient struct {
	listCategoryMembers func(category, cont string, limit int) ([]commons.CategoryMember, string, error)
	fetchImageInfo      func(titles []string) (map[string]commons.ImageInfo, error)
	downloadFile        func(fileURL string) ([]byte, error)
}

func (m *mockCommonsClient) ListCategoryMembers(category, cont string, limit int) ([]commons.CategoryMember, string, error) {
	if m.listCategoryMembers != nil {
		return m.listCategoryMembers(category, cont, limit)
	}
	return nil, "", nil
}

func (m *mockCommonsClient) FetchImageInfo(titles []string) (map[string]commons.ImageInfo, error) {
	if m.fetchImageInfo != nil {
		return m.fetchImageInfo(titles)
	}
	return map[string]commons.ImageInfo{}, nil
}

func (m *mockCommonsClient) DownloadFile(fileURL string) ([]byte, error) {
	if m.downloadFile != nil {
		return m.downloadFile(fileURL)
	}
	return []byte("image data"), nil
}

func fileMember(title string) commons.CategoryMember {
	return commons.CategoryMember{NS: 6, Title: title}
}

// newTestScraper wires a scraper around a mock client, with storage in
// a temporary directory
func newTestScraper(t *testing.T, client CommonsClient) *Scraper {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Fetch.OutputDirectory = filepath.Join(t.TempDir(), "animals")
	cfg.RateLimit.WalkPause = 0
	cfg.RateLimit.BatchPause = 0

	store, err := storage.NewManager(cfg.Fetch.OutputDirectory)
	require.NoError(t, err)

	log := logger.NewNopLogger()
	return &Scraper{
		client: client,
		store:  store,
		walker: walker.New(client, cfg.Fetch.MaxDepth, 0, log),
		config: cfg,
		logger: log,
	}
}

func TestNew(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Fetch.OutputDirectory = filepath.Join(t.TempDir(), "animals")
	cfg.Cache.Path = filepath.Join(t.TempDir(), "cache.db")

	s, err := New(cfg)
	require.NoError(t, err)
	assert.NotNil(t, s.client)
	assert.NotNil(t, s.store)
	assert.NotNil(t, s.walker)
	assert.NotNil(t, s.cache)
	assert.Equal(t, cfg, s.config)
	assert.NoError(t, s.Close())
}

func TestNewInvalidRateLimitStrategy(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Fetch.OutputDirectory = filepath.Join(t.TempDir(), "animals")
	cfg.RateLimit.Strategy = "leaky_bucket"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNewCacheFailureIsNotFatal(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Fetch.OutputDirectory = filepath.Join(t.TempDir(), "animals")
	cfg.Cache.Path = filepath.Join(t.TempDir(), "missing", "nested", "cache.db")

	s, err := New(cfg)
	require.NoError(t, err)
	assert.Nil(t, s.cache, "scraper runs without a cache when it cannot open")
	assert.NoError(t, s.Close())
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"spaces become underscores", "Lion photo.jpg", "Lion_photo.jpg"},
		{"parentheses stripped", "Lion (cropped).JPG", "Lion_cropped.JPG"},
		{"percent escapes lose the percent", "Fox_%28cub%29.jpg", "Fox_28cub29.jpg"},
		{"unicode stripped", "Löwe.jpg", "Lwe.jpg"},
		{"allowed characters kept", "Zebra_crossing-1.v2.jpg", "Zebra_crossing-1.v2.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestDedupe(t *testing.T) {
	in := []string{"File:B.jpg", "File:A.jpg", "File:B.jpg", "File:C.jpg", "File:A.jpg"}
	assert.Equal(t, []string{"File:B.jpg", "File:A.jpg", "File:C.jpg"}, dedupe(in))

	assert.Nil(t, dedupe(nil))
	assert.Equal(t, []string{"File:A.jpg"}, dedupe([]string{"File:A.jpg"}))
}

func TestFilterItem(t *testing.T) {
	s := newTestScraper(t, &mockCommonsClient{})
	s.config.Fetch.ExcludeKeywords = []string{"insect", "spider"}
	s.config.Fetch.ExcludeExtensions = []string{".svg"}

	tests := []struct {
		name   string
		title  string
		info   commons.ImageInfo
		reason string
	}{
		{
			name:   "missing url",
			title:  "File:NoURL.jpg",
			info:   commons.ImageInfo{Width: 1000, Height: 1000},
			reason: "missing url",
		},
		{
			name:   "both dimensions too small",
			title:  "File:Small.jpg",
			info:   commons.ImageInfo{URL: "https://upload.example/Small.jpg", Width: 500, Height: 500},
			reason: "too small",
		},
		{
			name:  "one large dimension passes",
			title: "File:Tall.jpg",
			info:  commons.ImageInfo{URL: "https://upload.example/Tall.jpg", Width: 500, Height: 700},
		},
		{
			name:   "excluded extension",
			title:  "File:Diagram.svg",
			info:   commons.ImageInfo{URL: "https://upload.example/Diagram.svg", Width: 1000, Height: 1000},
			reason: "excluded extension",
		},
		{
			name:   "excluded keyword in title",
			title:  "File:Giant spider on web.jpg",
			info:   commons.ImageInfo{URL: "https://upload.example/Web.jpg", Width: 1000, Height: 1000},
			reason: "excluded keyword",
		},
		{
			name:   "excluded keyword in filename",
			title:  "File:Unlabeled.jpg",
			info:   commons.ImageInfo{URL: "https://upload.example/Stick_insect.jpg", Width: 1000, Height: 1000},
			reason: "excluded keyword",
		},
		{
			name:  "passes all filters",
			title: "File:Lion portrait.jpg",
			info:  commons.ImageInfo{URL: "https://upload.example/Lion_portrait.jpg", Width: 1024, Height: 768},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reason, s.filterItem(tt.title, tt.info))
		})
	}
}

func TestFilterItemIncludeList(t *testing.T) {
	s := newTestScraper(t, &mockCommonsClient{})
	s.config.Fetch.IncludeKeywords = []string{"lion", "tiger"}

	info := commons.ImageInfo{URL: "https://upload.example/Lion.jpg", Width: 1000, Height: 1000}
	assert.Equal(t, "", s.filterItem("File:Lion.jpg", info))

	other := commons.ImageInfo{URL: "https://upload.example/Zebra.jpg", Width: 1000, Height: 1000}
	assert.Equal(t, "not in include list", s.filterItem("File:Zebra.jpg", other))
}

func TestFetchCategories(t *testing.T) {
	var infoTitles []string
	client := &mockCommonsClient{
		listCategoryMembers: func(category, cont string, limit int) ([]commons.CategoryMember, string, error) {
			return []commons.CategoryMember{
				fileMember("File:Lion waiting (Namibia).jpg"),
				fileMember("File:Small bird.jpg"),
				fileMember("File:Broken download.jpg"),
			}, "", nil
		},
		fetchImageInfo: func(titles []string) (map[string]commons.ImageInfo, error) {
			infoTitles = titles
			return map[string]commons.ImageInfo{
				"File:Lion waiting (Namibia).jpg": {
					URL:    "https://upload.example/Lion_waiting_%28Namibia%29.jpg",
					Width:  1280,
					Height: 960,
					ExtMetadata: map[string]commons.ExtMetadataValue{
						"LicenseShortName": {Value: "CC BY-SA 4.0"},
						"Artist":           {Value: " Jane Doe "},
						"Credit":           {Value: "Own work"},
					},
				},
				"File:Small bird.jpg": {
					URL:    "https://upload.example/Small_bird.jpg",
					Width:  320,
					Height: 240,
				},
				"File:Broken download.jpg": {
					URL:    "https://upload.example/Broken_download.jpg",
					Width:  800,
					Height: 800,
				},
			}, nil
		},
		downloadFile: func(fileURL string) ([]byte, error) {
			if strings.Contains(fileURL, "Broken") {
				return nil, errors.New("connection reset")
			}
			return []byte("image bytes"), nil
		},
	}

	s := newTestScraper(t, client)
	report, err := s.FetchCategories([]string{"Featured pictures of mammals"})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Examined)
	assert.Equal(t, 2, report.Kept)
	assert.Equal(t, 1, report.Downloaded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, map[string]int{"too small": 1}, report.Skipped)
	assert.Equal(t, []string{
		"File:Lion waiting (Namibia).jpg",
		"File:Small bird.jpg",
		"File:Broken download.jpg",
	}, infoTitles)

	// The saved file keeps the sanitized URL basename
	savedPath := filepath.Join(s.store.GetOutputDir(), "Lion_waiting_28Namibia29.jpg")
	data, err := os.ReadFile(savedPath)
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(data))

	// The failed download leaves nothing behind
	_, err = os.Stat(filepath.Join(s.store.GetOutputDir(), "Broken_download.jpg"))
	assert.True(t, os.IsNotExist(err))

	// The CSV carries the header and one provenance row, with
	// extmetadata values trimmed
	f, err := os.Open(report.CSVPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"filename", "source_url", "license", "artist", "credit"}, rows[0])
	assert.Equal(t, []string{
		"Lion_waiting_28Namibia29.jpg",
		"https://upload.example/Lion_waiting_%28Namibia%29.jpg",
		"CC BY-SA 4.0",
		"Jane Doe",
		"Own work",
	}, rows[1])
}

func TestFetchCategoriesNoImages(t *testing.T) {
	s := newTestScraper(t, &mockCommonsClient{})

	report, err := s.FetchCategories([]string{"Category:Empty"})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Examined)
	assert.Empty(t, report.CSVPath)

	// No CSV is created when nothing was found
	_, err = os.Stat(storage.MetadataPathFor(s.store.GetOutputDir()))
	assert.True(t, os.IsNotExist(err))
}

func TestFetchCategoriesListingErrorIsFatal(t *testing.T) {
	client := &mockCommonsClient{
		listCategoryMembers: func(category, cont string, limit int) ([]commons.CategoryMember, string, error) {
			return nil, "", errors.New("api down")
		},
	}

	s := newTestScraper(t, client)
	_, err := s.FetchCategories([]string{"Category:Mammals"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api down")
}

func TestFetchCategoriesMetadataErrorIsFatal(t *testing.T) {
	client := &mockCommonsClient{
		listCategoryMembers: func(category, cont string, limit int) ([]commons.CategoryMember, string, error) {
			return []commons.CategoryMember{fileMember("File:A.jpg")}, "", nil
		},
		fetchImageInfo: func(titles []string) (map[string]commons.ImageInfo, error) {
			return nil, errors.New("batch failed")
		},
	}

	s := newTestScraper(t, client)
	_, err := s.FetchCategories([]string{"Category:Mammals"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch failed")
}

func TestFetchCategoriesLimitSpansCategories(t *testing.T) {
	var listedCategories []string
	client := &mockCommonsClient{
		listCategoryMembers: func(category, cont string, limit int) ([]commons.CategoryMember, string, error) {
			listedCategories = append(listedCategories, category)
			return []commons.CategoryMember{
				fileMember("File:A.jpg"),
				fileMember("File:B.jpg"),
			}, "", nil
		},
	}

	s := newTestScraper(t, client)
	s.config.Fetch.Limit = 2

	report, err := s.FetchCategories([]string{"Category:One", "Category:Two"})
	require.NoError(t, err)

	// The first category filled the budget, the second is never listed
	assert.Equal(t, []string{"Category:One"}, listedCategories)
	assert.Equal(t, 2, report.Examined)
	assert.Equal(t, map[string]int{"no metadata": 2}, report.Skipped)
	assert.NotEmpty(t, report.CSVPath)
}

func TestFetchCategoriesDeduplicatesTitles(t *testing.T) {
	var infoTitles []string
	client := &mockCommonsClient{
		listCategoryMembers: func(category, cont string, limit int) ([]commons.CategoryMember, string, error) {
			if category == "Category:One" {
				return []commons.CategoryMember{fileMember("File:Dup.jpg")}, "", nil
			}
			return []commons.CategoryMember{
				fileMember("File:Dup.jpg"),
				fileMember("File:Other.jpg"),
			}, "", nil
		},
		fetchImageInfo: func(titles []string) (map[string]commons.ImageInfo, error) {
			infoTitles = titles
			return map[string]commons.ImageInfo{}, nil
		},
	}

	s := newTestScraper(t, client)
	report, err := s.FetchCategories([]string{"Category:One", "Category:Two"})
	require.NoError(t, err)

	assert.Equal(t, []string{"File:Dup.jpg", "File:Other.jpg"}, infoTitles)
	assert.Equal(t, 2, report.Examined)
}
