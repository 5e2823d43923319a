package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Member is one entry of a category listing fixture
type Member struct {
	PageID int64
	NS     int
	Title  string
}

// ImageInfoFixture describes one file page served by the mock. An empty
// URL is filled in with a download URL served by the mock itself.
type ImageInfoFixture struct {
	URL     string
	Width   int
	Height  int
	License string
	Artist  string
	Credit  string
}

// MockCommonsServer simulates the MediaWiki API endpoints used by the
// fetcher: category member listings with cmcontinue pagination,
// batched imageinfo lookups, and file downloads.
type MockCommonsServer struct {
	server *httptest.Server

	mu             sync.RWMutex
	categories     map[string][]Member
	imageInfo      map[string]ImageInfoFixture
	images         map[string][]byte
	errorResponses map[string]int
	pageSize       int

	nextPageID       int64
	listRequests     int32
	infoRequests     int32
	downloadRequests int32
}

// NewMockCommonsServer creates a new mock Commons API server
func NewMockCommonsServer() *MockCommonsServer {
	m := &MockCommonsServer{
		categories:     make(map[string][]Member),
		imageInfo:      make(map[string]ImageInfoFixture),
		images:         make(map[string][]byte),
		errorResponses: make(map[string]int),
	}

	mux := http.NewServeMux()

	// MediaWiki API endpoint
	mux.HandleFunc("/w/api.php", m.handleAPI)

	// File download endpoint (simulated upload server)
	mux.HandleFunc("/images/", m.handleDownload)

	m.server = httptest.NewServer(mux)
	return m
}

// FileMember builds a file page member for a category fixture
func (m *MockCommonsServer) FileMember(title string) Member {
	return Member{PageID: m.allocPageID(), NS: 6, Title: title}
}

// SubcatMember builds a subcategory member for a category fixture
func (m *MockCommonsServer) SubcatMember(title string) Member {
	return Member{PageID: m.allocPageID(), NS: 14, Title: title}
}

func (m *MockCommonsServer) allocPageID() int64 {
	return atomic.AddInt64(&m.nextPageID, 1)
}

// AddCategory registers the members of a category
func (m *MockCommonsServer) AddCategory(title string, members ...Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[title] = members
}

// AddFile registers a file page with imageinfo and optional download
// bytes. Files without bytes answer downloads with 404.
func (m *MockCommonsServer) AddFile(title string, fx ImageInfoFixture, data []byte) {
	name := strings.ReplaceAll(strings.TrimPrefix(title, "File:"), " ", "_")
	if fx.URL == "" {
		fx.URL = m.server.URL + "/images/" + name
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.imageInfo[title] = fx
	if data != nil {
		m.images["/images/"+name] = data
	}
}

// SetPageSize caps the number of members per listing page so tests can
// force cmcontinue pagination. Zero serves everything in one page.
func (m *MockCommonsServer) SetPageSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageSize = n
}

// SetErrorResponse configures an endpoint to return a specific error
// code. Keys are "categorymembers", "imageinfo", or an image path such
// as "/images/Lion.jpg".
func (m *MockCommonsServer) SetErrorResponse(endpoint string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses[endpoint] = code
}

// ClearErrorResponse removes error configuration for an endpoint
func (m *MockCommonsServer) ClearErrorResponse(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.errorResponses, endpoint)
}

func (m *MockCommonsServer) getErrorResponse(endpoint string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.errorResponses[endpoint]
}

// handleAPI dispatches a MediaWiki query request
func (m *MockCommonsServer) handleAPI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("list") == "categorymembers":
		m.handleCategoryMembers(w, r)
	case q.Get("prop") == "imageinfo":
		m.handleImageInfo(w, r)
	default:
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"code": "unknown_action", "info": "unsupported query"},
		})
	}
}

type wireMember struct {
	PageID int64  `json:"pageid"`
	NS     int    `json:"ns"`
	Title  string `json:"title"`
}

func (m *MockCommonsServer) handleCategoryMembers(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.listRequests, 1)

	if code := m.getErrorResponse("categorymembers"); code > 0 {
		m.sendError(w, code)
		return
	}

	q := r.URL.Query()
	category := q.Get("cmtitle")

	m.mu.RLock()
	members := m.categories[category]
	pageSize := m.pageSize
	m.mu.RUnlock()

	// cmcontinue carries the offset into the member list
	offset := 0
	if cont := q.Get("cmcontinue"); cont != "" {
		offset, _ = strconv.Atoi(cont)
	}

	limit := len(members)
	if v, err := strconv.Atoi(q.Get("cmlimit")); err == nil && v > 0 {
		limit = v
	}
	if pageSize > 0 && pageSize < limit {
		limit = pageSize
	}

	end := offset + limit
	if end > len(members) {
		end = len(members)
	}

	page := make([]wireMember, 0, end-offset)
	for _, member := range members[offset:end] {
		page = append(page, wireMember{PageID: member.PageID, NS: member.NS, Title: member.Title})
	}

	resp := map[string]interface{}{
		"query": map[string]interface{}{"categorymembers": page},
	}
	if end < len(members) {
		resp["continue"] = map[string]string{
			"cmcontinue": strconv.Itoa(end),
			"continue":   "-||",
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (m *MockCommonsServer) handleImageInfo(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.infoRequests, 1)

	if code := m.getErrorResponse("imageinfo"); code > 0 {
		m.sendError(w, code)
		return
	}

	titles := strings.Split(r.URL.Query().Get("titles"), "|")

	pages := make(map[string]interface{}, len(titles))
	for i, title := range titles {
		m.mu.RLock()
		fx, ok := m.imageInfo[title]
		m.mu.RUnlock()

		if !ok {
			// Unknown titles come back as pages without imageinfo
			pages[strconv.Itoa(-(i + 1))] = map[string]interface{}{
				"title":   title,
				"missing": "",
			}
			continue
		}

		ext := map[string]interface{}{}
		if fx.License != "" {
			ext["LicenseShortName"] = map[string]interface{}{"value": fx.License}
		}
		if fx.Artist != "" {
			ext["Artist"] = map[string]interface{}{"value": fx.Artist}
		}
		if fx.Credit != "" {
			ext["Credit"] = map[string]interface{}{"value": fx.Credit}
		}

		pages[strconv.Itoa(i+1)] = map[string]interface{}{
			"pageid": i + 1,
			"title":  title,
			"imageinfo": []map[string]interface{}{{
				"url":            fx.URL,
				"descriptionurl": fx.URL + "?page",
				"width":          fx.Width,
				"height":         fx.Height,
				"extmetadata":    ext,
			}},
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"query": map[string]interface{}{"pages": pages},
	})
}

func (m *MockCommonsServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.downloadRequests, 1)

	if code := m.getErrorResponse(r.URL.Path); code > 0 {
		w.WriteHeader(code)
		return
	}

	m.mu.RLock()
	data, ok := m.images[r.URL.Path]
	m.mu.RUnlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// sendError sends a MediaWiki style error response
func (m *MockCommonsServer) sendError(w http.ResponseWriter, code int) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code": fmt.Sprintf("http_%d", code),
			"info": http.StatusText(code),
		},
	})
}

// GetURL returns the base URL of the mock server
func (m *MockCommonsServer) GetURL() string {
	return m.server.URL
}

// APIURL returns the MediaWiki API endpoint of the mock server
func (m *MockCommonsServer) APIURL() string {
	return m.server.URL + "/w/api.php"
}

// GetListRequests returns the number of categorymembers requests served
func (m *MockCommonsServer) GetListRequests() int {
	return int(atomic.LoadInt32(&m.listRequests))
}

// GetInfoRequests returns the number of imageinfo requests served
func (m *MockCommonsServer) GetInfoRequests() int {
	return int(atomic.LoadInt32(&m.infoRequests))
}

// GetDownloadRequests returns the number of file downloads served
func (m *MockCommonsServer) GetDownloadRequests() int {
	return int(atomic.LoadInt32(&m.downloadRequests))
}

// ResetCounters resets all request counters
func (m *MockCommonsServer) ResetCounters() {
	atomic.StoreInt32(&m.listRequests, 0)
	atomic.StoreInt32(&m.infoRequests, 0)
	atomic.StoreInt32(&m.downloadRequests, 0)
}

// Close shuts down the mock server
func (m *MockCommonsServer) Close() {
	m.server.Close()
}
