package commons

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"faunafetch/pkg/logger"
	"faunafetch/pkg/ratelimit"
)

// Error types for Commons API operations
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a Commons API error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("commons %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// ResponseCache stores raw imageinfo payloads between runs so repeated
// fetches of the same titles skip the network.
type ResponseCache interface {
	Get(title string) ([]byte, bool)
	Set(title string, value []byte, ttl time.Duration) error
}

// Client is a Wikimedia Commons API client
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	apiURL     string
	limiter    ratelimit.Limiter
	cache      ResponseCache
	cacheTTL   time.Duration
	batchPause time.Duration
	logger     logger.Logger
}

// NewClient creates a new Commons API client. A nil limiter disables
// request pacing.
func NewClient(apiURL, userAgent string, timeout time.Duration, limiter ratelimit.Limiter, log logger.Logger) *Client {
	// Use default logger if none provided
	if log == nil {
		log = logger.GetLogger()
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent": userAgent,
		},
		apiURL:  apiURL,
		limiter: limiter,
		logger:  log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetHeaders sets multiple headers at once
func (c *Client) SetHeaders(headers map[string]string) {
	for key, value := range headers {
		c.headers[key] = value
	}
}

// SetCache attaches a response cache for imageinfo lookups
func (c *Client) SetCache(cache ResponseCache, ttl time.Duration) {
	c.cache = cache
	c.cacheTTL = ttl
}

// SetBatchPause sets the pause inserted after each imageinfo batch
func (c *Client) SetBatchPause(pause time.Duration) {
	c.batchPause = pause
}

// doRequest performs an HTTP request with the configured headers,
// waiting on the rate limiter first
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	// Set all headers
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	if c.limiter != nil {
		c.limiter.Wait()
	}

	// Log the request
	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Code:    0,
		}
	}

	// Log successful response
	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Code:    0,
		}
	}

	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(url string, target interface{}) error {
	resp, err := c.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Check status code
	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	// Decode JSON
	if err := json.Unmarshal(body, target); err != nil {
		// Create a preview of the body for debugging
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus checks the HTTP response status and returns appropriate errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeNotFound,
			Message: "resource not found",
			Code:    resp.StatusCode,
		}
	case http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeRateLimit,
			Message: "rate limit exceeded",
			Code:    resp.StatusCode,
		}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &Error{
			Type:    ErrorTypeServerError,
			Message: "server error",
			Code:    resp.StatusCode,
		}
	default:
		if resp.StatusCode >= 400 {
			c.logger.ErrorWithFields("unexpected API error", map[string]interface{}{
				"status": resp.StatusCode,
				"url":    resp.Request.URL.String(),
			})
			return &Error{
				Type:    ErrorTypeUnknown,
				Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
				Code:    resp.StatusCode,
			}
		}
		return nil
	}
}

// ListCategoryMembers fetches one page of members for a category.
// It returns the members, the continuation token for the next page
// (empty when the listing is exhausted) and an error.
func (c *Client) ListCategoryMembers(category, cont string, limit int) ([]CategoryMember, string, error) {
	url := CategoryMembersURL(c.apiURL, category, cont, limit)

	c.logger.DebugWithFields("listing category members", map[string]interface{}{
		"category": category,
		"limit":    limit,
		"continue": cont,
	})

	var response QueryResponse
	if err := c.GetJSON(url, &response); err != nil {
		c.logger.ErrorWithFields("failed to list category members", map[string]interface{}{
			"category": category,
			"error":    err.Error(),
		})
		return nil, "", err
	}

	if response.Error != nil {
		return nil, "", &Error{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("api error %s: %s", response.Error.Code, response.Error.Info),
			Code:    0,
		}
	}

	next := ""
	if response.Continue != nil {
		next = response.Continue.CMContinue
	}

	c.logger.DebugWithFields("listed category members", map[string]interface{}{
		"category": category,
		"members":  len(response.Query.CategoryMembers),
		"has_more": next != "",
	})

	return response.Query.CategoryMembers, next, nil
}

// FetchImageInfo fetches imageinfo for the given file titles, consulting
// the response cache first and querying the API in batches of BatchSize.
// The result is keyed by page title. Titles without imageinfo are absent.
func (c *Client) FetchImageInfo(titles []string) (map[string]ImageInfo, error) {
	result := make(map[string]ImageInfo, len(titles))

	misses := titles
	if c.cache != nil {
		misses = nil
		for _, title := range titles {
			data, ok := c.cache.Get(title)
			if !ok {
				misses = append(misses, title)
				continue
			}

			var info ImageInfo
			if err := json.Unmarshal(data, &info); err != nil {
				c.logger.WarnWithFields("discarding corrupt cache entry", map[string]interface{}{
					"title": title,
					"error": err.Error(),
				})
				misses = append(misses, title)
				continue
			}
			result[title] = info
		}

		c.logger.DebugWithFields("imageinfo cache consulted", map[string]interface{}{
			"hits":   len(result),
			"misses": len(misses),
		})
	}

	for start := 0; start < len(misses); start += BatchSize {
		end := start + BatchSize
		if end > len(misses) {
			end = len(misses)
		}
		batch := misses[start:end]

		c.logger.DebugWithFields("fetching imageinfo batch", map[string]interface{}{
			"titles": len(batch),
		})

		var response QueryResponse
		if err := c.GetJSON(ImageInfoURL(c.apiURL, batch), &response); err != nil {
			return nil, err
		}

		if response.Error != nil {
			return nil, &Error{
				Type:    ErrorTypeUnknown,
				Message: fmt.Sprintf("api error %s: %s", response.Error.Code, response.Error.Info),
				Code:    0,
			}
		}

		for _, page := range response.Query.Pages {
			if len(page.ImageInfo) == 0 {
				continue
			}
			info := page.ImageInfo[0]
			result[page.Title] = info

			if c.cache != nil {
				data, err := json.Marshal(info)
				if err != nil {
					continue
				}
				if err := c.cache.Set(page.Title, data, c.cacheTTL); err != nil {
					c.logger.WarnWithFields("failed to cache imageinfo", map[string]interface{}{
						"title": page.Title,
						"error": err.Error(),
					})
				}
			}
		}

		time.Sleep(c.batchPause)
	}

	return result, nil
}

// DownloadFile downloads a file from the given URL
func (c *Client) DownloadFile(fileURL string) ([]byte, error) {
	c.logger.DebugWithFields("downloading file", map[string]interface{}{
		"url": fileURL,
	})

	resp, err := c.Get(fileURL)
	if err != nil {
		c.logger.ErrorWithFields("failed to download file", map[string]interface{}{
			"url":   fileURL,
			"error": err.Error(),
		})
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.ErrorWithFields("failed to read file data", map[string]interface{}{
			"url":   fileURL,
			"error": err.Error(),
		})
		return nil, &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to download file: %v", err),
			Code:    0,
		}
	}

	c.logger.DebugWithFields("successfully downloaded file", map[string]interface{}{
		"url":  fileURL,
		"size": len(data),
	})

	return data, nil
}
