package openfoodfacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/grocysync/importer/internal/domain"
	"github.com/grocysync/importer/internal/util"
	"golang.org/x/time/rate"
)

// DefaultSearchURL is the Open Food Facts legacy search endpoint
const DefaultSearchURL = "https://world.openfoodfacts.org/cgi/search.pl"

// DefaultRequestsPerMinute is the search rate Open Food Facts asks clients to stay under
const DefaultRequestsPerMinute = 10

// maxErrorBody bounds how much of an error response is kept for logging
const maxErrorBody = 512

// Client handles communication with the Open Food Facts search API
type Client struct {
	httpClient  *http.Client
	searchURL   string
	country     string
	language    string
	rateLimiter *rate.Limiter
	debug       bool
}

// searchResponse is the subset of the search.pl JSON body we read
type searchResponse struct {
	Count    any                 `json:"count"`
	Products []domain.RawProduct `json:"products"`
}

// NewClient creates a new Open Food Facts search client
func NewClient(searchURL, country, language string) *Client {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}

	limiter := rate.NewLimiter(perMinute(DefaultRequestsPerMinute), DefaultRequestsPerMinute)

	return &Client{
		httpClient: &http.Client{
			Timeout: 25 * time.Second,
		},
		searchURL:   searchURL,
		country:     country,
		language:    language,
		rateLimiter: limiter,
	}
}

// SetRequestsPerMinute replaces the search rate limit; n <= 0 disables it
func (c *Client) SetRequestsPerMinute(n int) {
	if n <= 0 {
		c.rateLimiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	c.rateLimiter = rate.NewLimiter(perMinute(n), n)
}

func perMinute(n int) rate.Limit {
	return rate.Every(time.Minute / time.Duration(n))
}

// SetDebug enables or disables per-request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...any) {
	if c.debug {
		log.Printf("[OFF] "+format, args...)
	}
}

// Language returns the locale requested from the API
func (c *Client) Language() string {
	return c.language
}

// buildParams assembles the query string of one search request
func (c *Client) buildParams(query domain.SearchQuery) url.Values {
	params := url.Values{}
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(query.PageSize))
	params.Set("search_terms", query.Term)
	if c.country != "" {
		params.Set("countries", c.country)
	}
	if c.language != "" {
		params.Set("lc", c.language)
	}
	params.Set("sort_by", "random")
	params.Set("page", strconv.Itoa(query.Page))
	return params
}

// SearchProducts runs one search request. There is no retry: a failed
// request is reported to the caller, which decides how to continue.
func (c *Client) SearchProducts(ctx context.Context, query domain.SearchQuery) ([]domain.RawProduct, error) {
	// Wait for rate limiter
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	// Build request URL
	reqURL := fmt.Sprintf("%s?%s", c.searchURL, c.buildParams(query).Encode())
	c.debugLog("GET %s", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// OFF asks clients to identify themselves
	req.Header.Set("User-Agent", "GrocySync/1.5 (product importer)")
	req.Header.Set("Accept", "application/json")

	// Execute request, single attempt
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchFailure, err)
	}
	defer resp.Body.Close()

	// Check status code
	if resp.StatusCode != http.StatusOK {
		body, _ := readLimitedBody(resp.Body, maxErrorBody)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrSearchFailure, resp.StatusCode, string(body))
	}

	// Read body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchFailure, err)
	}

	// Parse response, keeping numbers as json.Number so barcodes stay exact
	var searchResp searchResponse
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrSearchFailure, err)
	}

	c.debugLog("%d products for %q (page %d, total %s)", len(searchResp.Products), query.Term, query.Page, util.AsString(searchResp.Count))
	return searchResp.Products, nil
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}
