package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/mmcdole/cinemax/internal/domain"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"

	defaultTimeout = 15 * time.Second
	userAgent      = "Cinemax/1.0"
	maxErrorBody   = 512

	// PageSize is the fixed number of results per listing page
	PageSize = 20

	// MaxPage is the last page the list endpoints serve, whatever total_pages says
	MaxPage = 500
)

// Options configures a Client
type Options struct {
	BaseURL      string
	ImageBaseURL string

	// APIKey is a v3 key sent as the api_key query parameter.
	// AccessToken is a v4 read token sent as a bearer token and wins when both are set.
	APIKey      string
	AccessToken string

	Language string
	Region   string

	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 disables limiting
	MaxRetries int

	// RetryWaitMin/RetryWaitMax bound the backoff between retries
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Client is the catalog API client
type Client struct {
	opts    Options
	http    *retryablehttp.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a new catalog API client
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = DefaultImageBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.MaxRetries
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	rc.HTTPClient.Timeout = opts.Timeout
	rc.Logger = logger
	// Hand the final response back so status mapping sees it
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Client{
		opts:    opts,
		http:    rc,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// ImageURL builds a poster/backdrop URL ("" when the item has no image)
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "original"
	}
	return fmt.Sprintf("%s/%s%s", c.opts.ImageBaseURL, size, path)
}

// doRequest performs an authenticated GET and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	if c.opts.Language != "" && query.Get("language") == "" {
		query.Set("language", c.opts.Language)
	}
	if c.opts.AccessToken == "" && c.opts.APIKey != "" {
		query.Set("api_key", c.opts.APIKey)
	}
	reqURL := c.opts.BaseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.opts.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.AccessToken)
	}

	c.logger.Debug("catalog request", "path", path, "page", query.Get("page"))

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		c.logger.Error("catalog request failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrNetworkFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
		var er errorResponse
		if json.Unmarshal(body, &er) == nil {
			apiErr.Message = er.StatusMessage
		}
		c.logger.Error("catalog request error", "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}

	return body, nil
}

// get performs a request and decodes the JSON body into dest
func (c *Client) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "path", path, "error", err, "bodyLen", len(body))
		return fmt.Errorf("%w: %s: %v", domain.ErrDecodeFailure, path, err)
	}
	return nil
}

// FetchPage returns one page of a category listing and whether another page follows
func (c *Client) FetchPage(ctx context.Context, category domain.Category, page int) ([]ItemDTO, bool, error) {
	r, err := routeFor(category)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", err, category)
	}

	query := r.query(c.opts.Region)
	query.Set("page", strconv.Itoa(page))

	var resp PageResponse
	if err := c.get(ctx, r.path, query, &resp); err != nil {
		return nil, false, err
	}
	if resp.Results == nil && resp.TotalPages == 0 && resp.Page == 0 {
		return nil, false, fmt.Errorf("%w: %s: missing page envelope", domain.ErrDecodeFailure, r.path)
	}

	hasNext := resp.Page < min(resp.TotalPages, MaxPage)
	c.logger.Debug("fetched page", "category", category, "page", resp.Page, "totalPages", resp.TotalPages, "count", len(resp.Results))
	return resp.Results, hasNext, nil
}

// MovieDetails fetches the full record of a movie
func (c *Client) MovieDetails(ctx context.Context, id int) (*domain.MovieDetails, error) {
	var dto MovieDetailsDTO
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &dto); err != nil {
		return nil, err
	}
	return MapMovieDetails(dto), nil
}

// TvShowDetails fetches the full record of a TV show
func (c *Client) TvShowDetails(ctx context.Context, id int) (*domain.TvShowDetails, error) {
	var dto TvShowDetailsDTO
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", id), nil, &dto); err != nil {
		return nil, err
	}
	return MapTvShowDetails(dto), nil
}

// Search queries movies and shows by title. People are dropped from the results.
func (c *Client) Search(ctx context.Context, query string, page int) ([]domain.SearchResult, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, nil
	}
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("include_adult", "false")

	var resp PageResponse
	if err := c.get(ctx, "/search/multi", q, &resp); err != nil {
		return nil, false, err
	}

	results := make([]domain.SearchResult, 0, len(resp.Results))
	for _, dto := range resp.Results {
		if r, ok := MapSearchResult(dto); ok {
			results = append(results, r)
		}
	}
	return results, resp.Page < min(resp.TotalPages, MaxPage), nil
}

// Ping validates the configured credentials
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Images json.RawMessage `json:"images"`
	}
	return c.get(ctx, "/configuration", nil, &out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
