package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the esummary endpoint of NCBI E-utilities.
	BaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esummary.fcgi"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 3 requests per second without an API key per NCBI policy.
	RateLimit = 3.0

	// RateLimitWithKey is 10 requests per second with an API key.
	RateLimitWithKey = 10.0

	// ToolName identifies this client to NCBI.
	ToolName = "belc"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 4096
)

// Client is a rate-limited HTTP client for the PubMed esummary service.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	rateLimit  float64
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the NCBI API key, which also raises the default rate limit.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithRateLimit overrides the requests-per-second limit.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		c.rateLimit = perSecond
	}
}

// NewClient creates a new PubMed client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    BaseURL,
	}

	// Check for API key in environment
	if key := os.Getenv("NCBI_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.rateLimit <= 0 {
		c.rateLimit = RateLimit
		if c.apiKey != "" {
			c.rateLimit = RateLimitWithKey
		}
	}
	c.limiter = rate.NewLimiter(rate.Limit(c.rateLimit), 1)

	return c
}

// RequestsPerSecond returns the effective rate limit.
func (c *Client) RequestsPerSecond() float64 {
	return c.rateLimit
}

// esummaryResponse is the JSON envelope of esummary. Result holds a "uids"
// array plus one object per identifier.
type esummaryResponse struct {
	Error  string                     `json:"error,omitempty"`
	Result map[string]json.RawMessage `json:"result"`
}

// Summaries fetches document summaries for the given PubMed identifiers in
// one request. Identifiers PubMed cannot resolve come back with Error set.
func (c *Client) Summaries(ctx context.Context, ids []string) (map[string]Summary, error) {
	ids = nonEmpty(ids)
	if len(ids) == 0 {
		return map[string]Summary{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("retmode", "json")
	params.Set("tool", ToolName)
	params.Set("id", strings.Join(ids, ","))
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	var body esummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding esummary: %v", ErrInvalidResponse, err)
	}
	return parseSummaries(body)
}

func parseSummaries(body esummaryResponse) (map[string]Summary, error) {
	if body.Error != "" {
		apiErr := &APIError{StatusCode: http.StatusOK, Message: body.Error}
		if IsRateLimited(apiErr) {
			return nil, fmt.Errorf("%w: %s", ErrRateLimited, body.Error)
		}
		return nil, apiErr
	}
	if body.Result == nil {
		return nil, fmt.Errorf("%w: missing result", ErrInvalidResponse)
	}

	var uids []string
	if raw, ok := body.Result["uids"]; ok {
		if err := json.Unmarshal(raw, &uids); err != nil {
			return nil, fmt.Errorf("%w: parsing uids: %v", ErrInvalidResponse, err)
		}
	}

	summaries := make(map[string]Summary, len(uids))
	for _, uid := range uids {
		raw, ok := body.Result[uid]
		if !ok {
			summaries[uid] = Summary{UID: uid, Error: "missing from response"}
			continue
		}
		var s Summary
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: parsing summary %s: %v", ErrInvalidResponse, uid, err)
		}
		if s.UID == "" {
			s.UID = uid
		}
		summaries[uid] = s
	}
	return summaries, nil
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body, resp.StatusCode),
		}
	}
	return nil
}

// errorMessage extracts the "error" field of a JSON error body, falling back
// to the trimmed body text.
func errorMessage(body io.Reader, status int) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	var parsed struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &parsed) == nil && parsed.Error != "" {
		return parsed.Error
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

func nonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
