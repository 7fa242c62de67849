package reputation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/phishlens/internal/model"
	"github.com/ppiankov/phishlens/internal/util"
	"github.com/ppiankov/phishlens/internal/worker"
)

// DefaultBaseURL is the public VirusTotal v3 endpoint
const DefaultBaseURL = "https://www.virustotal.com/api/v3"

// requestsPerLookup is the number of API calls one lookup makes (submit + analysis)
const requestsPerLookup = 2

// ErrNoAPIKey is returned when no VirusTotal key is configured
var ErrNoAPIKey = errors.New("VirusTotal API key not configured")

// Client talks to the VirusTotal v3 URL analysis API
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *worker.Limiter
}

// VirusTotal API structures
type submitResponse struct {
	Data struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"data"`
}

type analysisResponse struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Status string `json:"status"`
			Stats  struct {
				Malicious  int `json:"malicious"`
				Suspicious int `json:"suspicious"`
				Harmless   int `json:"harmless"`
				Undetected int `json:"undetected"`
				Timeout    int `json:"timeout"`
			} `json:"stats"`
		} `json:"attributes"`
	} `json:"data"`
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a VirusTotal client. A nil limiter disables pacing.
func NewClient(cfg model.ReputationConfig, httpCfg model.HTTPConfig, limiter *worker.Limiter) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  httpCfg.UserAgent,
		httpClient: util.NewHTTPClient(httpCfg, timeout),
		limiter:    limiter,
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// Submit queues rawURL for analysis and returns the analysis id
func (c *Client) Submit(ctx context.Context, rawURL string) (string, error) {
	if !c.Configured() {
		return "", ErrNoAPIKey
	}

	form := url.Values{}
	form.Set("url", rawURL)

	endpoint := c.baseURL + "/urls"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp submitResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("submit url: %w", err)
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("submit url: response carried no analysis id")
	}

	return resp.Data.ID, nil
}

// Analysis fetches the current state of an analysis
func (c *Client) Analysis(ctx context.Context, id string) (*model.ReputationStats, error) {
	if !c.Configured() {
		return nil, ErrNoAPIKey
	}

	endpoint := c.baseURL + "/analyses/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var resp analysisResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("fetch analysis: %w", err)
	}

	attrs := resp.Data.Attributes
	return &model.ReputationStats{
		AnalysisID: id,
		Status:     attrs.Status,
		Malicious:  attrs.Stats.Malicious,
		Suspicious: attrs.Stats.Suspicious,
		Harmless:   attrs.Stats.Harmless,
		Undetected: attrs.Stats.Undetected,
		Timeout:    attrs.Stats.Timeout,
	}, nil
}

// WaitQuota blocks until the quota allows one full lookup. It is called
// before the per-lookup deadline starts so pacing never eats into it.
func (c *Client) WaitQuota(ctx context.Context) error {
	if err := c.limiter.WaitN(ctx, c.baseURL, requestsPerLookup); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// do sends an authenticated request and decodes a 2xx JSON body into out
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("x-apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Code != "" {
			return fmt.Errorf("API error (%d): %s - %s", resp.StatusCode, apiErr.Error.Code, apiErr.Error.Message)
		}
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
