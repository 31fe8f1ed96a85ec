package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// GammaConfig configures a GammaClient.
type GammaConfig struct {
	// BaseURL is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	PageSize          int
	// MaxPages bounds pagination per sport; 0 means 20.
	MaxPages int
	// SportTags maps a sport to the Gamma tag slug listing its games.
	SportTags map[domain.Sport]string
}

// GammaClient is the REST client for the Polymarket Gamma API, which lists
// sports events and their markets.
type GammaClient struct {
	baseURL    string
	pageSize   int
	maxPages   int
	tags       map[domain.Sport]string
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewGammaClient creates a new Gamma API client.
func NewGammaClient(cfg GammaConfig) *GammaClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 20
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &GammaClient{
		baseURL:  cfg.BaseURL,
		pageSize: pageSize,
		maxPages: maxPages,
		tags:     cfg.SportTags,
		limiter:  rate.NewLimiter(limit, 1),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Platform implements domain.MarketSource.
func (g *GammaClient) Platform() domain.Platform { return domain.PlatformPolymarket }

// FetchRecords implements domain.MarketSource. It lists the open events
// tagged for sport and flattens their markets into raw records.
func (g *GammaClient) FetchRecords(ctx context.Context, sport domain.Sport) ([]domain.RawRecord, error) {
	tag, ok := g.tags[sport]
	if !ok || tag == "" {
		return nil, fmt.Errorf("polymarket/gamma: %q: %w", sport, domain.ErrUnknownSport)
	}

	var records []domain.RawRecord
	for page := 0; page < g.maxPages; page++ {
		events, err := g.GetEvents(ctx, tag, g.pageSize, page*g.pageSize)
		if err != nil {
			return nil, err
		}
		for i := range events {
			for j := range events[i].Markets {
				records = append(records, events[i].Markets[j].ToRecord())
			}
		}
		if len(events) < g.pageSize {
			break
		}
	}
	return records, nil
}

// GetEvents returns one page of open events carrying tag.
func (g *GammaClient) GetEvents(ctx context.Context, tag string, limit, offset int) ([]APIEvent, error) {
	params := url.Values{}
	params.Set("tag_slug", tag)
	params.Set("active", "true")
	params.Set("closed", "false")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	body, err := g.doGet(ctx, "/events?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("polymarket/gamma: get events: %w", err)
	}

	var events []APIEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("polymarket/gamma: decode events: %w", err)
	}
	return events, nil
}

func (g *GammaClient) doGet(ctx context.Context, path string) ([]byte, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	bodyStr := string(body)
	switch {
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bodyStr)
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, bodyStr)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, bodyStr)
	case statusCode >= 500:
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrUpstreamUnavailable, statusCode, bodyStr)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, bodyStr)
	}
}
