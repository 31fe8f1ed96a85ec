package kalshi

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.elections.kalshi.com/trade-api/v2".
	BaseURL           string
	APIKeyID          string
	Timeout           time.Duration
	RequestsPerSecond float64
	PageSize          int
	// MaxPages bounds cursor pagination per series; 0 means 20.
	MaxPages int
	// SportSeries maps a sport to the series tickers listing its games,
	// e.g. nfl -> ["KXNFLGAME", "KXNFLSPREAD"].
	SportSeries map[domain.Sport][]string
}

// Client is the REST client for the Kalshi exchange API. Market data is
// public; requests are signed only when an RSA key has been configured.
type Client struct {
	baseURL    string
	basePath   string
	apiKeyID   string
	privateKey *rsa.PrivateKey
	pageSize   int
	maxPages   int
	series     map[domain.Sport][]string
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewClient creates a new Kalshi REST client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 20
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	basePath := ""
	if u, err := url.Parse(cfg.BaseURL); err == nil {
		basePath = strings.TrimSuffix(u.Path, "/")
	}

	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		basePath: basePath,
		apiKeyID: cfg.APIKeyID,
		pageSize: pageSize,
		maxPages: maxPages,
		series:   cfg.SportSeries,
		limiter:  rate.NewLimiter(limit, 1),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetRSAPrivateKey loads an RSA private key from PEM-encoded bytes and
// configures the client for RSA-signed authentication.
func (c *Client) SetRSAPrivateKey(pemBytes []byte) error {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return fmt.Errorf("kalshi: no PEM block found in private key")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		pkcs1Key, pkcs1Err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if pkcs1Err != nil {
			return fmt.Errorf("kalshi: parse private key: %w (pkcs1: %v)", err, pkcs1Err)
		}
		c.privateKey = pkcs1Key
		return nil
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return fmt.Errorf("kalshi: expected RSA private key, got %T", key)
	}
	c.privateKey = rsaKey
	return nil
}

// Platform implements domain.MarketSource.
func (c *Client) Platform() domain.Platform { return domain.PlatformKalshi }

// FetchRecords implements domain.MarketSource. It walks every series
// configured for sport and returns the open markets as raw records.
func (c *Client) FetchRecords(ctx context.Context, sport domain.Sport) ([]domain.RawRecord, error) {
	series, ok := c.series[sport]
	if !ok || len(series) == 0 {
		return nil, fmt.Errorf("kalshi: %q: %w", sport, domain.ErrUnknownSport)
	}

	var records []domain.RawRecord
	for _, s := range series {
		cursor := ""
		for page := 0; page < c.maxPages; page++ {
			resp, err := c.GetMarkets(ctx, s, c.pageSize, cursor)
			if err != nil {
				return nil, err
			}
			for i := range resp.Markets {
				records = append(records, resp.Markets[i].ToRecord())
			}
			if resp.Cursor == "" || len(resp.Markets) == 0 {
				break
			}
			cursor = resp.Cursor
		}
	}
	return records, nil
}

// GetMarkets returns one page of open markets in a series.
func (c *Client) GetMarkets(ctx context.Context, seriesTicker string, limit int, cursor string) (KalshiMarketsPage, error) {
	params := url.Values{}
	params.Set("series_ticker", seriesTicker)
	params.Set("status", "open")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/markets", params)
	if err != nil {
		return KalshiMarketsPage{}, fmt.Errorf("kalshi: get markets %s: %w", seriesTicker, err)
	}

	var resp KalshiMarketsPage
	if err := json.Unmarshal(body, &resp); err != nil {
		return KalshiMarketsPage{}, fmt.Errorf("kalshi: decode markets: %w", err)
	}
	return resp, nil
}

// GetMarket returns a single market by its ticker.
func (c *Client) GetMarket(ctx context.Context, ticker string) (KalshiMarket, error) {
	path := fmt.Sprintf("/markets/%s", url.PathEscape(ticker))

	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return KalshiMarket{}, fmt.Errorf("kalshi: get market %s: %w", ticker, err)
	}

	var resp struct {
		Market KalshiMarket `json:"market"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return KalshiMarket{}, fmt.Errorf("kalshi: decode market: %w", err)
	}
	return resp.Market, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.privateKey != nil {
		if err := c.signRequest(req, method, c.basePath+path); err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w: %w", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkStatus(resp.StatusCode, respBody); err != nil {
		return nil, err
	}
	return respBody, nil
}

// signRequest adds RSA authentication headers to the HTTP request.
// Kalshi uses RSA-PSS-SHA256 signatures over timestamp + method + path,
// where path excludes the query string.
func (c *Client) signRequest(req *http.Request, method, path string) error {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	message := ts + method + path

	hash := sha256.Sum256([]byte(message))
	signature, err := rsa.SignPSS(rand.Reader, c.privateKey, crypto.SHA256, hash[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	if err != nil {
		return fmt.Errorf("RSA sign: %w", err)
	}

	req.Header.Set("KALSHI-ACCESS-KEY", c.apiKeyID)
	req.Header.Set("KALSHI-ACCESS-SIGNATURE", base64.StdEncoding.EncodeToString(signature))
	req.Header.Set("KALSHI-ACCESS-TIMESTAMP", ts)
	return nil
}

// checkStatus maps non-2xx HTTP status codes to domain errors.
func checkStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var apiErr KalshiErrorResponse
	_ = json.Unmarshal(body, &apiErr)

	switch {
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, apiErr)
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, apiErr)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, apiErr)
	case statusCode >= 500:
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrUpstreamUnavailable, statusCode, apiErr)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, apiErr)
	}
}
