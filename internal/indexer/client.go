// Package indexer provides a rate-bounded client for the Algorand indexer API.
// It exposes the four read operations the dashboard consumes: account asset
// listing, per-asset parameter lookup, and address/asset-scoped transaction
// search. Transient upstream failures surface as ErrUpstreamUnavailable so
// callers can decide whether to retry.
package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nft-dashboard/internal/models"
	"github.com/nft-dashboard/internal/types"
	"golang.org/x/time/rate"
)

var (
	// ErrUpstreamUnavailable marks a transient network or API failure.
	ErrUpstreamUnavailable = errors.New("indexer unavailable")
	// ErrAssetNotFound marks a permanently missing asset. Never retried.
	ErrAssetNotFound = errors.New("asset not found")
)

const tokenHeader = "X-Indexer-API-Token"

// Client is a rate-bounded facade over the indexer HTTP API.
// It keeps no state between calls beyond the shared HTTP client and limiter.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
}

// Config holds indexer client construction parameters.
type Config struct {
	BaseURL           string
	Token             string
	RequestsPerSecond int
	Timeout           time.Duration
}

// NewClient creates a new indexer client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("indexer base URL cannot be empty")
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 30
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// accountResponse wraps the indexer account lookup payload.
type accountResponse struct {
	Account struct {
		Assets []models.AssetHolding `json:"assets"`
	} `json:"account"`
}

// assetResponse wraps the indexer asset lookup payload.
type assetResponse struct {
	Asset struct {
		Index  int64              `json:"index"`
		Params models.AssetParams `json:"params"`
	} `json:"asset"`
}

// transactionsResponse wraps the indexer transaction search payload.
type transactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

// ListHeldAssets returns the raw asset holdings of a wallet.
func (c *Client) ListHeldAssets(ctx context.Context, wallet string) ([]models.AssetHolding, error) {
	endpoint := fmt.Sprintf("/v2/accounts/%s", url.PathEscape(wallet))

	body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp accountResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode account response: %w", err)
	}

	return resp.Account.Assets, nil
}

// LookupAssetParams returns the on-chain configuration of one asset.
// A missing asset is reported as ErrAssetNotFound and must not be retried.
func (c *Client) LookupAssetParams(ctx context.Context, assetID int64) (*models.AssetParams, error) {
	endpoint := fmt.Sprintf("/v2/assets/%d", assetID)

	body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var resp assetResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode asset response: %w", err)
	}

	params := resp.Asset.Params
	return &params, nil
}

// SearchTransactionsByAddress returns a wallet's transactions filtered by type.
func (c *Client) SearchTransactionsByAddress(ctx context.Context, wallet string, txType types.TxnType, limit int) ([]models.Transaction, error) {
	endpoint := fmt.Sprintf("/v2/accounts/%s/transactions", url.PathEscape(wallet))

	query := url.Values{}
	if txType != "" {
		query.Set("tx-type", string(txType))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	return c.searchTransactions(ctx, endpoint, query)
}

// SearchOptions scopes an asset transaction search.
type SearchOptions struct {
	TxType  types.TxnType
	Limit   int
	Address string // optional wallet scope
}

// SearchTransactionsByAsset returns transactions touching one asset.
func (c *Client) SearchTransactionsByAsset(ctx context.Context, assetID int64, opts SearchOptions) ([]models.Transaction, error) {
	query := url.Values{}
	query.Set("asset-id", strconv.FormatInt(assetID, 10))
	if opts.TxType != "" {
		query.Set("tx-type", string(opts.TxType))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Address != "" {
		query.Set("address", opts.Address)
	}

	return c.searchTransactions(ctx, "/v2/transactions", query)
}

func (c *Client) searchTransactions(ctx context.Context, endpoint string, query url.Values) ([]models.Transaction, error) {
	body, err := c.get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	var resp transactionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode transaction search response: %w", err)
	}

	return resp.Transactions, nil
}

// get performs a rate-bounded GET and maps HTTP outcomes onto the error
// taxonomy: network errors, 5xx and 429 are transient; 404 is permanent.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	requestURL := c.baseURL + endpoint
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, endpoint)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d from %s", ErrUpstreamUnavailable, resp.StatusCode, endpoint)
	default:
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrUpstreamUnavailable, err)
	}

	return body, nil
}

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable)
}
