package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andrew-pixel/Stock-Alerts/pkg/types"
	"github.com/shopspring/decimal"
)

const restPath = "/rest/v1"

// Client talks to the PostgREST API in front of the stocks and alerts tables
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a store client for a Supabase project URL
func NewClient(projectURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	base := strings.TrimRight(projectURL, "/")
	base = strings.TrimSuffix(base, restPath)
	return &Client{
		baseURL:    base + restPath,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// ListStocks retrieves every tracked stock
func (c *Client) ListStocks(ctx context.Context) ([]types.TrackedStock, error) {
	var stocks []types.TrackedStock
	if err := c.getJSON(ctx, "/stocks", &stocks); err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	return stocks, nil
}

// ListAlerts retrieves every pending alert
func (c *Client) ListAlerts(ctx context.Context) ([]types.PriceAlert, error) {
	var alerts []types.PriceAlert
	if err := c.getJSON(ctx, "/alerts", &alerts); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// UpdateStockPrice sets the baseline price of a stock, rounded to cents
func (c *Client) UpdateStockPrice(ctx context.Context, name string, price decimal.Decimal) error {
	payload, err := json.Marshal(map[string]json.RawMessage{
		"lastprice": json.RawMessage(types.RoundPrice(price).StringFixed(2)),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	query := url.Values{}
	query.Set("name", "eq."+name)
	if err := c.do(ctx, http.MethodPatch, "/stocks", query, payload); err != nil {
		return fmt.Errorf("update stock %s: %w", name, err)
	}
	return nil
}

// DeleteAlert removes every alert matching both name and target price
func (c *Client) DeleteAlert(ctx context.Context, name string, targetPrice decimal.Decimal) error {
	query := url.Values{}
	query.Set("name", "eq."+name)
	query.Set("targetprice", "eq."+targetPrice.String())
	if err := c.do(ctx, http.MethodDelete, "/alerts", query, nil); err != nil {
		return fmt.Errorf("delete alert %s@%s: %w", name, targetPrice, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", types.ErrDataUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d, body: %s", types.ErrDataUnavailable, resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", types.ErrMalformedData, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte) error {
	req, err := c.newRequest(ctx, method, path, query, payload)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Request, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
