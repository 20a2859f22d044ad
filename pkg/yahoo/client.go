package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andrew-pixel/Stock-Alerts/pkg/types"
	"github.com/shopspring/decimal"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client reads daily closes from the Yahoo Finance chart API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// LatestQuote returns the close of the most recent daily bar for symbol.
func (c *Client) LatestQuote(ctx context.Context, symbol string) (types.Quote, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.Quote{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.Quote{}, fmt.Errorf("%w: yahoo fetch %s: %v", types.ErrNoQuote, symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Quote{}, fmt.Errorf("%w: yahoo read body: %v", types.ErrNoQuote, err)
	}
	if resp.StatusCode != http.StatusOK {
		return types.Quote{}, fmt.Errorf("%w: yahoo %s: status %d, body: %s", types.ErrNoQuote, symbol, resp.StatusCode, string(body))
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return types.Quote{}, fmt.Errorf("%w: yahoo decode: %v", types.ErrNoQuote, err)
	}
	if chart.Chart.Error != nil {
		return types.Quote{}, fmt.Errorf("%w: yahoo api error: %s", types.ErrNoQuote, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return types.Quote{}, fmt.Errorf("%w: yahoo returned no data for %s", types.ErrNoQuote, symbol)
	}

	result := chart.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	// walk back past null bars (holidays, halted sessions)
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		quote := types.Quote{
			Symbol:     symbol,
			ClosePrice: decimal.NewFromFloat(*closes[i]),
		}
		if i < len(result.Timestamp) {
			quote.Time = time.Unix(result.Timestamp[i], 0).UTC()
		}
		return quote, nil
	}
	return types.Quote{}, fmt.Errorf("%w: yahoo returned no closes for %s", types.ErrNoQuote, symbol)
}
