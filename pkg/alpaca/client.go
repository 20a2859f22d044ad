package alpaca

import (
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// barsGetter is the part of the market data client the provider needs
type barsGetter interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// Client provides latest daily closes from Alpaca market data
type Client struct {
	data barsGetter
	feed marketdata.Feed
}

// NewClient sets up the Alpaca market data client. An empty baseURL uses
// the SDK default endpoint.
func NewClient(apiKey, apiSecret, baseURL string) *Client {
	data := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
		BaseURL:   baseURL,
	})
	return &Client{data: data, feed: marketdata.IEX}
}
