package alpaca

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/andrew-pixel/Stock-Alerts/pkg/types"
	"github.com/shopspring/decimal"
)

// lookback covers weekends and market holidays
const lookback = 7 * 24 * time.Hour

// LatestQuote returns the close of the most recent daily bar for a ticker
func (c *Client) LatestQuote(ctx context.Context, ticker string) (types.Quote, error) {
	if err := ctx.Err(); err != nil {
		return types.Quote{}, err
	}

	end := time.Now()
	bars, err := c.data.GetBars(ticker, marketdata.GetBarsRequest{
		Start:     end.Add(-lookback),
		End:       end,
		TimeFrame: marketdata.OneDay,
		Feed:      c.feed,
	})
	if err != nil {
		return types.Quote{}, fmt.Errorf("%w: error getting bars for %s: %v", types.ErrNoQuote, ticker, err)
	}
	if len(bars) == 0 {
		return types.Quote{}, fmt.Errorf("%w: no bars for %s", types.ErrNoQuote, ticker)
	}

	last := bars[len(bars)-1]
	if last.Close <= 0 {
		return types.Quote{}, fmt.Errorf("%w: invalid close ($%.2f) for %s", types.ErrNoQuote, last.Close, ticker)
	}
	return types.Quote{
		Symbol:     ticker,
		ClosePrice: decimal.NewFromFloat(last.Close),
		Time:       last.Timestamp,
	}, nil
}
