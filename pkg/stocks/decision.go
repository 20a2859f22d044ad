package stocks

import (
	"fmt"

	"github.com/andrew-pixel/Stock-Alerts/pkg/types"
	"github.com/shopspring/decimal"
)

// EventClose marks the end-of-day invocation that refreshes every baseline
const EventClose = "close"

var (
	significantMove = decimal.RequireFromString("0.04")
	hundred         = decimal.NewFromInt(100)
)

// Action is what an evaluation decided to do with a stock or alert
type Action string

const (
	ActionNone            Action = "none"
	ActionSignificantMove Action = "significant_move"
	ActionBaselineRefresh Action = "baseline_refresh"
	ActionSeedBaseline    Action = "seed_baseline"
	ActionAlertPending    Action = "alert_pending"
	ActionAlertTriggered  Action = "alert_triggered"
)

// StockDecision is the outcome of comparing a fresh quote to the baseline
type StockDecision struct {
	Action Action
	// Change is the relative move, 0.05 for 5%. Zero for seeded baselines.
	Change decimal.Decimal
	Rising bool
}

// UpdateBaseline reports whether the stored price should be replaced
func (d StockDecision) UpdateBaseline() bool {
	switch d.Action {
	case ActionSignificantMove, ActionBaselineRefresh, ActionSeedBaseline:
		return true
	}
	return false
}

// Notify reports whether the move is worth a push
func (d StockDecision) Notify() bool {
	return d.Action == ActionSignificantMove
}

// PercentChange returns Change scaled to percent
func (d StockDecision) PercentChange() decimal.Decimal {
	return d.Change.Mul(hundred)
}

// RelativeChange computes |current - previous| / previous.
// A baseline that is zero or negative cannot be compared against.
func RelativeChange(previous, current decimal.Decimal) (decimal.Decimal, error) {
	if !previous.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", types.ErrInvalidBaseline, previous)
	}
	return current.Sub(previous).Abs().Div(previous), nil
}

// EvaluateStock decides what to do with a tracked stock given its baseline,
// the latest close and the invocation's event type
func EvaluateStock(previous, current decimal.Decimal, eventType string) StockDecision {
	rising := current.GreaterThanOrEqual(previous)

	change, err := RelativeChange(previous, current)
	if err != nil {
		return StockDecision{Action: ActionSeedBaseline, Rising: rising}
	}

	switch {
	case change.GreaterThan(significantMove):
		return StockDecision{Action: ActionSignificantMove, Change: change, Rising: rising}
	case eventType == EventClose:
		return StockDecision{Action: ActionBaselineRefresh, Change: change, Rising: rising}
	default:
		return StockDecision{Action: ActionNone, Change: change, Rising: rising}
	}
}

// AlertTriggered reports whether the price has crossed the alert's target
// in the alert's direction. Touching the target exactly does not fire.
func AlertTriggered(alert types.PriceAlert, current decimal.Decimal) bool {
	if alert.Direction == types.Above {
		return current.GreaterThan(alert.TargetPrice)
	}
	return current.LessThan(alert.TargetPrice)
}

// MoveNotification formats the push for a significant move
func MoveNotification(symbol string, d StockDecision, current decimal.Decimal) (title, body string) {
	sign := "+"
	if !d.Rising {
		sign = "-"
	}
	title = fmt.Sprintf("%s %s%s%%", symbol, sign, d.PercentChange().StringFixed(2))
	body = fmt.Sprintf("Price: $%s", current.StringFixed(2))
	return title, body
}

// AlertNotification formats the push for a triggered alert
func AlertNotification(alert types.PriceAlert, current decimal.Decimal) (title, body string) {
	title = fmt.Sprintf("%s Hit target alert price $%s", alert.Name, alert.TargetPrice.StringFixed(2))
	body = fmt.Sprintf("Current Price: $%s", current.StringFixed(2))
	return title, body
}
