package stocks

import (
	"context"

	"github.com/andrew-pixel/Stock-Alerts/pkg/types"
	"go.uber.org/zap"
)

func (b *Bot) processStock(ctx context.Context, log *zap.Logger, stock types.TrackedStock, eventType string) ItemResult {
	result := ItemResult{
		Kind:          KindStock,
		Symbol:        stock.Name,
		PreviousPrice: stock.LastPrice,
		Action:        ActionNone,
		Outcome:       OutcomeSuccess,
	}
	log = log.With(zap.String("symbol", stock.Name))

	quote, err := b.quotes.LatestQuote(ctx, stock.Name)
	if err != nil {
		log.Warn("skipping stock, no quote", zap.Error(err))
		result.Outcome = OutcomeSkipped
		result.Reasons = append(result.Reasons, err.Error())
		return result
	}
	current := quote.ClosePrice
	result.CurrentPrice = current

	decision := EvaluateStock(stock.LastPrice, current, eventType)
	result.Action = decision.Action
	result.PercentChange = decision.PercentChange()

	log.Debug("evaluated stock",
		zap.String("previous", stock.LastPrice.String()),
		zap.String("current", current.String()),
		zap.String("change_pct", result.PercentChange.StringFixed(2)),
		zap.String("action", string(decision.Action)),
	)

	if decision.Action == ActionSeedBaseline {
		log.Warn("stored baseline is not positive, seeding from current price",
			zap.String("previous", stock.LastPrice.String()))
		result.Reasons = append(result.Reasons, "invalid baseline")
	}

	if decision.UpdateBaseline() {
		if err := b.store.UpdateStockPrice(ctx, stock.Name, types.RoundPrice(current)); err != nil {
			log.Error("failed to update baseline", zap.Error(err))
			result.fail("update: " + err.Error())
		}
	}

	if decision.Notify() {
		title, body := MoveNotification(stock.Name, decision, current)
		if err := b.notifier.Send(ctx, title, body); err != nil {
			log.Error("failed to send move notification", zap.Error(err))
			result.fail("notify: " + err.Error())
		} else {
			log.Info("sent move notification", zap.String("title", title))
		}
	}

	return result
}

func (b *Bot) processAlert(ctx context.Context, log *zap.Logger, alert types.PriceAlert) ItemResult {
	result := ItemResult{
		Kind:        KindAlert,
		Symbol:      alert.Name,
		TargetPrice: alert.TargetPrice,
		Direction:   alert.Direction.String(),
		Action:      ActionAlertPending,
		Outcome:     OutcomeSuccess,
	}
	log = log.With(zap.String("symbol", alert.Name), zap.String("target", alert.TargetPrice.String()))

	quote, err := b.quotes.LatestQuote(ctx, alert.Name)
	if err != nil {
		log.Warn("skipping alert, no quote", zap.Error(err))
		result.Outcome = OutcomeSkipped
		result.Reasons = append(result.Reasons, err.Error())
		return result
	}
	current := quote.ClosePrice
	result.CurrentPrice = current

	if !AlertTriggered(alert, current) {
		return result
	}
	result.Action = ActionAlertTriggered

	// The alert is removed even if the push fails so it cannot fire twice.
	title, body := AlertNotification(alert, current)
	if err := b.notifier.Send(ctx, title, body); err != nil {
		log.Error("failed to send alert notification", zap.Error(err))
		result.fail("notify: " + err.Error())
	} else {
		log.Info("sent alert notification", zap.String("title", title))
	}

	if err := b.store.DeleteAlert(ctx, alert.Name, alert.TargetPrice); err != nil {
		log.Error("failed to delete triggered alert", zap.Error(err))
		result.fail("delete: " + err.Error())
	}

	return result
}
