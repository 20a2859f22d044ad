package stocks

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ItemKind string

const (
	KindStock ItemKind = "stock"
	KindAlert ItemKind = "alert"
)

// Outcome of processing one stock or alert
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// ItemResult records what happened to one stock or alert during a run.
// PreviousPrice is set for stocks, TargetPrice and Direction for alerts.
type ItemResult struct {
	Kind          ItemKind        `json:"kind"`
	Symbol        string          `json:"symbol"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
	TargetPrice   decimal.Decimal `json:"target_price"`
	Direction     string          `json:"direction,omitempty"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PercentChange decimal.Decimal `json:"percent_change"`
	Action        Action          `json:"action"`
	Outcome       Outcome         `json:"outcome"`
	Reasons       []string        `json:"reasons,omitempty"`
}

func (r *ItemResult) fail(reason string) {
	r.Outcome = OutcomeFailed
	r.Reasons = append(r.Reasons, reason)
}

// Report accumulates the results of one invocation
type Report struct {
	RunID      string       `json:"run_id"`
	EventType  string       `json:"event_type"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Results    []ItemResult `json:"results"`
	Warnings   []string     `json:"warnings,omitempty"`
}

// Count returns how many results of the given kind ended with outcome
func (r *Report) Count(kind ItemKind, outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Kind == kind && res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Find returns the results for a symbol, in processing order
func (r *Report) Find(kind ItemKind, symbol string) []ItemResult {
	var out []ItemResult
	for _, res := range r.Results {
		if res.Kind == kind && res.Symbol == symbol {
			out = append(out, res)
		}
	}
	return out
}

// Summary renders the report as the handler's response body
func (r *Report) Summary() string {
	var stocks, alerts, skipped, failed int
	for _, res := range r.Results {
		if res.Kind == KindStock {
			stocks++
		} else {
			alerts++
		}
		switch res.Outcome {
		case OutcomeSkipped:
			skipped++
		case OutcomeFailed:
			failed++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Processed %d stocks and %d alerts, skipped %d, failed %d", stocks, alerts, skipped, failed)
	for _, res := range r.Results {
		if res.Outcome == OutcomeSuccess {
			continue
		}
		fmt.Fprintf(&b, "\n  - %s %s (%s): %s", res.Kind, res.Symbol, res.Outcome, strings.Join(res.Reasons, "; "))
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "\n  ! %s", w)
	}
	return b.String()
}
