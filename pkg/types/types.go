package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TrackedStock represents a watchlist entry and its baseline price
type TrackedStock struct {
	Name      string          `json:"name"`
	LastPrice decimal.Decimal `json:"lastprice"`
}

// PriceAlert represents a standing target-price alert
type PriceAlert struct {
	Name        string          `json:"name"`
	TargetPrice decimal.Decimal `json:"targetprice"`
	Direction   Direction       `json:"direction"`
}

// Quote is the latest close price fetched for a symbol
type Quote struct {
	Symbol     string
	ClosePrice decimal.Decimal
	Time       time.Time
}

// Direction tells which side of the target an alert fires on
type Direction int

const (
	Below Direction = 0
	Above Direction = 1
)

func (d Direction) String() string {
	if d == Above {
		return "above"
	}
	return "below"
}

// MarshalJSON keeps the integer encoding the alerts table uses.
func (d Direction) MarshalJSON() ([]byte, error) {
	if d == Above {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON accepts 1/0 as stored, or "above"/"below".
// Any number not equal to 1 means Below.
func (d *Direction) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseDirection(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid direction %s: %w", data, err)
	}
	if n == "" {
		*d = Below
		return nil
	}
	value, err := decimal.NewFromString(n.String())
	if err != nil {
		return fmt.Errorf("invalid direction %s: %w", data, err)
	}
	// 1, 1.0 and 1e0 are all Above
	if value.Equal(decimal.NewFromInt(1)) {
		*d = Above
	} else {
		*d = Below
	}
	return nil
}

// ParseDirection parses "above"/"below" or "1"/"0".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "above", "1", "up":
		return Above, nil
	case "below", "0", "down":
		return Below, nil
	}
	return Below, fmt.Errorf("invalid direction %q", s)
}

// RoundPrice rounds a price to cents, half away from zero.
func RoundPrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(2)
}
