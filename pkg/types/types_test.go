package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

// go test -v --run TestPriceAlertDecode
func TestPriceAlertDecode(t *testing.T) {
	tests := []struct {
		raw  string
		want Direction
	}{
		{`{"name":"AAPL","targetprice":145,"direction":1}`, Above},
		{`{"name":"AAPL","targetprice":145,"direction":0}`, Below},
		{`{"name":"AAPL","targetprice":145,"direction":2}`, Below},
		{`{"name":"AAPL","targetprice":145,"direction":1.0}`, Above},
		{`{"name":"AAPL","targetprice":145,"direction":1e0}`, Above},
		{`{"name":"AAPL","targetprice":145,"direction":0.0}`, Below},
		{`{"name":"AAPL","targetprice":145,"direction":1.5}`, Below},
		{`{"name":"AAPL","targetprice":145,"direction":null}`, Below},
		{`{"name":"AAPL","targetprice":"145","direction":"above"}`, Above},
		{`{"name":"AAPL","targetprice":145.5,"direction":"Below"}`, Below},
	}
	for _, tt := range tests {
		var alert PriceAlert
		if err := json.Unmarshal([]byte(tt.raw), &alert); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.raw, err)
		}
		if alert.Direction != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.raw, tt.want, alert.Direction)
		}
		if alert.Name != "AAPL" {
			t.Errorf("%s: unexpected name %q", tt.raw, alert.Name)
		}
	}

	var alert PriceAlert
	if err := json.Unmarshal([]byte(`{"name":"AAPL","direction":"sideways"}`), &alert); err == nil {
		t.Error("expected error for unknown direction")
	}
}

// go test -v --run TestDirectionMarshal
func TestDirectionMarshal(t *testing.T) {
	out, err := json.Marshal(PriceAlert{Name: "AAPL", TargetPrice: decimal.NewFromInt(145), Direction: Above})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(out, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if string(raw["direction"]) != "1" {
		t.Errorf("expected direction 1, got %s", raw["direction"])
	}
}

// go test -v --run TestRoundPrice
func TestRoundPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{100.005, "100.01"},
		{100.004, "100"},
		{105, "105"},
		{103.456, "103.46"},
		{0.125, "0.13"},
	}
	for _, tt := range tests {
		got := RoundPrice(decimal.NewFromFloat(tt.in))
		if got.String() != tt.want {
			t.Errorf("RoundPrice(%v): expected %s, got %s", tt.in, tt.want, got)
		}
		if again := RoundPrice(got); !again.Equal(got) {
			t.Errorf("RoundPrice(%v) not stable: %s then %s", tt.in, got, again)
		}
	}
}

// go test -v --run TestMalformedMatchesUnavailable
func TestMalformedMatchesUnavailable(t *testing.T) {
	err := fmt.Errorf("list stocks: %w", ErrMalformedData)
	if !errors.Is(err, ErrMalformedData) {
		t.Error("expected ErrMalformedData to match itself")
	}
	if !errors.Is(err, ErrDataUnavailable) {
		t.Error("expected ErrMalformedData to match ErrDataUnavailable")
	}
	if errors.Is(fmt.Errorf("x: %w", ErrDataUnavailable), ErrMalformedData) {
		t.Error("ErrDataUnavailable must not match ErrMalformedData")
	}
}
