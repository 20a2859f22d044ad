package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/andrew-pixel/Stock-Alerts/pkg/types"
	"github.com/shopspring/decimal"
)

type alertRow struct {
	Name        string          `json:"name"`
	TargetPrice decimal.Decimal `json:"targetprice"`
	Direction   int             `json:"direction"`
}

// fakeREST emulates the slice of PostgREST the client uses.
type fakeREST struct {
	mu        sync.Mutex
	stocks    map[string]json.RawMessage
	alerts    []alertRow
	patches   []string
	authFails int
}

func (f *fakeREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("apikey") != "secret" || r.Header.Get("Authorization") != "Bearer secret" {
		f.authFails++
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/stocks":
		var out []map[string]json.RawMessage
		for name, price := range f.stocks {
			nameJSON, _ := json.Marshal(name)
			out = append(out, map[string]json.RawMessage{"name": nameJSON, "lastprice": price})
		}
		_ = json.NewEncoder(w).Encode(out)
	case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/alerts":
		_ = json.NewEncoder(w).Encode(f.alerts)
	case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/stocks":
		name := strings.TrimPrefix(q.Get("name"), "eq.")
		body, _ := io.ReadAll(r.Body)
		f.patches = append(f.patches, string(body))
		var payload map[string]json.RawMessage
		if err := json.Unmarshal(body, &payload); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if _, ok := f.stocks[name]; ok {
			f.stocks[name] = payload["lastprice"]
		}
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodDelete && r.URL.Path == "/rest/v1/alerts":
		name := strings.TrimPrefix(q.Get("name"), "eq.")
		target, err := decimal.NewFromString(strings.TrimPrefix(q.Get("targetprice"), "eq."))
		if err != nil {
			http.Error(w, "bad target", http.StatusBadRequest)
			return
		}
		kept := f.alerts[:0]
		for _, a := range f.alerts {
			if a.Name == name && a.TargetPrice.Equal(target) {
				continue
			}
			kept = append(kept, a)
		}
		f.alerts = kept
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func newFake() *fakeREST {
	return &fakeREST{
		stocks: map[string]json.RawMessage{"AAPL": json.RawMessage("100")},
		alerts: []alertRow{
			{Name: "AAPL", TargetPrice: decimal.NewFromInt(145), Direction: 1},
			{Name: "AAPL", TargetPrice: decimal.NewFromInt(150), Direction: 1},
			{Name: "AAPL", TargetPrice: decimal.NewFromInt(145), Direction: 0},
			{Name: "MSFT", TargetPrice: decimal.NewFromInt(145), Direction: 0},
		},
	}
}

// go test -v --run TestListStocksAndAlerts
func TestListStocksAndAlerts(t *testing.T) {
	fake := newFake()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := NewClient(srv.URL+"/", "secret", srv.Client())
	ctx := context.Background()

	stocks, err := client.ListStocks(ctx)
	if err != nil {
		t.Fatalf("ListStocks: %v", err)
	}
	if len(stocks) != 1 || stocks[0].Name != "AAPL" || !stocks[0].LastPrice.Equal(decimal.NewFromInt(100)) {
		t.Errorf("unexpected stocks: %+v", stocks)
	}

	alerts, err := client.ListAlerts(ctx)
	if err != nil {
		t.Fatalf("ListAlerts: %v", err)
	}
	if len(alerts) != 4 {
		t.Fatalf("expected 4 alerts, got %d", len(alerts))
	}
	if alerts[0].Direction != types.Above || alerts[2].Direction != types.Below {
		t.Errorf("unexpected directions: %+v", alerts)
	}
	if fake.authFails != 0 {
		t.Errorf("expected auth headers on every request, %d failed", fake.authFails)
	}
}

// go test -v --run TestUpdateStockPriceRounds
func TestUpdateStockPriceRounds(t *testing.T) {
	fake := newFake()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := NewClient(srv.URL, "secret", srv.Client())
	ctx := context.Background()

	price := decimal.NewFromFloat(100.005)
	for i := 0; i < 2; i++ {
		if err := client.UpdateStockPrice(ctx, "AAPL", price); err != nil {
			t.Fatalf("UpdateStockPrice: %v", err)
		}
	}

	if got := string(fake.stocks["AAPL"]); got != "100.01" {
		t.Errorf("expected stored price 100.01, got %s", got)
	}
	for _, body := range fake.patches {
		if body != `{"lastprice":100.01}` {
			t.Errorf("unexpected patch body %s", body)
		}
	}
}

// go test -v --run TestDeleteAlertMatchesBothFields
func TestDeleteAlertMatchesBothFields(t *testing.T) {
	fake := newFake()
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client := NewClient(srv.URL, "secret", srv.Client())
	if err := client.DeleteAlert(context.Background(), "AAPL", decimal.NewFromInt(145)); err != nil {
		t.Fatalf("DeleteAlert: %v", err)
	}

	if len(fake.alerts) != 2 {
		t.Fatalf("expected 2 remaining alerts, got %+v", fake.alerts)
	}
	for _, a := range fake.alerts {
		if a.Name == "AAPL" && a.TargetPrice.Equal(decimal.NewFromInt(145)) {
			t.Errorf("alert should have been deleted: %+v", a)
		}
	}
}

// go test -v --run TestListErrors
func TestListErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		malformed bool
	}{
		{"malformed", http.StatusOK, `{"not":"a list"`, true},
		{"server error", http.StatusInternalServerError, `oops`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "secret", srv.Client())
			_, err := client.ListStocks(context.Background())
			if !errors.Is(err, types.ErrDataUnavailable) {
				t.Fatalf("expected ErrDataUnavailable, got %v", err)
			}
			if errors.Is(err, types.ErrMalformedData) != tt.malformed {
				t.Errorf("malformed match = %v, want %v (%v)", !tt.malformed, tt.malformed, err)
			}
		})
	}
}

// go test -v --run TestWriteFailure
func TestWriteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", srv.Client())
	err := client.UpdateStockPrice(context.Background(), "AAPL", decimal.NewFromInt(1))
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("expected 403 error, got %v", err)
	}
	if err := client.DeleteAlert(context.Background(), "AAPL", decimal.NewFromInt(1)); err == nil {
		t.Error("expected delete error")
	}
}
