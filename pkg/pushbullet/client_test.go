package pushbullet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andrew-pixel/Stock-Alerts/pkg/types"
)

// go test -v --run TestSend
func TestSend(t *testing.T) {
	var got push
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/pushes" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Access-Token") != "token" || r.Header.Get("Authorization") != "Bearer token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"active":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token", srv.Client())
	if err := client.Send(context.Background(), "AAPL +5.00%", "Price: $105.00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != "note" || got.Title != "AAPL +5.00%" || got.Body != "Price: $105.00" {
		t.Errorf("unexpected push: %+v", got)
	}
}

// go test -v --run TestSendFailure
func TestSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Access token is missing or invalid."}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad", srv.Client())
	err := client.Send(context.Background(), "t", "b")
	if !errors.Is(err, types.ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
}
