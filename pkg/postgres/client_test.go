package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/andrew-pixel/Stock-Alerts/pkg/postgres"
	"github.com/shopspring/decimal"
)

func openStore(t *testing.T) *postgres.Store {
	t.Helper()
	dsn := os.Getenv("STOCKWATCH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("STOCKWATCH_TEST_POSTGRES_DSN not set")
	}

	store, err := postgres.NewStore(dsn)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	store.DB.Exec("DELETE FROM alerts WHERE name IN ('ZZTEST', 'ZZOTHER')")
	store.DB.Exec("DELETE FROM stocks WHERE name = 'ZZTEST'")
	return store
}

// go test -v --run TestStockPriceRoundTrip
func TestStockPriceRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.DB.Create(&postgres.StockRecord{Name: "ZZTEST", LastPrice: decimal.NewFromInt(100)}).Error; err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := store.UpdateStockPrice(ctx, "ZZTEST", decimal.NewFromFloat(100.005)); err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}

	stocks, err := store.ListStocks(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, s := range stocks {
		if s.Name == "ZZTEST" && !s.LastPrice.Equal(decimal.RequireFromString("100.01")) {
			t.Errorf("expected 100.01, got %s", s.LastPrice)
		}
	}
}

// go test -v --run TestDeleteAlertMatchesBothFields
func TestDeleteAlertMatchesBothFields(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	rows := []postgres.AlertRecord{
		{Name: "ZZTEST", TargetPrice: decimal.NewFromInt(145), Direction: 1},
		{Name: "ZZTEST", TargetPrice: decimal.NewFromInt(150), Direction: 1},
		{Name: "ZZOTHER", TargetPrice: decimal.NewFromInt(145), Direction: 0},
	}
	if err := store.DB.Create(&rows).Error; err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := store.DeleteAlert(ctx, "ZZTEST", decimal.NewFromInt(145)); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	alerts, err := store.ListAlerts(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	remaining := 0
	for _, a := range alerts {
		if a.Name != "ZZTEST" && a.Name != "ZZOTHER" {
			continue
		}
		remaining++
		if a.Name == "ZZTEST" && a.TargetPrice.Equal(decimal.NewFromInt(145)) {
			t.Errorf("alert should have been deleted: %+v", a)
		}
	}
	if remaining != 2 {
		t.Errorf("expected 2 remaining test alerts, got %d", remaining)
	}
}
