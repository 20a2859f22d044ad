package postgres

import (
	"context"
	"fmt"

	"github.com/andrew-pixel/Stock-Alerts/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store reads and writes the watchlist tables directly over SQL.
type Store struct {
	DB *gorm.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &Store{DB: db}, nil
}

// AutoMigrate creates the stocks and alerts tables when they are missing.
func (s *Store) AutoMigrate() error {
	if err := s.DB.AutoMigrate(&StockRecord{}, &AlertRecord{}); err != nil {
		return fmt.Errorf("auto-migrate watchlist tables: %w", err)
	}
	return nil
}

func (s *Store) ListStocks(ctx context.Context) ([]types.TrackedStock, error) {
	var records []StockRecord
	if err := s.DB.WithContext(ctx).Order("name").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list stocks: %w: %v", types.ErrDataUnavailable, err)
	}

	stocks := make([]types.TrackedStock, len(records))
	for i, r := range records {
		stocks[i] = types.TrackedStock{Name: r.Name, LastPrice: r.LastPrice}
	}
	return stocks, nil
}

func (s *Store) ListAlerts(ctx context.Context) ([]types.PriceAlert, error) {
	var records []AlertRecord
	if err := listAlertsQuery(s.DB.WithContext(ctx), &records).Error; err != nil {
		return nil, fmt.Errorf("list alerts: %w: %v", types.ErrDataUnavailable, err)
	}

	alerts := make([]types.PriceAlert, len(records))
	for i, r := range records {
		direction := types.Below
		if r.Direction == int(types.Above) {
			direction = types.Above
		}
		alerts[i] = types.PriceAlert{Name: r.Name, TargetPrice: r.TargetPrice, Direction: direction}
	}
	return alerts, nil
}

func listAlertsQuery(tx *gorm.DB, records *[]AlertRecord) *gorm.DB {
	return tx.Order("name, targetprice").Find(records)
}

func (s *Store) UpdateStockPrice(ctx context.Context, name string, price decimal.Decimal) error {
	err := s.DB.WithContext(ctx).
		Model(&StockRecord{}).
		Where("name = ?", name).
		Update("lastprice", types.RoundPrice(price)).Error
	if err != nil {
		return fmt.Errorf("update stock %s: %w", name, err)
	}
	return nil
}

// DeleteAlert removes every alert row matching both name and target price.
func (s *Store) DeleteAlert(ctx context.Context, name string, targetPrice decimal.Decimal) error {
	err := s.DB.WithContext(ctx).
		Where("name = ? AND targetprice = ?", name, targetPrice).
		Delete(&AlertRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete alert %s@%s: %w", name, targetPrice, err)
	}
	return nil
}

func (s *Store) Close() error {
	db, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	return db.Close()
}
