package postgres

import "github.com/shopspring/decimal"

// StockRecord maps a row of the stocks table.
type StockRecord struct {
	Name      string          `gorm:"column:name;type:text;primaryKey"`
	LastPrice decimal.Decimal `gorm:"column:lastprice;type:numeric;not null"`
}

// TableName overrides the default table name for GORM.
func (StockRecord) TableName() string {
	return "stocks"
}

// AlertRecord maps a row of the alerts table. The table has no surrogate
// key; a row is identified by name and target price.
type AlertRecord struct {
	Name        string          `gorm:"column:name;type:text;not null;index:idx_alert_name_target"`
	TargetPrice decimal.Decimal `gorm:"column:targetprice;type:numeric;not null;index:idx_alert_name_target"`
	Direction   int             `gorm:"column:direction;not null"`
}

// TableName overrides the default table name for GORM.
func (AlertRecord) TableName() string {
	return "alerts"
}
