package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnspecifiedTable is stored when an order arrives without a table number
const UnspecifiedTable = "unspecified"

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Order represents one customer order placed from a table
type Order struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	TotalPrice  *decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"total_price"` // trusted as sent by the client
	TableNumber string           `gorm:"size:64;not null" json:"table_number"`
	CreatedAt   time.Time        `gorm:"index" json:"created_at"`
	Items       []OrderItem      `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderSummary is the row shape returned when listing orders
type OrderSummary struct {
	ID         uint            `json:"id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}
