package models

import "github.com/shopspring/decimal"

// OrderItem is one line of an order
type OrderItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"not null;index" json:"order_id"`
	ItemName      *string         `gorm:"size:255;not null" json:"item_name"`
	Quantity      *int            `gorm:"not null" json:"quantity"`
	CustomOptions *string         `gorm:"type:text" json:"custom_options"` // opaque modifiers, e.g. "less ice"
	Price         decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"price"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
