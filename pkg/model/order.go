package model

import "time"

// Order links a paid VJD order to the ShipSec draft order created for it.
// ShopifyOrderID is the VJD order id; the two *Number fields are filled in as
// the corresponding orders materialize on each store.
type Order struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ShopifyOrderID string    `gorm:"column:shopify_order_id;unique;not null"`
	ValidationCode string    `gorm:"column:validation_code;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	VJDOrderNumber string    `gorm:"column:vjd_order_number"`
	ShipSecNumber  string    `gorm:"column:shipsec_number"`
}

func (Order) TableName() string {
	return "orders"
}
