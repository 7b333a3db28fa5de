package store

import (
	"errors"

	"github.com/glocalvision/codebridge/pkg/model"
)

var (
	// ErrOrderNotFound is returned when an order lookup matches nothing.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderExists is returned when an order with the same Shopify order id
	// is already recorded.
	ErrOrderExists = errors.New("order already exists")
)

// OrdersStore provides order persistence
type OrdersStore interface {
	// CreateOrder inserts a new order. Returns ErrOrderExists when the
	// shopify_order_id is already recorded.
	CreateOrder(order *model.Order) error
	// GetOrderByShopifyID retrieves an order by its Shopify order id
	GetOrderByShopifyID(shopifyOrderID string) (*model.Order, error)
	// GetOrderByShipSecNumber retrieves the order linked to a ShipSec draft
	// order id
	GetOrderByShipSecNumber(shipsecNumber string) (*model.Order, error)
	// OrderExistsForVJDNumber reports whether a draft order was already
	// created for the given VJD order
	OrderExistsForVJDNumber(vjdOrderNumber string) (bool, error)
}
