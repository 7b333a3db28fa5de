package gorm

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/glocalvision/codebridge/pkg/model"
	"github.com/glocalvision/codebridge/pkg/server/store"
)

// Ensure OrdersStore implements store.OrdersStore
var _ store.OrdersStore = (*OrdersStore)(nil)

// OrdersStore implements store.OrdersStore using GORM
type OrdersStore struct {
	db *gorm.DB
}

// NewOrdersStore creates a new OrdersStore
func NewOrdersStore(db *gorm.DB) *OrdersStore {
	return &OrdersStore{db: db}
}

// CreateOrder inserts a new order
func (s *OrdersStore) CreateOrder(order *model.Order) error {
	var count int64
	if err := s.db.Model(&model.Order{}).
		Where("shopify_order_id = ?", order.ShopifyOrderID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for existing order: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: shopify order %s", store.ErrOrderExists, order.ShopifyOrderID)
	}

	if err := s.db.Create(order).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: shopify order %s", store.ErrOrderExists, order.ShopifyOrderID)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetOrderByShopifyID retrieves an order by its Shopify order id
func (s *OrdersStore) GetOrderByShopifyID(shopifyOrderID string) (*model.Order, error) {
	var order model.Order
	err := s.db.Where("shopify_order_id = ?", shopifyOrderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", shopifyOrderID, err)
	}
	return &order, nil
}

// GetOrderByShipSecNumber retrieves the order linked to a ShipSec draft order id
func (s *OrdersStore) GetOrderByShipSecNumber(shipsecNumber string) (*model.Order, error) {
	var order model.Order
	err := s.db.Where("shipsec_number = ?", shipsecNumber).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order for shipsec number %s: %w", shipsecNumber, err)
	}
	return &order, nil
}

// OrderExistsForVJDNumber reports whether a draft order was already created
// for the given VJD order
func (s *OrdersStore) OrderExistsForVJDNumber(vjdOrderNumber string) (bool, error) {
	var count int64
	err := s.db.Model(&model.Order{}).
		Where("vjd_order_number = ?", vjdOrderNumber).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check for existing draft order: %w", err)
	}
	return count > 0, nil
}
