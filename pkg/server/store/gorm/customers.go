package gorm

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/glocalvision/codebridge/pkg/model"
	"github.com/glocalvision/codebridge/pkg/server/store"
)

// Ensure CustomersStore implements store.CustomersStore
var _ store.CustomersStore = (*CustomersStore)(nil)

// CustomersStore implements store.CustomersStore using GORM
type CustomersStore struct {
	db *gorm.DB
}

// NewCustomersStore creates a new CustomersStore
func NewCustomersStore(db *gorm.DB) *CustomersStore {
	return &CustomersStore{db: db}
}

// CreateCustomer inserts a new customer
func (s *CustomersStore) CreateCustomer(customer *model.Customer) error {
	if err := s.db.Create(customer).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: shopify customer %s", store.ErrCustomerExists, customer.ShopifyCustomerID)
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetCustomer retrieves a customer by primary key
func (s *CustomersStore) GetCustomer(id int64) (*model.Customer, error) {
	var customer model.Customer
	err := s.db.First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer %d: %w", id, err)
	}
	return &customer, nil
}

// GetCustomerByShopifyID retrieves a customer by their Shopify customer id
func (s *CustomersStore) GetCustomerByShopifyID(shopifyCustomerID string) (*model.Customer, error) {
	var customer model.Customer
	err := s.db.Where("shopify_customer_id = ?", shopifyCustomerID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer %s: %w", shopifyCustomerID, err)
	}
	return &customer, nil
}

// FindCustomerByCode retrieves the customer whose simple or signature code matches
func (s *CustomersStore) FindCustomerByCode(code string) (*model.Customer, error) {
	var customer model.Customer
	err := s.db.Where("simple_code = ? OR signature_code = ?", code, code).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up code: %w", err)
	}
	return &customer, nil
}

// UpdateCustomer persists changes to an existing customer
func (s *CustomersStore) UpdateCustomer(customer *model.Customer) error {
	if err := s.db.Save(customer).Error; err != nil {
		return fmt.Errorf("failed to update customer %d: %w", customer.ID, err)
	}
	return nil
}

// DeleteCustomer removes a customer by primary key
func (s *CustomersStore) DeleteCustomer(id int64) error {
	result := s.db.Delete(&model.Customer{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrCustomerNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation
// (SQLSTATE 23505). The GORM connection is pgx-based and surfaces server
// errors as *pgconn.PgError; sessions opened directly through lib/pq
// surface them as *pq.Error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
