package store

import (
	"errors"

	"github.com/glocalvision/codebridge/pkg/model"
)

var (
	// ErrCustomerNotFound is returned when a customer lookup matches nothing.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrCustomerExists is returned when a unique customer constraint is hit.
	ErrCustomerExists = errors.New("customer already exists")
)

// CustomersStore provides customer persistence
type CustomersStore interface {
	// CreateCustomer inserts a new customer
	CreateCustomer(customer *model.Customer) error
	// GetCustomer retrieves a customer by primary key
	GetCustomer(id int64) (*model.Customer, error)
	// GetCustomerByShopifyID retrieves a customer by their Shopify customer id
	GetCustomerByShopifyID(shopifyCustomerID string) (*model.Customer, error)
	// FindCustomerByCode retrieves the customer whose simple or signature
	// code matches
	FindCustomerByCode(code string) (*model.Customer, error)
	// UpdateCustomer persists changes to an existing customer
	UpdateCustomer(customer *model.Customer) error
	// DeleteCustomer removes a customer by primary key
	DeleteCustomer(id int64) error
}
