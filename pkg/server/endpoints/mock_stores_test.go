package endpoints

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/glocalvision/codebridge/pkg/config"
	"github.com/glocalvision/codebridge/pkg/model"
	"github.com/glocalvision/codebridge/pkg/server"
	"github.com/glocalvision/codebridge/pkg/server/store"
	"github.com/glocalvision/codebridge/pkg/shopify"
)

type mockCustomersStore struct {
	nextID    int64
	customers map[int64]*model.Customer
}

func newMockCustomersStore() *mockCustomersStore {
	return &mockCustomersStore{customers: map[int64]*model.Customer{}}
}

func (s *mockCustomersStore) CreateCustomer(customer *model.Customer) error {
	for _, existing := range s.customers {
		if existing.ShopifyCustomerID == customer.ShopifyCustomerID {
			return store.ErrCustomerExists
		}
	}
	s.nextID++
	customer.ID = s.nextID
	clone := *customer
	s.customers[customer.ID] = &clone
	return nil
}

func (s *mockCustomersStore) GetCustomer(id int64) (*model.Customer, error) {
	customer, ok := s.customers[id]
	if !ok {
		return nil, store.ErrCustomerNotFound
	}
	clone := *customer
	return &clone, nil
}

func (s *mockCustomersStore) GetCustomerByShopifyID(shopifyCustomerID string) (*model.Customer, error) {
	for _, customer := range s.customers {
		if customer.ShopifyCustomerID == shopifyCustomerID {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, store.ErrCustomerNotFound
}

func (s *mockCustomersStore) FindCustomerByCode(code string) (*model.Customer, error) {
	for _, customer := range s.customers {
		if customer.SimpleCode == code || customer.SignatureCode == code {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, store.ErrCustomerNotFound
}

func (s *mockCustomersStore) UpdateCustomer(customer *model.Customer) error {
	if _, ok := s.customers[customer.ID]; !ok {
		return store.ErrCustomerNotFound
	}
	clone := *customer
	s.customers[customer.ID] = &clone
	return nil
}

func (s *mockCustomersStore) DeleteCustomer(id int64) error {
	if _, ok := s.customers[id]; !ok {
		return store.ErrCustomerNotFound
	}
	delete(s.customers, id)
	return nil
}

type mockOrdersStore struct {
	nextID int64
	orders []*model.Order
}

func newMockOrdersStore() *mockOrdersStore {
	return &mockOrdersStore{}
}

func (s *mockOrdersStore) CreateOrder(order *model.Order) error {
	for _, existing := range s.orders {
		if existing.ShopifyOrderID == order.ShopifyOrderID {
			return store.ErrOrderExists
		}
	}
	s.nextID++
	order.ID = s.nextID
	clone := *order
	s.orders = append(s.orders, &clone)
	return nil
}

func (s *mockOrdersStore) GetOrderByShopifyID(shopifyOrderID string) (*model.Order, error) {
	for _, order := range s.orders {
		if order.ShopifyOrderID == shopifyOrderID {
			clone := *order
			return &clone, nil
		}
	}
	return nil, store.ErrOrderNotFound
}

func (s *mockOrdersStore) GetOrderByShipSecNumber(shipsecNumber string) (*model.Order, error) {
	for _, order := range s.orders {
		if order.ShipSecNumber == shipsecNumber {
			clone := *order
			return &clone, nil
		}
	}
	return nil, store.ErrOrderNotFound
}

func (s *mockOrdersStore) OrderExistsForVJDNumber(vjdOrderNumber string) (bool, error) {
	for _, order := range s.orders {
		if order.VJDOrderNumber == vjdOrderNumber {
			return true, nil
		}
	}
	return false, nil
}

type mockHealthStore struct {
	err error
}

func (s *mockHealthStore) CheckConnectivity() error {
	return s.err
}

// testServer wires a Server around mock stores and an optional stub Shopify
// backend, then registers all endpoints on it.
func testServer(t *testing.T, cfg *config.Config, customers store.CustomersStore, orders store.OrdersStore, shopifyStub http.Handler) *server.Server {
	t.Helper()

	baseURL := "https://unused.invalid"
	if shopifyStub != nil {
		stub := httptest.NewServer(shopifyStub)
		t.Cleanup(stub.Close)
		baseURL = stub.URL
	}
	if cfg.ShopifyAPIVersion == "" {
		cfg.ShopifyAPIVersion = "2024-04"
	}

	s := &server.Server{
		Router:         mux.NewRouter().UseEncodedPath(),
		Config:         cfg,
		CustomersStore: customers,
		OrdersStore:    orders,
		HealthStore:    &mockHealthStore{},
		ShipSec:        shopify.NewClient(baseURL, "shipsec-token", cfg.ShopifyAPIVersion),
		VJD:            shopify.NewClient(baseURL, "vjd-token", cfg.ShopifyAPIVersion),
		Origins:        config.NewOriginSet(nil),
	}
	RegisterAll(s)
	return s
}

func seedOrder(shopifyOrderID, vjdOrderNumber, shipsecNumber string) *model.Order {
	return &model.Order{
		ShopifyOrderID: shopifyOrderID,
		ValidationCode: "shipsecabc123def456x",
		VJDOrderNumber: vjdOrderNumber,
		ShipSecNumber:  shipsecNumber,
	}
}

func seedCustomer(customers *mockCustomersStore) *model.Customer {
	customer := &model.Customer{
		ShopifyCustomerID: "1001",
		CustomerName:      "Ada",
		SimpleCode:        "shipsecabc123def456x",
		SignatureCode:     "shipsecsigabc123def4",
		Email:             "ada@example.com",
		Address1:          "1 Main St",
		City:              "Toronto",
		Province:          "ON",
		Country:           "Canada",
		Zip:               "M1M 1M1",
	}
	if err := customers.CreateCustomer(customer); err != nil {
		panic(fmt.Sprintf("seed customer: %v", err))
	}
	return customer
}
