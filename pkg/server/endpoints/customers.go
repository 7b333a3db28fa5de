package endpoints

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/glocalvision/codebridge/pkg/model"
	"github.com/glocalvision/codebridge/pkg/server"
	"github.com/glocalvision/codebridge/pkg/server/middleware"
	"github.com/glocalvision/codebridge/pkg/server/store"
)

// CustomerRequest is the create/update body for the customer administration
// API. On update, nil fields are left unchanged.
type CustomerRequest struct {
	ShopifyCustomerID *string `json:"shopify_customer_id"`
	CustomerName      *string `json:"customer_name"`
	SimpleCode        *string `json:"simple_code"`
	SignatureCode     *string `json:"signature_code"`
	Email             *string `json:"email"`
	Address1          *string `json:"address1"`
	Address2          *string `json:"address2"`
	City              *string `json:"city"`
	Province          *string `json:"province"`
	Country           *string `json:"country"`
	Zip               *string `json:"zip"`
}

// OrderRequest is the body for recording an order against a customer.
type OrderRequest struct {
	ShopifyOrderID string `json:"shopify_order_id"`
	ValidationCode string `json:"validation_code"`
	VJDOrderNumber string `json:"vjd_order_number"`
	ShipSecNumber  string `json:"shipsec_number"`
}

// RegisterCustomersEndpoints registers the customer administration API.
// When ADMIN_JWT_SECRET is configured the routes require a bearer token.
func RegisterCustomersEndpoints(s *server.Server) {
	customersStore := s.CustomersStore
	ordersStore := s.OrdersStore

	sub := s.Router.PathPrefix("/customers").Subrouter()
	sub.Use(middleware.NewAdminAuthenticator(s.Config.AdminJWTSecret).Middleware)

	sub.HandleFunc("/", handleCreateCustomer(customersStore)).Methods("POST")
	sub.HandleFunc("/{customer_id}", handleGetCustomer(customersStore)).Methods("GET")
	sub.HandleFunc("/{customer_id}", handleUpdateCustomer(customersStore)).Methods("PUT")
	sub.HandleFunc("/{customer_id}", handleDeleteCustomer(customersStore)).Methods("DELETE")
	sub.HandleFunc("/{customer_id}/orders/", handleCreateOrderForCustomer(customersStore, ordersStore)).Methods("POST")
}

func customerID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["customer_id"], 10, 64)
}

func customerResponse(customer *model.Customer) map[string]interface{} {
	return map[string]interface{}{
		"id":             customer.ID,
		"customer_name":  customer.CustomerName,
		"simple_code":    customer.SimpleCode,
		"signature_code": customer.SignatureCode,
	}
}

func (req *CustomerRequest) apply(customer *model.Customer) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&customer.ShopifyCustomerID, req.ShopifyCustomerID)
	set(&customer.CustomerName, req.CustomerName)
	set(&customer.SimpleCode, req.SimpleCode)
	set(&customer.SignatureCode, req.SignatureCode)
	set(&customer.Email, req.Email)
	set(&customer.Address1, req.Address1)
	set(&customer.Address2, req.Address2)
	set(&customer.City, req.City)
	set(&customer.Province, req.Province)
	set(&customer.Country, req.Country)
	set(&customer.Zip, req.Zip)
}

func handleCreateCustomer(customersStore store.CustomersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CustomerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var customer model.Customer
		req.apply(&customer)

		if err := customersStore.CreateCustomer(&customer); err != nil {
			if errors.Is(err, store.ErrCustomerExists) {
				respondWithError(w, http.StatusConflict, "Customer already exists")
				return
			}
			log.Printf("Database error: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"id":            customer.ID,
			"customer_name": customer.CustomerName,
		})
	}
}

func handleGetCustomer(customersStore store.CustomersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid customer id")
			return
		}

		customer, err := customersStore.GetCustomer(id)
		if errors.Is(err, store.ErrCustomerNotFound) {
			respondWithError(w, http.StatusNotFound, "Customer not found")
			return
		}
		if err != nil {
			log.Printf("Database error: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}

		respondWithJSON(w, http.StatusOK, customerResponse(customer))
	}
}

func handleUpdateCustomer(customersStore store.CustomersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid customer id")
			return
		}

		var req CustomerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		customer, err := customersStore.GetCustomer(id)
		if errors.Is(err, store.ErrCustomerNotFound) {
			respondWithError(w, http.StatusNotFound, "Customer not found")
			return
		}
		if err != nil {
			log.Printf("Database error: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}

		req.apply(customer)
		if err := customersStore.UpdateCustomer(customer); err != nil {
			log.Printf("Database error: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}

		respondWithJSON(w, http.StatusOK, customerResponse(customer))
	}
}

func handleDeleteCustomer(customersStore store.CustomersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid customer id")
			return
		}

		err = customersStore.DeleteCustomer(id)
		if errors.Is(err, store.ErrCustomerNotFound) {
			respondWithError(w, http.StatusNotFound, "Customer not found")
			return
		}
		if err != nil {
			log.Printf("Database error: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func handleCreateOrderForCustomer(customersStore store.CustomersStore, ordersStore store.OrdersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid customer id")
			return
		}

		if _, err := customersStore.GetCustomer(id); err != nil {
			if errors.Is(err, store.ErrCustomerNotFound) {
				respondWithError(w, http.StatusNotFound, "Customer not found")
				return
			}
			log.Printf("Database error: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}

		var req OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.ShopifyOrderID == "" {
			respondWithError(w, http.StatusBadRequest, "shopify_order_id is required")
			return
		}

		order := model.Order{
			ShopifyOrderID: req.ShopifyOrderID,
			ValidationCode: req.ValidationCode,
			VJDOrderNumber: req.VJDOrderNumber,
			ShipSecNumber:  req.ShipSecNumber,
		}
		if err := ordersStore.CreateOrder(&order); err != nil {
			if errors.Is(err, store.ErrOrderExists) {
				respondWithError(w, http.StatusConflict, "Order already exists")
				return
			}
			log.Printf("Database error: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to save order")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "success",
			"order_id": order.ID,
		})
	}
}
