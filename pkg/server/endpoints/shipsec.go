package endpoints

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/glocalvision/codebridge/pkg/codes"
	"github.com/glocalvision/codebridge/pkg/model"
	"github.com/glocalvision/codebridge/pkg/server"
	"github.com/glocalvision/codebridge/pkg/server/middleware"
	"github.com/glocalvision/codebridge/pkg/server/store"
	"github.com/glocalvision/codebridge/pkg/shopify"
)

// customerWebhookPayload is the subset of Shopify's customers webhook the
// enable flow reads.
type customerWebhookPayload struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	Email          string `json:"email"`
	DefaultAddress *struct {
		Address1 string `json:"address1"`
		Address2 string `json:"address2"`
		City     string `json:"city"`
		Province string `json:"province"`
		Country  string `json:"country"`
		Zip      string `json:"zip"`
	} `json:"default_address"`
}

// orderWebhookPayload is the subset of Shopify's orders/paid webhook the
// ShipSec flow reads.
type orderWebhookPayload struct {
	ID int64 `json:"id"`
}

// RegisterShipSecWebhookEndpoints registers the ShipSec webhook routes. All
// deliveries go through HMAC verification first.
func RegisterShipSecWebhookEndpoints(s *server.Server) {
	sub := s.Router.PathPrefix("/shipsec/webhook").Subrouter()
	sub.Use(middleware.NewWebhookVerifier(s.Config).Middleware)

	sub.HandleFunc("/customers/enable", handleCustomersEnable(s.CustomersStore, s.ShipSec)).Methods("POST")
	sub.HandleFunc("/orders/paid", handleShipSecOrderPaid(s.OrdersStore, s.ShipSec, s.VJD)).Methods("POST")
}

// handleCustomersEnable enrolls a new ShipSec customer: generate their two
// validation codes, push the codes to Shopify as customer metafields, and
// persist the customer with their forwarding address.
func handleCustomersEnable(customersStore store.CustomersStore, shipsec *shopify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload customerWebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondFailure(w, http.StatusBadRequest, "Invalid payload")
			return
		}
		if payload.ID == 0 {
			respondFailure(w, http.StatusBadRequest, "Customer ID missing")
			return
		}
		shopifyCustomerID := strconv.FormatInt(payload.ID, 10)

		// Shopify retries deliveries; an already-enrolled customer is not an
		// error.
		if _, err := customersStore.GetCustomerByShopifyID(shopifyCustomerID); err == nil {
			respondWithJSON(w, http.StatusOK, map[string]string{
				"status":  "ignored",
				"message": "Duplicate event",
			})
			return
		}

		simpleCode, signatureCode, err := codes.GeneratePair()
		if err != nil {
			log.Printf("Failed to generate codes: %v", err)
			respondFailure(w, http.StatusInternalServerError, "Failed to generate codes")
			return
		}

		// Metafield push is best effort up front; retried below once the
		// customer is persisted.
		metafieldsErr := shipsec.AddCustomerMetafields(r.Context(), shopifyCustomerID, simpleCode, signatureCode)
		if metafieldsErr != nil {
			log.Printf("Failed to add metafields: %v", metafieldsErr)
		}

		customer := model.Customer{
			ShopifyCustomerID: shopifyCustomerID,
			CustomerName:      payload.FirstName,
			SimpleCode:        simpleCode,
			SignatureCode:     signatureCode,
			Email:             payload.Email,
		}
		if customer.CustomerName == "" {
			customer.CustomerName = "Unknown"
		}
		if address := payload.DefaultAddress; address != nil {
			customer.Address1 = address.Address1
			customer.Address2 = address.Address2
			customer.City = address.City
			customer.Province = address.Province
			customer.Country = address.Country
			customer.Zip = address.Zip
		}

		if err := customersStore.CreateCustomer(&customer); err != nil {
			if errors.Is(err, store.ErrCustomerExists) {
				respondWithJSON(w, http.StatusOK, map[string]string{
					"status":  "ignored",
					"message": "Duplicate event",
				})
				return
			}
			log.Printf("Database error: %v", err)
			respondFailure(w, http.StatusInternalServerError, "Database error")
			return
		}

		if metafieldsErr != nil {
			if err := shipsec.AddCustomerMetafields(r.Context(), shopifyCustomerID, simpleCode, signatureCode); err != nil {
				log.Printf("Metafield retry failed for customer %s: %v", shopifyCustomerID, err)
			}
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data": map[string]string{
				"customer_id":               shopifyCustomerID,
				"simple_forwarding_code":    simpleCode,
				"signature_forwarding_code": signatureCode,
			},
		})
	}
}

// handleShipSecOrderPaid reacts to a paid ShipSec order by releasing the
// fulfillment hold on the VJD order it mirrors: the ShipSec order's
// metafields point at the draft order, the draft order maps to the stored VJD
// order, and the VJD order's fulfillment hold is released.
func handleShipSecOrderPaid(ordersStore store.OrdersStore, shipsec, vjd *shopify.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload orderWebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondFailure(w, http.StatusBadRequest, "Invalid payload")
			return
		}
		if payload.ID == 0 {
			respondFailure(w, http.StatusBadRequest, "ShipSec order ID missing")
			return
		}
		shipsecOrderID := strconv.FormatInt(payload.ID, 10)

		metafields, err := shipsec.GetOrderMetafields(r.Context(), shipsecOrderID)
		if err != nil {
			log.Printf("Failed to retrieve metafields for ShipSec order %s: %v", shipsecOrderID, err)
			respondFailure(w, http.StatusBadRequest, "Order metafields not found for "+shipsecOrderID)
			return
		}

		draftOrderID, err := shopify.ParseDraftOrderID(metafields)
		if err != nil {
			log.Printf("No draft order ID for ShipSec order %s: %v", shipsecOrderID, err)
			respondFailure(w, http.StatusBadRequest, "Draft order ID not found for "+shipsecOrderID)
			return
		}

		order, err := ordersStore.GetOrderByShipSecNumber(draftOrderID)
		if err != nil {
			log.Printf("No VJD order for draft order %s: %v", draftOrderID, err)
			respondFailure(w, http.StatusBadRequest, "VJD order not found for "+draftOrderID)
			return
		}

		fulfillmentOrderID, err := vjd.GetFulfillmentOrderID(r.Context(), order.ShopifyOrderID)
		if err != nil {
			log.Printf("No fulfillment order for VJD order %s: %v", order.ShopifyOrderID, err)
			respondFailure(w, http.StatusBadRequest, "Fulfillment order not found for "+order.ShopifyOrderID)
			return
		}

		if err := vjd.ReleaseFulfillmentHold(r.Context(), fulfillmentOrderID); err != nil {
			log.Printf("Failed to release hold for VJD order %s: %v", order.ShopifyOrderID, err)
			respondFailure(w, http.StatusBadRequest, "Failed to release hold")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]string{
			"status":  "success",
			"message": "Hold released successfully",
		})
	}
}
