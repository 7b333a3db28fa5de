package endpoints

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/glocalvision/codebridge/pkg/config"
	"github.com/glocalvision/codebridge/pkg/model"
	"github.com/glocalvision/codebridge/pkg/server"
	"github.com/glocalvision/codebridge/pkg/server/middleware"
	"github.com/glocalvision/codebridge/pkg/server/store"
	"github.com/glocalvision/codebridge/pkg/shopify"
)

// vjdOrderPayload is the subset of the VJD orders/paid webhook the bridge
// reads. The customer's validation code travels in address2 of the shipping
// address.
type vjdOrderPayload struct {
	ID              int64  `json:"id"`
	OrderNumber     int64  `json:"order_number"`
	CreatedAt       string `json:"created_at"`
	ShippingAddress struct {
		Address2 string `json:"address2"`
	} `json:"shipping_address"`
}

// RegisterVJDWebhookEndpoints registers the VJD webhook routes behind HMAC
// verification.
func RegisterVJDWebhookEndpoints(s *server.Server) {
	sub := s.Router.PathPrefix("/vjd/webhook").Subrouter()
	sub.Use(middleware.NewWebhookVerifier(s.Config).Middleware)

	sub.HandleFunc("/orders/paid", handleVJDOrderPaid(
		s.CustomersStore, s.OrdersStore, s.ShipSec, s.VJD, s.Config,
	)).Methods("POST")
}

// handleVJDOrderPaid runs the bridge flow for a paid VJD order: validate the
// code in address2, hold the VJD fulfillment, create the mirrored draft order
// on ShipSec, and record the pairing.
func handleVJDOrderPaid(
	customersStore store.CustomersStore,
	ordersStore store.OrdersStore,
	shipsec *shopify.Client,
	vjd *shopify.Client,
	cfg *config.Config,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload vjdOrderPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondFailure(w, http.StatusBadRequest, "Invalid payload")
			return
		}

		fail := func(message string) {
			log.Printf("400: %s", message)
			respondFailure(w, http.StatusBadRequest, message)
		}

		code := strings.TrimSpace(payload.ShippingAddress.Address2)
		if code == "" {
			fail("Address2 (validation code) is required in shipping_address")
			return
		}

		customer, err := customersStore.FindCustomerByCode(code)
		if errors.Is(err, store.ErrCustomerNotFound) {
			fail("Invalid validation code: " + code)
			return
		}
		if err != nil {
			log.Printf("Error validating code: %v", err)
			respondFailure(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		variantID := cfg.SimpleVariantID
		if customer.SignatureCode == code {
			variantID = cfg.SignatureVariantID
		}

		orderID := strconv.FormatInt(payload.ID, 10)
		vjdOrderNumber := strconv.FormatInt(payload.OrderNumber, 10)

		exists, err := ordersStore.OrderExistsForVJDNumber(vjdOrderNumber)
		if err != nil {
			log.Printf("Error checking for existing draft order: %v", err)
			respondFailure(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if exists {
			fail("Draft order already exists for this VJD order ID: " + orderID)
			return
		}

		fulfillmentOrderID, err := vjd.GetFulfillmentOrderID(r.Context(), orderID)
		if err != nil {
			log.Printf("Error fetching fulfillment order for %s: %v", orderID, err)
			fail("Fulfillment order ID not found")
			return
		}

		if err := vjd.PlaceFulfillmentHold(r.Context(), fulfillmentOrderID); err != nil {
			log.Printf("Error placing hold on %d: %v", fulfillmentOrderID, err)
			fail("Failed to place order on hold")
			return
		}

		shipsecCustomer, err := shipsec.GetCustomer(r.Context(), customer.ShopifyCustomerID)
		if err != nil {
			log.Printf("Error fetching ShipSec customer %s: %v", customer.ShopifyCustomerID, err)
			fail("Failed to create draft order")
			return
		}

		draftOrder, err := shipsec.CreateDraftOrder(r.Context(), customer.ShopifyCustomerID, variantID, shipsecCustomer)
		if err != nil {
			log.Printf("Error creating draft order for customer %s: %v", customer.ShopifyCustomerID, err)
			fail("Failed to create draft order")
			return
		}
		shipsecNumber := strconv.FormatInt(draftOrder.ID, 10)

		order := model.Order{
			ShopifyOrderID: orderID,
			ValidationCode: code,
			VJDOrderNumber: vjdOrderNumber,
			ShipSecNumber:  shipsecNumber,
		}
		if err := ordersStore.CreateOrder(&order); err != nil {
			// The hold is already placed and the draft order created, so the
			// delivery still succeeds; the pairing is just not recorded.
			log.Printf("Error saving order %s: %v", orderID, err)
		}

		if err := shipsec.AddDraftOrderMetafield(r.Context(), draftOrder.ID, "vjd_order_number", vjdOrderNumber); err != nil {
			log.Printf("Error adding vjd_order_number metafield to draft order %d: %v", draftOrder.ID, err)
		}

		respondWithJSON(w, http.StatusOK, map[string]string{
			"status":  "success",
			"message": "Order processed, placed on hold, and draft order created on ShipSec successfully",
		})
	}
}
