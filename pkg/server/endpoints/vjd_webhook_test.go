package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glocalvision/codebridge/pkg/config"
)

// vjdStub fakes the Shopify surface the VJD order-paid flow touches on both
// stores and records what was called.
type vjdStub struct {
	holdPlaced       bool
	draftCreated     bool
	metafieldAdded   bool
	draftVariantID   int64
	metafieldPayload string
}

func (s *vjdStub) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/orders/555/fulfillment_orders.json"):
			_, _ = w.Write([]byte(`{"fulfillment_orders":[{"id":777}]}`))

		case strings.HasSuffix(r.URL.Path, "/graphql.json"):
			var payload struct {
				Query string `json:"query"`
			}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			require.Contains(t, payload.Query, "fulfillmentOrderHold")
			s.holdPlaced = true
			_, _ = w.Write([]byte(`{"data":{"fulfillmentOrderHold":{"fulfillmentOrder":{"id":"x"},"userErrors":[]}}}`))

		case strings.HasSuffix(r.URL.Path, "/customers/1001.json"):
			_, _ = w.Write([]byte(`{"customer":{"id":1001,"email":"ada@example.com","default_address":{"first_name":"Ada","last_name":"L","address1":"1 Main St","city":"Toronto","province":"ON","country":"Canada","zip":"M1M 1M1"}}}`))

		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/draft_orders.json"):
			var payload struct {
				DraftOrder struct {
					LineItems []struct {
						VariantID int64 `json:"variant_id"`
					} `json:"line_items"`
				} `json:"draft_order"`
			}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			require.Len(t, payload.DraftOrder.LineItems, 1)
			s.draftCreated = true
			s.draftVariantID = payload.DraftOrder.LineItems[0].VariantID
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"draft_order":{"id":99887,"name":"#D123","status":"open"}}`))

		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/draft_orders/99887/metafields.json"):
			var payload struct {
				Metafield struct {
					Key   string `json:"key"`
					Value string `json:"value"`
				} `json:"metafield"`
			}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			s.metafieldAdded = true
			s.metafieldPayload = payload.Metafield.Key + "=" + payload.Metafield.Value
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"metafield":{"id":1}}`))

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func vjdConfig() *config.Config {
	return &config.Config{
		DevelopmentMode:    true,
		SimpleVariantID:    config.DefaultSimpleVariantID,
		SignatureVariantID: config.DefaultSignatureVariantID,
	}
}

const vjdPaidBody = `{"id":555,"order_number":1042,"created_at":"2026-08-30T12:00:00Z","shipping_address":{"address2":" shipsecabc123def456x "}}`

func TestVJDOrderPaid(t *testing.T) {
	stub := &vjdStub{}
	customers := newMockCustomersStore()
	seedCustomer(customers)
	orders := newMockOrdersStore()
	srv := testServer(t, vjdConfig(), customers, orders, stub.handler(t))

	req := httptest.NewRequest(http.MethodPost, "/vjd/webhook/orders/paid", strings.NewReader(vjdPaidBody))
	recorder := httptest.NewRecorder()
	srv.Router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), "draft order created on ShipSec successfully")

	assert.True(t, stub.holdPlaced)
	assert.True(t, stub.draftCreated)
	assert.Equal(t, config.DefaultSimpleVariantID, stub.draftVariantID)
	assert.True(t, stub.metafieldAdded)
	assert.Equal(t, "vjd_order_number=1042", stub.metafieldPayload)

	saved, err := orders.GetOrderByShopifyID("555")
	require.NoError(t, err)
	assert.Equal(t, "shipsecabc123def456x", saved.ValidationCode)
	assert.Equal(t, "1042", saved.VJDOrderNumber)
	assert.Equal(t, "99887", saved.ShipSecNumber)
}

func TestVJDOrderPaidSignatureCodePicksSignatureVariant(t *testing.T) {
	stub := &vjdStub{}
	customers := newMockCustomersStore()
	customer := seedCustomer(customers)
	srv := testServer(t, vjdConfig(), customers, newMockOrdersStore(), stub.handler(t))

	body := `{"id":555,"order_number":1042,"shipping_address":{"address2":"` + customer.SignatureCode + `"}}`
	req := httptest.NewRequest(http.MethodPost, "/vjd/webhook/orders/paid", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	srv.Router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Equal(t, config.DefaultSignatureVariantID, stub.draftVariantID)
}

func TestVJDOrderPaidMissingCode(t *testing.T) {
	srv := testServer(t, vjdConfig(), newMockCustomersStore(), newMockOrdersStore(), nil)

	body := `{"id":555,"order_number":1042,"shipping_address":{"address2":"  "}}`
	req := httptest.NewRequest(http.MethodPost, "/vjd/webhook/orders/paid", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	srv.Router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "validation code) is required")
}

func TestVJDOrderPaidInvalidCode(t *testing.T) {
	srv := testServer(t, vjdConfig(), newMockCustomersStore(), newMockOrdersStore(), nil)

	body := `{"id":555,"order_number":1042,"shipping_address":{"address2":"shipsecnope"}}`
	req := httptest.NewRequest(http.MethodPost, "/vjd/webhook/orders/paid", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	srv.Router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid validation code")
}

func TestVJDOrderPaidDuplicateOrder(t *testing.T) {
	stub := &vjdStub{}
	customers := newMockCustomersStore()
	seedCustomer(customers)
	orders := newMockOrdersStore()
	require.NoError(t, orders.CreateOrder(seedOrder("554", "1042", "99000")))
	srv := testServer(t, vjdConfig(), customers, orders, stub.handler(t))

	req := httptest.NewRequest(http.MethodPost, "/vjd/webhook/orders/paid", strings.NewReader(vjdPaidBody))
	recorder := httptest.NewRecorder()
	srv.Router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Draft order already exists")
	assert.False(t, stub.holdPlaced)
}

func TestVJDOrderPaidHoldFailureStopsFlow(t *testing.T) {
	stub := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/orders/555/fulfillment_orders.json"):
			_, _ = w.Write([]byte(`{"fulfillment_orders":[{"id":777}]}`))
		case strings.HasSuffix(r.URL.Path, "/graphql.json"):
			_, _ = w.Write([]byte(`{"data":{"fulfillmentOrderHold":{"userErrors":[{"field":["id"],"message":"already on hold"}]}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	customers := newMockCustomersStore()
	seedCustomer(customers)
	orders := newMockOrdersStore()
	srv := testServer(t, vjdConfig(), customers, orders, stub)

	req := httptest.NewRequest(http.MethodPost, "/vjd/webhook/orders/paid", strings.NewReader(vjdPaidBody))
	recorder := httptest.NewRecorder()
	srv.Router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Failed to place order on hold")

	// Nothing was recorded.
	_, err := orders.GetOrderByShopifyID("555")
	assert.Error(t, err)
}
