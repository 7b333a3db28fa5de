package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoFulfillmentOrders is returned when an order has no fulfillment orders.
var ErrNoFulfillmentOrders = errors.New("no fulfillment orders found")

// Client talks to one store's Shopify admin API. Each store gets its own
// Client with its own access token.
type Client struct {
	baseURL    string
	token      string
	apiVersion string
	httpClient *http.Client
}

// NewClient creates a Client for a store admin API.
func NewClient(baseURL, token, apiVersion string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// adminURL builds a versioned admin API URL, e.g.
// https://store.myshopify.com/admin/api/2024-04/customers/1.json
func (c *Client) adminURL(path string) string {
	return fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL, c.apiVersion, path)
}

func (c *Client) do(ctx context.Context, method, url string, payload, out interface{}, okStatuses ...int) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if len(okStatuses) == 0 {
		okStatuses = []int{http.StatusOK}
	}
	ok := false
	for _, status := range okStatuses {
		if resp.StatusCode == status {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, url, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// AddCustomerMetafields pushes the two validation codes onto a customer as
// single_line_text_field metafields in the "shipsec" namespace.
func (c *Client) AddCustomerMetafields(ctx context.Context, customerID, simpleCode, signatureCode string) error {
	url := c.adminURL(fmt.Sprintf("customers/%s/metafields.json", customerID))
	metafields := []Metafield{
		{Namespace: "shipsec", Key: "simple_code", Value: simpleCode, Type: "single_line_text_field"},
		{Namespace: "shipsec", Key: "signature_code", Value: signatureCode, Type: "single_line_text_field"},
	}
	for _, metafield := range metafields {
		payload := map[string]Metafield{"metafield": metafield}
		if err := c.do(ctx, http.MethodPost, url, payload, nil, http.StatusCreated); err != nil {
			return fmt.Errorf("failed to add metafield %s: %w", metafield.Key, err)
		}
	}
	return nil
}

// GetCustomer fetches a customer, including their default address.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	url := c.adminURL(fmt.Sprintf("customers/%s.json", customerID))
	var out struct {
		Customer *Customer `json:"customer"`
	}
	if err := c.do(ctx, http.MethodGet, url, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch customer %s: %w", customerID, err)
	}
	if out.Customer == nil {
		return nil, fmt.Errorf("customer %s not found in response", customerID)
	}
	return out.Customer, nil
}

// CreateDraftOrder creates an open draft order for the customer with a single
// line item of the given variant, shipped to the customer's default address.
func (c *Client) CreateDraftOrder(ctx context.Context, customerID string, variantID int64, customer *Customer) (*DraftOrder, error) {
	if customer.DefaultAddress == nil {
		return nil, fmt.Errorf("customer %s has no default address", customerID)
	}
	address := customer.DefaultAddress

	payload := map[string]interface{}{
		"draft_order": map[string]interface{}{
			"customer_id": customerID,
			"email":       customer.Email,
			"first_name":  address.FirstName,
			"last_name":   address.LastName,
			"line_items": []map[string]interface{}{
				{"variant_id": variantID, "quantity": 1},
			},
			"status": "open",
			"shipping_address": map[string]string{
				"address1": address.Address1,
				"address2": strings.TrimSpace(address.Address2),
				"city":     address.City,
				"province": address.Province,
				"country":  address.Country,
				"zip":      address.Zip,
			},
		},
	}

	url := c.adminURL("draft_orders.json")
	var out struct {
		DraftOrder *DraftOrder `json:"draft_order"`
	}
	if err := c.do(ctx, http.MethodPost, url, payload, &out, http.StatusCreated, http.StatusAccepted); err != nil {
		return nil, fmt.Errorf("failed to create draft order: %w", err)
	}
	if out.DraftOrder == nil {
		return nil, fmt.Errorf("draft order missing in response")
	}
	return out.DraftOrder, nil
}

// AddDraftOrderMetafield attaches a metafield in the "custom" namespace to a
// draft order. Used to link the ShipSec draft order back to its VJD order.
func (c *Client) AddDraftOrderMetafield(ctx context.Context, draftOrderID int64, key, value string) error {
	url := c.adminURL(fmt.Sprintf("draft_orders/%d/metafields.json", draftOrderID))
	payload := map[string]Metafield{
		"metafield": {Namespace: "custom", Key: key, Value: value, Type: "single_line_text_field"},
	}
	if err := c.do(ctx, http.MethodPost, url, payload, nil, http.StatusCreated); err != nil {
		return fmt.Errorf("failed to add draft order metafield %s: %w", key, err)
	}
	return nil
}

// GetOrderMetafields fetches all metafields on an order.
func (c *Client) GetOrderMetafields(ctx context.Context, orderID string) ([]Metafield, error) {
	url := c.adminURL(fmt.Sprintf("orders/%s/metafields.json", orderID))
	var out struct {
		Metafields []Metafield `json:"metafields"`
	}
	if err := c.do(ctx, http.MethodGet, url, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch metafields for order %s: %w", orderID, err)
	}
	return out.Metafields, nil
}

// GetFulfillmentOrderID returns the id of the first fulfillment order for an
// order. Returns ErrNoFulfillmentOrders when the order has none.
func (c *Client) GetFulfillmentOrderID(ctx context.Context, orderID string) (int64, error) {
	url := c.adminURL(fmt.Sprintf("orders/%s/fulfillment_orders.json", orderID))
	var out struct {
		FulfillmentOrders []FulfillmentOrder `json:"fulfillment_orders"`
	}
	if err := c.do(ctx, http.MethodGet, url, nil, &out); err != nil {
		return 0, fmt.Errorf("failed to fetch fulfillment orders for order %s: %w", orderID, err)
	}
	if len(out.FulfillmentOrders) == 0 {
		return 0, fmt.Errorf("order %s: %w", orderID, ErrNoFulfillmentOrders)
	}
	return out.FulfillmentOrders[0].ID, nil
}
