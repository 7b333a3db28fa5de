package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const fulfillmentHoldMutation = `
mutation FulfillmentOrderHold($fulfillmentHold: FulfillmentOrderHoldInput!, $id: ID!) {
  fulfillmentOrderHold(fulfillmentHold: $fulfillmentHold, id: $id) {
    fulfillmentOrder { id }
    remainingFulfillmentOrder { id }
    userErrors { field message }
  }
}`

const fulfillmentReleaseHoldMutation = `
mutation FulfillmentOrderReleaseHold($id: ID!) {
  fulfillmentOrderReleaseHold(id: $id) {
    fulfillmentOrder {
      id
      status
    }
    userErrors {
      field
      message
    }
  }
}`

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func fulfillmentOrderGID(id int64) string {
	return fmt.Sprintf("gid://shopify/FulfillmentOrder/%d", id)
}

// graphql posts a query to the store's GraphQL endpoint and decodes the data
// payload into out. Top-level GraphQL errors become Go errors.
func (c *Client) graphql(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload := map[string]interface{}{
		"query":     query,
		"variables": variables,
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	url := c.adminURL("graphql.json")
	if err := c.do(ctx, http.MethodPost, url, payload, &envelope); err != nil {
		return err
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}
	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode graphql data: %w", err)
		}
	}
	return nil
}

func firstUserError(errs []userError) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("graphql user error: %s", errs[0].Message)
}

// PlaceFulfillmentHold puts a fulfillment order on hold so the order is not
// shipped before its ShipSec counterpart is paid.
func (c *Client) PlaceFulfillmentHold(ctx context.Context, fulfillmentOrderID int64) error {
	variables := map[string]interface{}{
		"fulfillmentHold": map[string]interface{}{
			"notifyMerchant": true,
			"reason":         "OTHER",
			"reasonNotes":    "Used validation code",
		},
		"id": fulfillmentOrderGID(fulfillmentOrderID),
	}

	var out struct {
		FulfillmentOrderHold struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"fulfillmentOrderHold"`
	}
	if err := c.graphql(ctx, fulfillmentHoldMutation, variables, &out); err != nil {
		return fmt.Errorf("failed to place fulfillment hold on %d: %w", fulfillmentOrderID, err)
	}
	if err := firstUserError(out.FulfillmentOrderHold.UserErrors); err != nil {
		return fmt.Errorf("failed to place fulfillment hold on %d: %w", fulfillmentOrderID, err)
	}
	return nil
}

// ReleaseFulfillmentHold releases a hold placed by PlaceFulfillmentHold.
func (c *Client) ReleaseFulfillmentHold(ctx context.Context, fulfillmentOrderID int64) error {
	variables := map[string]interface{}{
		"id": fulfillmentOrderGID(fulfillmentOrderID),
	}

	var out struct {
		FulfillmentOrderReleaseHold struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"fulfillmentOrderReleaseHold"`
	}
	if err := c.graphql(ctx, fulfillmentReleaseHoldMutation, variables, &out); err != nil {
		return fmt.Errorf("failed to release fulfillment hold on %d: %w", fulfillmentOrderID, err)
	}
	if err := firstUserError(out.FulfillmentOrderReleaseHold.UserErrors); err != nil {
		return fmt.Errorf("failed to release fulfillment hold on %d: %w", fulfillmentOrderID, err)
	}
	return nil
}
