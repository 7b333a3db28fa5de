package shopify

import (
	"errors"
	"fmt"
	"strings"
)

const draftOrderGIDPrefix = "gid://shopify/DraftOrder/"

// ErrDraftIDNotFound is returned when an order's metafields carry no draft id.
var ErrDraftIDNotFound = errors.New("draft order id not found in metafields")

// ParseDraftOrderID extracts the numeric draft order id from the custom/draft_id
// metafield. The metafield value is a GID like gid://shopify/DraftOrder/12345;
// Shopify Flow sometimes prepends "Insert Variable " to the value, which is
// tolerated and stripped.
func ParseDraftOrderID(metafields []Metafield) (string, error) {
	var value string
	for _, metafield := range metafields {
		if metafield.Namespace == "custom" && metafield.Key == "draft_id" {
			value = metafield.Value
			break
		}
	}
	if value == "" {
		return "", ErrDraftIDNotFound
	}

	value = strings.TrimPrefix(value, "Insert Variable ")
	if !strings.HasPrefix(value, draftOrderGIDPrefix) {
		return "", fmt.Errorf("unexpected draft order id format: %q", value)
	}

	parts := strings.Split(value, "/")
	return parts[len(parts)-1], nil
}
