package shopify

// Metafield is a Shopify metafield as the admin REST API represents it.
type Metafield struct {
	ID        int64  `json:"id,omitempty"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type,omitempty"`
}

// Address is a customer address.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
}

// Customer is the subset of a Shopify customer the bridge needs.
type Customer struct {
	ID             int64    `json:"id"`
	Email          string   `json:"email"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	DefaultAddress *Address `json:"default_address"`
}

// DraftOrder is a created draft order.
type DraftOrder struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// FulfillmentOrder is a fulfillment order attached to an order.
type FulfillmentOrder struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}
