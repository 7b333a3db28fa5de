package endpoints

import (
	"github.com/glocalvision/codebridge/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterCustomersEndpoints(srv)
	RegisterShipSecWebhookEndpoints(srv)
	RegisterVJDAPIEndpoints(srv)
	RegisterVJDWebhookEndpoints(srv)
	RegisterStatusEndpoints(srv)
}
