package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	gorm "gorm.io/gorm"

	"github.com/glocalvision/codebridge/pkg/config"
	"github.com/glocalvision/codebridge/pkg/server/store"
	gormstore "github.com/glocalvision/codebridge/pkg/server/store/gorm"
	"github.com/glocalvision/codebridge/pkg/shopify"
)

// Server holds the router, stores, and store API clients the endpoints need.
type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.Config

	CustomersStore store.CustomersStore
	OrdersStore    store.OrdersStore
	HealthStore    store.HealthStore

	// ShipSec and VJD are the admin API clients for the two stores.
	ShipSec *shopify.Client
	VJD     *shopify.Client

	Origins *config.OriginSet

	srv *http.Server
}

// NewServer wires up a Server with gorm-backed stores and the two Shopify
// clients built from config.
func NewServer(cfg *config.Config, db *gorm.DB, origins *config.OriginSet) *Server {
	router := mux.NewRouter().UseEncodedPath()

	cors := handlers.CORS(
		handlers.AllowedOriginValidator(origins.Allowed),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, cors(router)),
		Addr:    cfg.BindAddress + ":" + cfg.ServerPort,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:         router,
		DB:             db,
		Config:         cfg,
		CustomersStore: gormstore.NewCustomersStore(db),
		OrdersStore:    gormstore.NewOrdersStore(db),
		HealthStore:    gormstore.NewHealthStore(db),
		ShipSec:        shopify.NewClient(cfg.ShipSecBaseURL, cfg.ShipSecAPIKey, cfg.ShopifyAPIVersion),
		VJD:            shopify.NewClient(cfg.VJDBaseURL, cfg.VJDAPIKey, cfg.ShopifyAPIVersion),
		Origins:        origins,
		srv:            srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
