package endpoints

import (
	"net/http"
	"os"

	"github.com/glocalvision/codebridge/pkg/server"
	"github.com/glocalvision/codebridge/pkg/server/store"
)

// StatusResponse is the body returned by the root status endpoint.
type StatusResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// RegisterStatusEndpoints registers the status endpoint
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus(s.HealthStore)).Methods("GET")
}

func handleStatus(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("BRIDGE_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		if err := healthStore.CheckConnectivity(); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, StatusResponse{
				Status:   "error",
				Version:  version,
				Database: "unreachable",
			})
			return
		}

		respondWithJSON(w, http.StatusOK, StatusResponse{
			Status:   "running",
			Version:  version,
			Database: "ok",
		})
	}
}
