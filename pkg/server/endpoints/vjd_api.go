package endpoints

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/glocalvision/codebridge/pkg/server"
	"github.com/glocalvision/codebridge/pkg/server/store"
)

// ValidateCodeRequest is the storefront validation request body.
type ValidateCodeRequest struct {
	Code string `json:"code"`
}

// ValidateCodeResponse is returned when a code is valid.
type ValidateCodeResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	MatchType  string `json:"match_type"`
	CustomerID string `json:"customer_id"`
}

// RegisterVJDAPIEndpoints registers the storefront validation API. The VJD
// checkout calls this from the browser, so it sits behind CORS rather than
// webhook verification.
func RegisterVJDAPIEndpoints(s *server.Server) {
	s.Router.HandleFunc("/vjd/api/validate_code", handleValidateCode(s.CustomersStore)).Methods("POST")
}

func handleValidateCode(customersStore store.CustomersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ValidateCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondAPIError(w, http.StatusBadRequest, "Code is required")
			return
		}

		code := strings.TrimSpace(req.Code)
		if code == "" {
			respondAPIError(w, http.StatusBadRequest, "Code is required")
			return
		}

		customer, err := customersStore.FindCustomerByCode(code)
		if errors.Is(err, store.ErrCustomerNotFound) {
			respondAPIError(w, http.StatusNotFound, "Invalid code")
			return
		}
		if err != nil {
			log.Printf("Error validating code: %v", err)
			respondAPIError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		matchType := "simple_code"
		if customer.SignatureCode == code {
			matchType = "signature_code"
		}

		respondWithJSON(w, http.StatusOK, ValidateCodeResponse{
			Status:     "success",
			Message:    "Code is valid",
			MatchType:  matchType,
			CustomerID: customer.ShopifyCustomerID,
		})
	}
}
