package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"modelrunner/internal/auth/service"
	"modelrunner/pkg/httpx"
)

// BootstrapHandler serves POST /v1/bootstrap, the only unauthenticated way
// to mint a credential. It works exactly once, on an empty database.
type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Invalid JSON in request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Client name is required")
		return
	}

	client, token, err := h.BootstrapService.Bootstrap(r.Context(), req.Token, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			httpx.WriteError(w, http.StatusConflict,
				"already_bootstrapped", "System has already been bootstrapped")
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			httpx.WriteError(w, http.StatusForbidden,
				"forbidden", "Invalid bootstrap token")
		default:
			writeServerError(w, r, "bootstrap failed", err)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, CreateClientResponse{
		Token:  token,
		Client: viewOf(client),
	})
}
