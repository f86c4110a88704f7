package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"modelrunner/internal/auth/domain"
	"modelrunner/internal/auth/service"
	"modelrunner/pkg/httpx"
	"modelrunner/pkg/slogx"
)

// ClientsHandler serves the client management endpoints. All of them sit
// behind the auth gate; the Self/Other capability split is enforced here.
type ClientsHandler struct {
	ClientService *service.ClientService
}

// HandleStatus handles POST /v1/auth/status.
//
// Without a body (or with the caller's own id) this returns the caller's
// record and requires STATUS_SELF. With another client's id it requires
// STATUS_OTHER and returns that record, 404 when the target is unknown —
// existence leak is acceptable here because the caller already holds the
// Other-scoped capability.
func (h *ClientsHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	caller, _ := ClientFromContext(r.Context())

	var req StatusRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Invalid JSON in request body")
		return
	}

	if req.ID == "" || req.ID == caller.ID {
		if !requirePermission(w, caller, domain.PermissionStatusSelf) {
			return
		}
		httpx.WriteJSON(w, http.StatusOK, viewOf(caller))
		return
	}

	if !requirePermission(w, caller, domain.PermissionStatusOther) {
		return
	}

	target, err := h.ClientService.GetClient(r.Context(), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			httpx.WriteError(w, http.StatusNotFound,
				"not_found", "Failed to find any client matching ID")
			return
		}
		writeServerError(w, r, "failed to load client", err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, viewOf(target))
}

// HandleCreate handles POST /v1/auth/create. Requires CREATE_SELF. The new
// client's created_by records the caller's id.
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, _ := ClientFromContext(r.Context())

	if !requirePermission(w, caller, domain.PermissionCreateSelf) {
		return
	}

	var req CreateClientRequest
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

	permissions, err := domain.ParsePermissionNames(req.Permissions)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Unknown permission name")
		return
	}

	client, token, err := h.ClientService.CreateClient(r.Context(), req.Name, permissions, caller.ID)
	if err != nil {
		writeServerError(w, r, "failed to create client", err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, CreateClientResponse{
		Token:  token,
		Client: viewOf(client),
	})
}

// HandleUpdate handles POST /v1/auth/update. Updating the caller's own
// record requires UPDATE_SELF; naming another id requires UPDATE_OTHER.
// The submitted permission set fully replaces the stored one.
func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, _ := ClientFromContext(r.Context())

	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Invalid JSON in request body")
		return
	}

	targetID := req.ID
	if targetID == "" || targetID == caller.ID {
		targetID = caller.ID
		if !requirePermission(w, caller, domain.PermissionUpdateSelf) {
			return
		}
	} else if !requirePermission(w, caller, domain.PermissionUpdateOther) {
		return
	}

	permissions, err := domain.ParsePermissionNames(req.Permissions)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Unknown permission name")
		return
	}

	if err := h.ClientService.UpdateClient(r.Context(), targetID, req.Name, permissions); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			httpx.WriteError(w, http.StatusNotFound,
				"not_found", "Failed to find any client matching ID")
			return
		}
		writeServerError(w, r, "failed to update client", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles POST /v1/auth/delete. Self-deletion requires
// DELETE_SELF; deleting another client requires DELETE_OTHER. Deletion is
// idempotent: a missing target is still a success.
func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, _ := ClientFromContext(r.Context())

	var req DeleteClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Invalid JSON in request body")
		return
	}
	if req.ID == "" {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Client id is required")
		return
	}

	required := domain.PermissionDeleteSelf
	if req.ID != caller.ID {
		required = domain.PermissionDeleteOther
	}
	if !requirePermission(w, caller, required) {
		return
	}

	if err := h.ClientService.DeleteClient(r.Context(), req.ID); err != nil {
		writeServerError(w, r, "failed to delete client", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeOptionalJSON decodes the request body into v, treating an empty body
// as a valid absent request.
func decodeOptionalJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// writeServerError logs the real failure and answers with a generic 500.
// Storage and hashing details never reach the wire.
func writeServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slogx.FromContext(r.Context()).Error(msg, "err", err)
	httpx.WriteError(w, http.StatusInternalServerError,
		"server_error", "Internal server error")
}
