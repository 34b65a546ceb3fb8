package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dipansrimany2006/mlink-client/internal/model"
	"github.com/dipansrimany2006/mlink-client/internal/service"
)

// --- List API Keys ---

type ListKeysHandler struct {
	svc *service.APIKeyService
}

func NewListKeysHandler(svc *service.APIKeyService) *ListKeysHandler {
	return &ListKeysHandler{svc: svc}
}

type keyItem struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Key        string    `json:"key"`
	IsActive   bool      `json:"isActive"`
	LastUsedAt *string   `json:"lastUsedAt"`
	CreatedAt  string    `json:"createdAt"`
}

func toKeyItem(key *model.APIKey) keyItem {
	item := keyItem{
		ID:        key.ID,
		Name:      key.Name,
		Key:       key.Key,
		IsActive:  key.IsActive,
		CreatedAt: key.CreatedAt.Format(time.RFC3339),
	}
	if key.LastUsedAt != nil {
		used := key.LastUsedAt.Format(time.RFC3339)
		item.LastUsedAt = &used
	}
	return item
}

func (h *ListKeysHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	keys, err := h.svc.ListByOwner(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		service.RespondError(w, err)
		return
	}

	items := make([]keyItem, 0, len(keys))
	for _, key := range keys {
		items = append(items, toKeyItem(key))
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"keys": items})
}

// --- Create API Key ---

type CreateKeyHandler struct {
	svc *service.APIKeyService
}

func NewCreateKeyHandler(svc *service.APIKeyService) *CreateKeyHandler {
	return &CreateKeyHandler{svc: svc}
}

type createKeyRequest struct {
	OwnerAddress string `json:"ownerAddress"`
	Name         string `json:"name"`
}

func (h *CreateKeyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createKeyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	key, err := h.svc.Issue(r.Context(), req.OwnerAddress, req.Name)
	if err != nil {
		service.RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"key":     toKeyItem(key),
		"message": "API key created. You can view and copy it from your dashboard at any time.",
	})
}

// --- Delete API Key ---

type DeleteKeyHandler struct {
	svc *service.APIKeyService
}

func NewDeleteKeyHandler(svc *service.APIKeyService) *DeleteKeyHandler {
	return &DeleteKeyHandler{svc: svc}
}

func (h *DeleteKeyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "invalid_request", "Invalid API key ID")
		return
	}

	if err := h.svc.Revoke(r.Context(), id, r.URL.Query().Get("address")); err != nil {
		service.RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"message": "API key deleted successfully"})
}

// --- Toggle API Key ---

type ToggleKeyHandler struct {
	svc *service.APIKeyService
}

func NewToggleKeyHandler(svc *service.APIKeyService) *ToggleKeyHandler {
	return &ToggleKeyHandler{svc: svc}
}

type toggleKeyRequest struct {
	OwnerAddress string `json:"ownerAddress"`
	IsActive     bool   `json:"isActive"`
}

func (h *ToggleKeyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "invalid_request", "Invalid API key ID")
		return
	}

	var req toggleKeyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.svc.SetActive(r.Context(), id, req.OwnerAddress, req.IsActive); err != nil {
		service.RespondError(w, err)
		return
	}

	message := "API key deactivated"
	if req.IsActive {
		message = "API key activated"
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  message,
		"isActive": req.IsActive,
	})
}
