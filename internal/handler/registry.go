package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dipansrimany2006/mlink-client/internal/middleware"
	"github.com/dipansrimany2006/mlink-client/internal/model"
	"github.com/dipansrimany2006/mlink-client/internal/service"
)

// --- Register ---

type RegisterHandler struct {
	svc *service.RegistryService
}

func NewRegisterHandler(svc *service.RegistryService) *RegisterHandler {
	return &RegisterHandler{svc: svc}
}

type registerRequest struct {
	ActionURL   string   `json:"actionUrl"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Tags        []string `json:"tags"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	apiKey := middleware.GetAPIKey(r.Context())
	if apiKey == nil {
		RespondError(w, http.StatusUnauthorized, "invalid_api_key", "API key is required. Add x-api-key header.")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	mlink, err := h.svc.Register(r.Context(), apiKey, service.RegisterInput{
		ActionURL:   req.ActionURL,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Tags:        req.Tags,
	})
	if err != nil {
		service.RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"mlink":   ToOwnerView(mlink),
		"message": "MLink registered successfully. Status: pending review.",
	})
}

// --- Update ---

type UpdateMLinkHandler struct {
	svc *service.RegistryService
}

func NewUpdateMLinkHandler(svc *service.RegistryService) *UpdateMLinkHandler {
	return &UpdateMLinkHandler{svc: svc}
}

type updateMLinkRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Icon        *string  `json:"icon"`
	Tags        []string `json:"tags"`
}

func (h *UpdateMLinkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	apiKey := middleware.GetAPIKey(r.Context())
	if apiKey == nil {
		RespondError(w, http.StatusUnauthorized, "invalid_api_key", "API key is required. Add x-api-key header.")
		return
	}

	var req updateMLinkRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	mlink, err := h.svc.Update(r.Context(), apiKey.OwnerAddress, chi.URLParam(r, "id"), service.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Tags:        req.Tags,
	})
	if err != nil {
		service.RespondError(w, err)
		return
	}

	message := "MLink updated successfully."
	if mlink.Status == model.StatusPending && (req.Name != nil || req.Description != nil) {
		message = "MLink updated. Status reset to pending review."
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"mlink":   ToOwnerView(mlink),
		"message": message,
	})
}

// --- Delete ---

type DeleteMLinkHandler struct {
	svc *service.RegistryService
}

func NewDeleteMLinkHandler(svc *service.RegistryService) *DeleteMLinkHandler {
	return &DeleteMLinkHandler{svc: svc}
}

func (h *DeleteMLinkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	apiKey := middleware.GetAPIKey(r.Context())
	if apiKey == nil {
		RespondError(w, http.StatusUnauthorized, "invalid_api_key", "API key is required. Add x-api-key header.")
		return
	}

	if err := h.svc.Delete(r.Context(), apiKey.OwnerAddress, chi.URLParam(r, "id")); err != nil {
		service.RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"message": "MLink deleted successfully"})
}
