package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dipansrimany2006/mlink-client/internal/handler"
	"github.com/dipansrimany2006/mlink-client/internal/httputil"
	"github.com/dipansrimany2006/mlink-client/internal/model"
	"github.com/dipansrimany2006/mlink-client/internal/service"
	"github.com/dipansrimany2006/mlink-client/internal/store"
)

// AdminAddressHeader identifies the calling moderator. The address is
// checked against the allow-list but not cryptographically verified.
const AdminAddressHeader = "x-admin-address"

// --- Admin check ---

type CheckHandler struct {
	svc *service.ModerationService
}

func NewCheckHandler(svc *service.ModerationService) *CheckHandler {
	return &CheckHandler{svc: svc}
}

func (h *CheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	address := r.Header.Get(AdminAddressHeader)
	handler.RespondJSON(w, http.StatusOK, map[string]bool{
		"isAdmin": h.svc.IsAdmin(address),
	})
}

// --- List MLinks for moderation ---

type ListMLinksHandler struct {
	svc *service.ModerationService
}

func NewListMLinksHandler(svc *service.ModerationService) *ListMLinksHandler {
	return &ListMLinksHandler{svc: svc}
}

func (h *ListMLinksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit, err := httputil.ParsePagination(q.Get("page"), q.Get("limit"))
	if err != nil {
		handler.RespondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	listing, err := h.svc.ListForModeration(r.Context(), r.Header.Get(AdminAddressHeader), store.ModerationFilters{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		service.RespondError(w, err)
		return
	}

	items := make([]handler.MLinkView, 0, len(listing.MLinks))
	for _, m := range listing.MLinks {
		items = append(items, handler.ToModerationView(m))
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"mlinks":     items,
		"pagination": httputil.NewPagination(page, limit, listing.Total),
		"counts":     listing.Counts,
	})
}

// --- Get single MLink ---

type GetMLinkHandler struct {
	svc *service.ModerationService
}

func NewGetMLinkHandler(svc *service.ModerationService) *GetMLinkHandler {
	return &GetMLinkHandler{svc: svc}
}

func (h *GetMLinkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mlink, err := h.svc.GetForModeration(r.Context(), r.Header.Get(AdminAddressHeader), chi.URLParam(r, "id"))
	if err != nil {
		service.RespondError(w, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"mlink": handler.ToModerationView(mlink),
	})
}

// --- Set MLink status ---

type SetStatusHandler struct {
	svc *service.ModerationService
}

func NewSetStatusHandler(svc *service.ModerationService) *SetStatusHandler {
	return &SetStatusHandler{svc: svc}
}

type setStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func (h *SetStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		handler.RespondError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	mlink, err := h.svc.SetStatus(r.Context(), r.Header.Get(AdminAddressHeader),
		chi.URLParam(r, "id"), model.MLinkStatus(req.Status), req.Reason)
	if err != nil {
		service.RespondError(w, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"mlink":   handler.ToModerationView(mlink),
	})
}
