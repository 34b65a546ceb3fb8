package handler

import (
	"net/http"

	"github.com/dipansrimany2006/mlink-client/internal/httputil"
	"github.com/dipansrimany2006/mlink-client/internal/service"
	"github.com/dipansrimany2006/mlink-client/internal/store"
)

// --- Public listing ---

type ListMLinksHandler struct {
	svc *service.RegistryService
}

func NewListMLinksHandler(svc *service.RegistryService) *ListMLinksHandler {
	return &ListMLinksHandler{svc: svc}
}

func (h *ListMLinksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit, err := httputil.ParsePagination(q.Get("page"), q.Get("limit"))
	if err != nil {
		RespondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	mlinks, total, err := h.svc.ListPublic(r.Context(), store.PublicFilters{
		Tag:    q.Get("tag"),
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		service.RespondError(w, err)
		return
	}

	items := make([]MLinkView, 0, len(mlinks))
	for _, m := range mlinks {
		items = append(items, ToPublicView(m))
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"mlinks":     items,
		"pagination": httputil.NewPagination(page, limit, total),
	})
}

// --- Owner listing ---

type MyMLinksHandler struct {
	svc *service.RegistryService
}

func NewMyMLinksHandler(svc *service.RegistryService) *MyMLinksHandler {
	return &MyMLinksHandler{svc: svc}
}

func (h *MyMLinksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mlinks, err := h.svc.ListMine(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		service.RespondError(w, err)
		return
	}

	items := make([]MLinkView, 0, len(mlinks))
	for _, m := range mlinks {
		items = append(items, ToOwnerView(m))
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"mlinks": items})
}

// --- Runtime validation (CORS-open) ---

type ValidateHandler struct {
	svc *service.RegistryService
}

func NewValidateHandler(svc *service.RegistryService) *ValidateHandler {
	return &ValidateHandler{svc: svc}
}

type validateResponse struct {
	IsRegistered bool       `json:"isRegistered"`
	Status       *string    `json:"status"`
	MLink        *MLinkView `json:"mlink,omitempty"`
	Warning      string     `json:"warning,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// validateFailure is the 4xx/5xx body. Unlike the not-registered outcome it
// carries no status field at all.
type validateFailure struct {
	IsRegistered bool   `json:"isRegistered"`
	Error        string `json:"error"`
}

func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		RespondJSON(w, http.StatusBadRequest, validateFailure{
			Error: "url parameter is required",
		})
		return
	}

	outcome, err := h.svc.Validate(r.Context(), rawURL)
	if err != nil {
		RespondJSON(w, http.StatusInternalServerError, validateFailure{
			Error: "Failed to validate MLink",
		})
		return
	}

	// Absence is a normal outcome: 200, not an error status.
	if !outcome.IsRegistered {
		RespondJSON(w, http.StatusOK, validateResponse{
			IsRegistered: false,
			Error:        outcome.Guidance,
		})
		return
	}

	status := string(outcome.MLink.Status)
	view := ToValidationView(outcome.MLink)
	RespondJSON(w, http.StatusOK, validateResponse{
		IsRegistered: true,
		Status:       &status,
		MLink:        &view,
		Warning:      outcome.Warning,
	})
}
