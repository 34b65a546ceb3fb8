package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/dipansrimany2006/mlink-client/internal/model"
	"github.com/dipansrimany2006/mlink-client/internal/service"
	"github.com/dipansrimany2006/mlink-client/internal/store"
	"github.com/dipansrimany2006/mlink-client/internal/validator"
)

// stubMLinkStore serves a fixed set of entries. Write operations are not
// exercised by these handler tests.
type stubMLinkStore struct {
	mlinks []*model.MLink
}

func (s *stubMLinkStore) CreateMLink(context.Context, *model.MLink) error { return nil }

func (s *stubMLinkStore) GetMLinkByMLinkID(_ context.Context, mlinkID string) (*model.MLink, error) {
	for _, m := range s.mlinks {
		if m.MLinkID == mlinkID {
			return m, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *stubMLinkStore) GetMLinkByActionURL(_ context.Context, actionURL string) (*model.MLink, error) {
	for _, m := range s.mlinks {
		if m.ActionURL == actionURL {
			return m, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *stubMLinkStore) ListPublicMLinks(_ context.Context, _ store.PublicFilters) ([]*model.MLink, int, error) {
	approved := []*model.MLink{}
	for _, m := range s.mlinks {
		if m.Status == model.StatusApproved {
			approved = append(approved, m)
		}
	}
	return approved, len(approved), nil
}

func (s *stubMLinkStore) ListMLinksByOwner(_ context.Context, owner string) ([]*model.MLink, error) {
	out := []*model.MLink{}
	for _, m := range s.mlinks {
		if m.OwnerAddress == owner {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMLinkStore) ListMLinksForModeration(_ context.Context, _ store.ModerationFilters) ([]*model.MLink, int, error) {
	return s.mlinks, len(s.mlinks), nil
}

func (s *stubMLinkStore) CountMLinksByStatus(context.Context) (store.StatusCounts, error) {
	var counts store.StatusCounts
	for _, m := range s.mlinks {
		switch m.Status {
		case model.StatusPending:
			counts.Pending++
		case model.StatusApproved:
			counts.Approved++
		case model.StatusBlocked:
			counts.Blocked++
		}
		counts.All++
	}
	return counts, nil
}

func (s *stubMLinkStore) CountMLinks(context.Context) (int, error) { return len(s.mlinks), nil }

func (s *stubMLinkStore) UpdateMLink(context.Context, string, store.MLinkUpdates) error { return nil }

func (s *stubMLinkStore) DeleteMLink(context.Context, string, string) error { return nil }

func (s *stubMLinkStore) SetMLinkStatus(_ context.Context, mlinkID string, status model.MLinkStatus, reason, adminAddress string) error {
	for _, m := range s.mlinks {
		if m.MLinkID == mlinkID {
			now := time.Now().UTC()
			m.Status = status
			m.StatusReason = reason
			m.StatusUpdatedAt = &now
			m.StatusUpdatedBy = adminAddress
			return nil
		}
	}
	return store.ErrNotFound
}

func stubMLink(mlinkID, actionURL string, status model.MLinkStatus) *model.MLink {
	return &model.MLink{
		MLinkID:      mlinkID,
		ActionURL:    actionURL,
		Name:         "Swap Widget",
		Description:  "One-click token swaps",
		Icon:         "https://cdn.example.com/swap.png",
		OwnerAddress: "0xowner",
		Tags:         []string{"defi"},
		Status:       status,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func newValidateHandler(mlinks ...*model.MLink) *ValidateHandler {
	svc := service.NewRegistryService(&stubMLinkStore{mlinks: mlinks}, validator.New(false))
	return NewValidateHandler(svc)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestValidateHandlerMissingURL(t *testing.T) {
	h := newValidateHandler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/registry/validate", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]json.RawMessage
	decodeBody(t, rec, &body)
	if string(body["error"]) != `"url parameter is required"` {
		t.Errorf("unexpected error: %s", body["error"])
	}
	if string(body["isRegistered"]) != "false" {
		t.Errorf("unexpected isRegistered: %s", body["isRegistered"])
	}
	// The 400 body carries no status field, unlike the not-registered 200.
	if _, present := body["status"]; present {
		t.Error("status key should be absent from the 400 body")
	}
}

func TestValidateHandlerUnregistered(t *testing.T) {
	h := newValidateHandler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/registry/validate?url=https://unknown.example.com/actions", nil))

	// Absence is a normal outcome, not an error status.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]json.RawMessage
	decodeBody(t, rec, &body)
	if string(body["isRegistered"]) != "false" {
		t.Errorf("unexpected isRegistered: %s", body["isRegistered"])
	}
	if raw, present := body["status"]; !present || string(raw) != "null" {
		t.Errorf("expected explicit null status, got %s (present=%v)", raw, present)
	}
	if string(body["error"]) == "" || string(body["error"]) == `""` {
		t.Error("expected registration guidance in error field")
	}
	if _, present := body["warning"]; present {
		t.Errorf("unexpected warning: %s", body["warning"])
	}
}

func TestValidateHandlerByStatus(t *testing.T) {
	cases := []struct {
		name        string
		status      model.MLinkStatus
		wantWarning string
	}{
		{"pending", model.StatusPending, "This MLink is pending review and may not be fully accessible."},
		{"approved", model.StatusApproved, ""},
		{"blocked", model.StatusBlocked, "This MLink has been blocked for policy violations."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actionURL := "https://dapp.example.com/actions/" + tc.name
			h := newValidateHandler(stubMLink("ml_1", actionURL, tc.status))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
				"/v1/registry/validate?url="+url.QueryEscape(actionURL), nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var body struct {
				IsRegistered bool      `json:"isRegistered"`
				Status       *string   `json:"status"`
				MLink        MLinkView `json:"mlink"`
				Warning      string    `json:"warning"`
			}
			decodeBody(t, rec, &body)
			if !body.IsRegistered {
				t.Fatal("expected isRegistered=true")
			}
			if body.Status == nil || *body.Status != string(tc.status) {
				t.Errorf("expected status %q, got %v", tc.status, body.Status)
			}
			if body.Warning != tc.wantWarning {
				t.Errorf("expected warning %q, got %q", tc.wantWarning, body.Warning)
			}
			if body.MLink.MLinkID != "ml_1" || body.MLink.Name != "Swap Widget" {
				t.Errorf("unexpected mlink summary: %+v", body.MLink)
			}
			// The validation view is a compact summary without the action URL.
			if body.MLink.ActionURL != "" {
				t.Errorf("validation view should omit actionUrl, got %q", body.MLink.ActionURL)
			}
		})
	}
}

func TestListMLinksHandlerShape(t *testing.T) {
	svc := service.NewRegistryService(&stubMLinkStore{mlinks: []*model.MLink{
		stubMLink("ml_1", "https://a.example.com/actions", model.StatusApproved),
		stubMLink("ml_2", "https://b.example.com/actions", model.StatusPending),
	}}, validator.New(false))
	h := NewListMLinksHandler(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/registry/list", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		MLinks     []MLinkView `json:"mlinks"`
		Pagination struct {
			Page       int `json:"page"`
			Limit      int `json:"limit"`
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	decodeBody(t, rec, &body)
	if len(body.MLinks) != 1 {
		t.Fatalf("expected 1 approved entry, got %d", len(body.MLinks))
	}
	if body.MLinks[0].Status != "" {
		t.Errorf("public view should omit status, got %q", body.MLinks[0].Status)
	}
	if body.Pagination.Page != 1 || body.Pagination.Limit != 20 || body.Pagination.Total != 1 || body.Pagination.TotalPages != 1 {
		t.Errorf("unexpected pagination: %+v", body.Pagination)
	}
}

func TestMyMLinksHandlerRequiresAddress(t *testing.T) {
	svc := service.NewRegistryService(&stubMLinkStore{}, validator.New(false))
	h := NewMyMLinksHandler(svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/registry/my-mlinks", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, rec, &body)
	if body.Error.Code != "invalid_request" {
		t.Errorf("unexpected error code: %q", body.Error.Code)
	}
}
