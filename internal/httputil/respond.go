package httputil

import (
	"encoding/json"
	"net/http"
)

// ErrorDetail carries a machine-readable code and a message suitable for
// direct display. Internal error detail never reaches this struct.
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the standard JSON error response body: {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Pagination is the standard paging block on list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the paging block for a result set.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes a JSON error response.
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
