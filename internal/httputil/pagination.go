package httputil

import (
	"fmt"
	"strconv"
)

// MaxLimit is the server-side cap on page size, regardless of request.
const MaxLimit = 100

// ParsePagination parses and validates page/limit query parameters.
// Returns (page, limit, error). Defaults: page=1, limit=20. Limits above
// MaxLimit are clamped, not rejected.
func ParsePagination(pageStr, limitStr string) (int, int, error) {
	page := 1
	limit := 20

	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid page parameter: must be an integer")
		}
		if p < 1 {
			p = 1
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid limit parameter: must be an integer")
		}
		if l < 1 {
			l = 1
		}
		if l > MaxLimit {
			l = MaxLimit
		}
		limit = l
	}

	return page, limit, nil
}
