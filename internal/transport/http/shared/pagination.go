package shared

import (
	"net/url"
	"strconv"
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit with either offset or a 1-based page from query. Bad values
// fall back to the defaults; limit is capped at maxLimit.
func ParsePagination(query url.Values, defaultLimit, maxLimit int) Pagination {
	page := Pagination{Limit: defaultLimit}
	if v, ok := positiveInt(query.Get("limit")); ok && v > 0 {
		page.Limit = min(v, maxLimit)
	}
	if v, ok := positiveInt(query.Get("offset")); ok {
		page.Offset = v
	} else if v, ok := positiveInt(query.Get("page")); ok && v > 0 {
		page.Offset = (v - 1) * page.Limit
	}
	return page
}

func positiveInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
