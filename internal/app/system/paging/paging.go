// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize caps how many rows a single paged request may return.
const PageSize = 50

// ParseLimit extracts the "limit" query parameter. Returns 0 when the
// parameter is absent or invalid, which callers treat as "no paging".
// Values above PageSize are clamped.
func ParseLimit(r *http.Request) int {
	s := query.Get(r, "limit")
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0
	}
	if n > PageSize {
		return PageSize
	}
	return n
}

// ParseAfter extracts the "after" keyset cursor, the id of the last row
// the caller has already seen.
func ParseAfter(r *http.Request) string {
	return query.Get(r, "after")
}

// Result reports whether rows exist beyond the trimmed page.
type Result struct {
	HasNext bool
}

// TrimPage trims a look-ahead slice for keyset pagination. Call it after
// fetching limit+1 rows; it shortens the slice in place to limit rows and
// reports whether the extra row existed. A limit of 0 leaves the slice
// untouched.
func TrimPage[T any](rows *[]T, limit int) Result {
	if limit <= 0 || len(*rows) <= limit {
		return Result{}
	}
	*rows = (*rows)[:limit]
	return Result{HasNext: true}
}
