// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged admin lists.
const PageSize = 20

// MaxPageSize caps the limit a caller can request.
const MaxPageSize = 100

// Page holds a validated limit/offset window.
type Page struct {
	Limit  int64
	Offset int64
}

// Parse extracts "limit" and "offset" query parameters, clamping them to
// sane values. Missing or invalid values fall back to the defaults.
func Parse(r *http.Request) Page {
	return Page{
		Limit:  parseLimit(query.Get(r, "limit")),
		Offset: parseOffset(query.Get(r, "offset")),
	}
}

func parseLimit(s string) int64 {
	if s == "" {
		return PageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return PageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return int64(n)
}

func parseOffset(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return int64(n)
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start      int64 // 1-based start index (0 if no results)
	End        int64 // 1-based end index (0 if no results)
	PrevOffset int64 // offset for the previous page link
	NextOffset int64 // offset for the next page link
	HasPrev    bool
	HasNext    bool
}

// ComputeRange calculates display values given the window, the number of
// items actually shown, and the total count.
func ComputeRange(p Page, shown int, total int64) Range {
	if shown == 0 {
		return Range{HasPrev: p.Offset > 0}
	}

	prev := p.Offset - p.Limit
	if prev < 0 {
		prev = 0
	}

	return Range{
		Start:      p.Offset + 1,
		End:        p.Offset + int64(shown),
		PrevOffset: prev,
		NextOffset: p.Offset + int64(shown),
		HasPrev:    p.Offset > 0,
		HasNext:    p.Offset+int64(shown) < total,
	}
}
