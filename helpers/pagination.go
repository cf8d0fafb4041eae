package helpers

import (
	"strconv"
	"strings"

	"cayo/errs"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Page struct {
	Page int
	Size int
}

// Listing is the data payload of every list endpoint.
type Listing[T any] struct {
	Rows     []T `json:"rows"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// ParsePage reads page and pageSize query values. Blank values take the
// defaults; pageSize above the maximum is clamped.
func ParsePage(page, size string) (Page, error) {
	p := Page{Page: 1, Size: DefaultPageSize}
	if s := strings.TrimSpace(page); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Page{}, errs.NewValidation("INVALID_PAGE")
		}
		p.Page = n
	}
	if s := strings.TrimSpace(size); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Page{}, errs.NewValidation("INVALID_PAGE_SIZE")
		}
		p.Size = min(n, MaxPageSize)
	}
	return p, nil
}

// Paginate slices rows for p. A page past the end is empty, not an error.
func Paginate[T any](rows []T, p Page) Listing[T] {
	out := Listing[T]{Rows: []T{}, Total: len(rows), Page: p.Page, PageSize: p.Size}
	start := (p.Page - 1) * p.Size
	if start >= len(rows) {
		return out
	}
	end := min(start+p.Size, len(rows))
	out.Rows = rows[start:end]
	return out
}
