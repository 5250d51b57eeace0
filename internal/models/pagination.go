package models

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPageNumber keeps (Number-1)*Size within an int for any allowed size
	MaxPageNumber = math.MaxInt32 / MaxPageSize
)

// Page is a 1-based page request
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page to sane bounds, using def as the size when none was given.
func (p Page) Normalize(def int) Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size < 1 {
		p.Size = def
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows to skip
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Pagination describes a page of results in responses
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	Total       int64 `json:"total"`
	Limit       int   `json:"limit"`
}

// NewPagination builds the response block for page p out of total rows
func NewPagination(p Page, total int64) Pagination {
	pages := 0
	if p.Size > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return Pagination{
		CurrentPage: p.Number,
		TotalPages:  pages,
		Total:       total,
		Limit:       p.Size,
	}
}
