package response

import (
	"net/url"

	"movie-catalog/pkg/utils"
)

// PaginatedResponse is the page-number envelope shared by all list endpoints.
type PaginatedResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`

	page    int
	perPage int
}

func NewPaginatedResponse[T any](results []T, page, perPage int, total int64) *PaginatedResponse[T] {
	if results == nil {
		results = []T{}
	}

	return &PaginatedResponse[T]{
		Count:   total,
		Results: results,
		page:    page,
		perPage: perPage,
	}
}

// WithLinks fills next and previous from base, the absolute request URL.
// Other query parameters are kept.
func (p *PaginatedResponse[T]) WithLinks(base *url.URL) *PaginatedResponse[T] {
	p.Next, p.Previous = nil, nil
	if base == nil {
		return p
	}

	totalPages := utils.CalculateTotalPages(p.Count, p.perPage)
	if p.page < totalPages {
		next := utils.PageLink(base, p.page+1)
		p.Next = &next
	}
	if p.page > 1 {
		prevPage := p.page - 1
		if prevPage > totalPages {
			prevPage = totalPages
		}
		prev := utils.PageLink(base, prevPage)
		p.Previous = &prev
	}

	return p
}
