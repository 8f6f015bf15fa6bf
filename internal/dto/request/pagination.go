package request

import (
	"math"

	"movie-catalog/pkg/utils"
)

// PageSize is the fixed number of results per list page.
const PageSize = 10

// MaxPage is the largest page whose offset still fits in an int.
const MaxPage = math.MaxInt/PageSize + 1

type PaginatedRequest struct {
	Page    int
	PerPage int
}

// NewPaginatedRequest clamps page into [1, MaxPage] and uses the fixed page
// size.
func NewPaginatedRequest(page int) PaginatedRequest {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	return PaginatedRequest{Page: page, PerPage: PageSize}
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	if p.PerPage < 1 {
		return PageSize
	}
	if p.PerPage > 100 {
		return 100
	}
	return p.PerPage
}
