package application

import (
	"context"
	"strings"

	"github.com/wyfcoding/inventory/internal/inventory/domain"
)

// DefaultPageSize is the listing page size.
const DefaultPageSize = 10

// ProductPage is one page of a user's inventory listing.
type ProductPage struct {
	Items      []*domain.Product `json:"items"`
	TotalCount int64             `json:"total_count"`
	TotalPages int               `json:"total_pages"`
	Page       int               `json:"page"`
	Query      string            `json:"q"`
}

// QueryService serves the inventory listing.
type QueryService struct {
	repo     domain.ProductRepository
	pageSize int
}

func NewQueryService(repo domain.ProductRepository) *QueryService {
	return &QueryService{repo: repo, pageSize: DefaultPageSize}
}

// ListProducts returns the requested page of the user's products. The search
// text is trimmed and, when non-empty, matched case-insensitively against
// product names. Any page below 1 is treated as page 1. A page past the end
// of the data yields an empty item list with the true total.
func (s *QueryService) ListProducts(ctx context.Context, userID, searchText string, page int) (*ProductPage, error) {
	q := strings.TrimSpace(searchText)
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * s.pageSize
	items, total, err := s.repo.Search(ctx, userID, q, offset, s.pageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Product{}
	}

	totalPages := int((total + int64(s.pageSize) - 1) / int64(s.pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	return &ProductPage{
		Items:      items,
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		Query:      q,
	}, nil
}
