package application

import (
	"context"
	"sort"
	"strings"

	"github.com/wyfcoding/inventory/internal/inventory/domain"
)

// fakeProductRepo is an in-memory ProductRepository that records the
// parameters it was called with.
type fakeProductRepo struct {
	products []*domain.Product

	createErr error
	deleteErr error

	lastOffset int
	lastLimit  int
	deleted    []string
}

func (f *fakeProductRepo) owned(userID string) []*domain.Product {
	var out []*domain.Product
	for _, p := range f.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out
}

func (f *fakeProductRepo) Search(ctx context.Context, userID, nameContains string, offset, limit int) ([]*domain.Product, int64, error) {
	f.lastOffset = offset
	f.lastLimit = limit

	var matched []*domain.Product
	for _, p := range f.owned(userID) {
		if nameContains == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(nameContains)) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeProductRepo) ListAll(ctx context.Context, userID string) ([]*domain.Product, error) {
	return f.owned(userID), nil
}

func (f *fakeProductRepo) Recent(ctx context.Context, userID string, n int) ([]*domain.Product, error) {
	owned := f.owned(userID)
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	if len(owned) > n {
		owned = owned[:n]
	}
	return owned, nil
}

func (f *fakeProductRepo) Create(ctx context.Context, product *domain.Product) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.products = append(f.products, product)
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, userID, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	var kept []*domain.Product
	for _, p := range f.products {
		if p.ID == id && p.UserID == userID {
			continue
		}
		kept = append(kept, p)
	}
	f.products = kept
	return nil
}
