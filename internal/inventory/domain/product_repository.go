package domain

import "context"

// ProductRepository is the store collaborator. Every method takes the owning
// user's id so cross-tenant access cannot be expressed.
type ProductRepository interface {
	// Search returns one page of the user's products whose name contains
	// nameContains case-insensitively (no filter when empty), ordered by
	// created_at descending, plus the filtered total count.
	Search(ctx context.Context, userID, nameContains string, offset, limit int) ([]*Product, int64, error)

	// ListAll returns every product the user owns.
	ListAll(ctx context.Context, userID string) ([]*Product, error)

	// Recent returns the user's n most recently created products.
	Recent(ctx context.Context, userID string, n int) ([]*Product, error)

	// Create inserts a product. A per-owner sku collision is reported as
	// ErrDuplicateSKU.
	Create(ctx context.Context, product *Product) error

	// Delete removes the product matching both id and userID. Matching
	// nothing is not an error.
	Delete(ctx context.Context, userID, id string) error
}

// EventPublisher announces product lifecycle changes after they commit.
type EventPublisher interface {
	ProductCreated(ctx context.Context, product *Product)
	ProductDeleted(ctx context.Context, userID, id string)
}
