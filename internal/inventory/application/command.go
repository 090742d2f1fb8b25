package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/inventory/internal/inventory/domain"
	"github.com/wyfcoding/inventory/pkg/logger"
)

// ProductInput is raw form/JSON input for a create; numeric fields arrive as
// text and are coerced during validation.
type ProductInput struct {
	Name       string `json:"name" form:"name"`
	SKU        string `json:"sku" form:"sku"`
	Price      string `json:"price" form:"price"`
	Quantity   string `json:"quantity" form:"quantity"`
	LowStockAt string `json:"low_stock_at" form:"low_stock_at"`
}

// CommandService validates and persists product mutations.
type CommandService struct {
	repo   domain.ProductRepository
	events domain.EventPublisher
}

func NewCommandService(repo domain.ProductRepository, events domain.EventPublisher) *CommandService {
	return &CommandService{repo: repo, events: events}
}

// CreateProduct validates input and inserts a product owned by userID.
// It returns *domain.ValidationError for malformed input (nothing written),
// domain.ErrDuplicateSKU on a uniqueness collision, and domain.ErrWriteFailed
// for any other store error. The created event fires only after the insert
// commits.
func (s *CommandService) CreateProduct(ctx context.Context, userID string, input ProductInput) (*domain.Product, error) {
	product, verr := validateProduct(input)
	if verr != nil {
		return nil, verr
	}

	product.ID = uuid.New().String()
	product.UserID = userID
	product.CreatedAt = time.Now()

	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicateSKU) {
			return nil, domain.ErrDuplicateSKU
		}
		logger.Error(ctx, "Failed to create product", "user_id", userID, "error", err)
		return nil, domain.ErrWriteFailed
	}

	if s.events != nil {
		s.events.ProductCreated(ctx, product)
	}

	return product, nil
}

// DeleteProduct removes at most one product matching both id and owner.
// Matching nothing, including another tenant's id, is a silent success so
// foreign record existence cannot be probed through error differences.
func (s *CommandService) DeleteProduct(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		logger.Error(ctx, "Failed to delete product", "user_id", userID, "product_id", id, "error", err)
		return domain.ErrWriteFailed
	}

	if s.events != nil {
		s.events.ProductDeleted(ctx, userID, id)
	}

	return nil
}

func validateProduct(input ProductInput) (*domain.Product, *domain.ValidationError) {
	fields := map[string]string{}
	product := &domain.Product{}

	product.Name = strings.TrimSpace(input.Name)
	if product.Name == "" {
		fields["name"] = "Name is required"
	}

	price, err := decimal.NewFromString(strings.TrimSpace(input.Price))
	switch {
	case err != nil:
		fields["price"] = "Price must be a number"
	case price.IsNegative():
		fields["price"] = "Price must be non-negative"
	default:
		product.Price = price
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(input.Quantity))
	switch {
	case err != nil:
		fields["quantity"] = "Quantity must be an integer"
	case quantity < 0:
		fields["quantity"] = "Quantity must be non-negative"
	default:
		product.Quantity = quantity
	}

	if sku := strings.TrimSpace(input.SKU); sku != "" {
		product.SKU = &sku
	}

	if raw := strings.TrimSpace(input.LowStockAt); raw != "" {
		lowStockAt, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fields["low_stock_at"] = "Low stock threshold must be an integer"
		case lowStockAt < 0:
			fields["low_stock_at"] = "Low stock threshold must be non-negative"
		default:
			product.LowStockAt = &lowStockAt
		}
	}

	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	return product, nil
}
