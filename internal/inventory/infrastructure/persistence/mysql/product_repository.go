package mysql

import (
	"context"
	"errors"
	"strings"

	"github.com/wyfcoding/inventory/internal/inventory/domain"
	"gorm.io/gorm"
)

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Search(ctx context.Context, userID, nameContains string, offset, limit int) ([]*domain.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Where("user_id = ?", userID)
	if nameContains != "" {
		// LOWER on both sides keeps the match case-insensitive regardless
		// of column collation.
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(nameContains)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []*domain.Product
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error
	return products, total, err
}

func (r *productRepository) ListAll(ctx context.Context, userID string) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&products).Error
	return products, err
}

func (r *productRepository) Recent(ctx context.Context, userID string, n int) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(n).
		Find(&products).Error
	return products, err
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateSKU
		}
		return err
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, userID, id string) error {
	// Zero rows affected is fine: wrong id or another tenant's record both
	// land here and must look identical to the caller.
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Product{}).Error
}
