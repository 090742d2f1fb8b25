package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold classifies quantities when a product has no
// threshold of its own.
const DefaultLowStockThreshold = 5

// Product is an inventory record owned by exactly one user. Every read and
// write goes through a repository method scoped by UserID.
type Product struct {
	ID         string          `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID     string          `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:uniq_user_sku,priority:1;index:idx_user_created,priority:1" json:"-"`
	Name       string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	SKU        *string         `gorm:"column:sku;type:varchar(100);uniqueIndex:uniq_user_sku,priority:2" json:"sku"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(20,4);not null;default:0" json:"price"`
	Quantity   int             `gorm:"column:quantity;not null;default:0" json:"quantity"`
	LowStockAt *int            `gorm:"column:low_stock_at" json:"low_stock_at"`
	CreatedAt  time.Time       `gorm:"column:created_at;index:idx_user_created,priority:2" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// StockLevel classifies this product's quantity against its own threshold
// (DefaultLowStockThreshold when unset): 0 out of stock, 1 low, 2 in stock.
func (p *Product) StockLevel() int {
	if p.Quantity == 0 {
		return 0
	}
	threshold := DefaultLowStockThreshold
	if p.LowStockAt != nil {
		threshold = *p.LowStockAt
	}
	if p.Quantity <= threshold {
		return 1
	}
	return 2
}

// Value is price multiplied by quantity.
func (p *Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
