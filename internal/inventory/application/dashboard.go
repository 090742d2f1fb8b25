package application

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/inventory/internal/inventory/domain"
	"golang.org/x/sync/errgroup"
)

const (
	histogramWeeks = 12
	recentCount    = 5
)

// WeekBucket is one 7-day window of the creation histogram.
type WeekBucket struct {
	// Week is the window's start date, formatted MM/DD.
	Week     string `json:"week"`
	Products int    `json:"products"`
}

// StockBuckets classifies the whole product set by quantity.
type StockBuckets struct {
	OutOfStock int `json:"out_of_stock"`
	LowStock   int `json:"low_stock"`
	InStock    int `json:"in_stock"`
	// Percentages are each bucket over the total, rounded independently;
	// they are not forced to sum to 100.
	OutOfStockPct int `json:"out_of_stock_pct"`
	LowStockPct   int `json:"low_stock_pct"`
	InStockPct    int `json:"in_stock_pct"`
}

// RecentProduct is a row of the dashboard's recent list.
type RecentProduct struct {
	Product *domain.Product `json:"product"`
	// StockLevel uses the product's own threshold: 0 out, 1 low, 2 in stock.
	StockLevel int `json:"stock_level"`
}

// DashboardSnapshot aggregates a user's inventory.
type DashboardSnapshot struct {
	TotalProducts int             `json:"total_products"`
	LowStockCount int             `json:"low_stock_count"`
	TotalValue    decimal.Decimal `json:"total_value"`
	WeeklyCreated []WeekBucket    `json:"weekly_created"`
	StockBuckets  StockBuckets    `json:"stock_buckets"`
	Recent        []RecentProduct `json:"recent"`
}

// DashboardService derives dashboard aggregates from a user's product set.
type DashboardService struct {
	repo domain.ProductRepository
	now  func() time.Time
}

func NewDashboardService(repo domain.ProductRepository) *DashboardService {
	return &DashboardService{repo: repo, now: time.Now}
}

// ComputeDashboard fetches the user's full product set and their most recent
// products concurrently, then computes every metric in memory.
func (s *DashboardService) ComputeDashboard(ctx context.Context, userID string) (*DashboardSnapshot, error) {
	var (
		all    []*domain.Product
		recent []*domain.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = s.repo.ListAll(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.repo.Recent(gctx, userID, recentCount)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot := &DashboardSnapshot{
		TotalProducts: len(all),
		TotalValue:    decimal.Zero,
		WeeklyCreated: weeklyHistogram(all, s.now()),
		Recent:        make([]RecentProduct, 0, len(recent)),
	}

	for _, p := range all {
		snapshot.TotalValue = snapshot.TotalValue.Add(p.Value())

		// Aggregate low-stock counting deliberately uses the fixed
		// threshold, not each product's own low_stock_at value.
		if p.LowStockAt != nil && p.Quantity <= domain.DefaultLowStockThreshold {
			snapshot.LowStockCount++
		}

		switch {
		case p.Quantity == 0:
			snapshot.StockBuckets.OutOfStock++
		case p.Quantity <= domain.DefaultLowStockThreshold:
			snapshot.StockBuckets.LowStock++
		default:
			snapshot.StockBuckets.InStock++
		}
	}

	if snapshot.TotalProducts > 0 {
		total := float64(snapshot.TotalProducts)
		snapshot.StockBuckets.OutOfStockPct = roundPct(float64(snapshot.StockBuckets.OutOfStock), total)
		snapshot.StockBuckets.LowStockPct = roundPct(float64(snapshot.StockBuckets.LowStock), total)
		snapshot.StockBuckets.InStockPct = roundPct(float64(snapshot.StockBuckets.InStock), total)
	}

	for _, p := range recent {
		snapshot.Recent = append(snapshot.Recent, RecentProduct{
			Product:    p,
			StockLevel: p.StockLevel(),
		})
	}

	return snapshot, nil
}

// weeklyHistogram buckets creation timestamps into twelve 7-day windows,
// oldest first. Each window's start is derived independently from now so
// windows cannot drift apart: start(i) = midnight(now - i*7d), covering
// [start, start+7d).
func weeklyHistogram(products []*domain.Product, now time.Time) []WeekBucket {
	buckets := make([]WeekBucket, 0, histogramWeeks)

	for i := histogramWeeks - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -7*i)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 0, 7)

		count := 0
		for _, p := range products {
			if !p.CreatedAt.Before(start) && p.CreatedAt.Before(end) {
				count++
			}
		}

		buckets = append(buckets, WeekBucket{
			Week:     start.Format("01/02"),
			Products: count,
		})
	}

	return buckets
}

func roundPct(part, total float64) int {
	return int(math.Round(part / total * 100))
}
