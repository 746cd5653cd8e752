package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"mymat/internal/domain"
	"mymat/internal/repos"
)

type DashboardService struct {
	Prods  *repos.ProductRepo
	Cats   *repos.CategoryRepo
	Orders *repos.OrderRepo
	Now    func() time.Time
}

func NewDashboardService(prods *repos.ProductRepo, cats *repos.CategoryRepo, orders *repos.OrderRepo) *DashboardService {
	return &DashboardService{Prods: prods, Cats: cats, Orders: orders, Now: time.Now}
}

// Stats gathers the catalog and order counts concurrently, plus sales for the last seven days
// labelled by weekday (oldest first, zero-filled).
func (s *DashboardService) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	today := s.Now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -6)
	var daily []domain.DaySales

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { st.Products, err = s.Prods.Count(gctx); return })
	g.Go(func() (err error) { st.Categories, err = s.Cats.Count(gctx); return })
	g.Go(func() (err error) { st.Orders, err = s.Orders.Count(gctx); return })
	g.Go(func() (err error) { daily, err = s.Orders.SalesByDay(gctx, since); return })
	if err := g.Wait(); err != nil {
		return domain.Stats{}, err
	}

	byDay := make(map[string]decimal.Decimal, len(daily))
	for _, d := range daily {
		byDay[d.Day] = d.Total
	}
	for i := 0; i < 7; i++ {
		day := since.AddDate(0, 0, i)
		total, ok := byDay[day.Format(time.DateOnly)]
		if !ok {
			total = decimal.Zero
		}
		st.Sales = append(st.Sales, domain.DaySales{Day: day.Weekday().String()[:3], Total: total})
	}
	return st, nil
}
