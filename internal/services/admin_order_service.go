package services

import (
	"context"
	"io"
	"time"

	"github.com/tealeg/xlsx"

	"mymat/internal/domain"
	"mymat/internal/metrics"
	"mymat/internal/repos"
)

type AdminOrderService struct {
	Orders  *repos.OrderRepo
	Metrics *metrics.Metrics
}

func NewAdminOrderService(orders *repos.OrderRepo, m *metrics.Metrics) *AdminOrderService {
	return &AdminOrderService{Orders: orders, Metrics: m}
}

// List returns the newest orders, narrowed by q (id fragment or email) when given.
func (s *AdminOrderService) List(ctx context.Context, q string) ([]domain.Order, error) {
	return s.Orders.Search(ctx, q, 200)
}

func (s *AdminOrderService) Detail(ctx context.Context, id string) (domain.Order, []domain.OrderItem, error) {
	return s.Orders.Get(ctx, id)
}

// ChangeStatus applies an admin's status choice. It returns the previous status; when that equals
// the requested one nothing changed.
func (s *AdminOrderService) ChangeStatus(ctx context.Context, id, status string) (domain.OrderStatus, domain.OrderStatus, error) {
	to, ok := domain.ParseOrderStatus(status)
	if !ok {
		return "", "", invalid("status", "Unknown order status")
	}
	from, err := s.Orders.UpdateStatus(ctx, id, to)
	if err != nil {
		return from, to, err
	}
	if from != to && s.Metrics != nil {
		s.Metrics.StatusChanges.WithLabelValues(string(from), string(to)).Inc()
	}
	return from, to, nil
}

var exportHeaders = []string{"Order ID", "Created", "Customer", "Email", "Address", "Status", "Subtotal", "Tax", "Total"}

// Export writes every order (newest first) as an xlsx workbook.
func (s *AdminOrderService) Export(ctx context.Context, w io.Writer) error {
	orders, err := s.Orders.ListLatest(ctx, 100000)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return err
	}
	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}
	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(o.ID)
		row.AddCell().SetString(o.CreatedAt)
		row.AddCell().SetString(o.CustomerName)
		row.AddCell().SetString(o.CustomerEmail)
		row.AddCell().SetString(o.ShippingAddress)
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetFloat(o.Subtotal.InexactFloat64())
		row.AddCell().SetFloat(o.Tax.InexactFloat64())
		row.AddCell().SetFloat(o.Total.InexactFloat64())
	}
	return file.Write(w)
}

// ExportName is the download file name for an export made at t.
func ExportName(t time.Time) string {
	return "orders-" + t.UTC().Format("20060102-150405") + ".xlsx"
}
