package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/billing"
	"github.com/mana-finance/mana-backend-go/internal/domain"
	"github.com/mana-finance/mana-backend-go/internal/infra/observability"
	"github.com/mana-finance/mana-backend-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var invoiceTracer = otel.Tracer("service/invoices")

// InvoiceService produces per-card invoice histories over a rolling window
// of months around "now".
type InvoiceService struct {
	store         port.FinanceStore
	metrics       *observability.Metrics
	logger        *zap.Logger
	monthsBack    int
	monthsForward int
}

// NewInvoiceService creates a new invoice service. monthsBack/monthsForward
// bound the history window.
func NewInvoiceService(store port.FinanceStore, metrics *observability.Metrics, logger *zap.Logger, monthsBack, monthsForward int) *InvoiceService {
	if monthsBack < 0 {
		monthsBack = 6
	}
	if monthsForward < 0 {
		monthsForward = 12
	}
	return &InvoiceService{
		store:         store,
		metrics:       metrics,
		logger:        logger,
		monthsBack:    monthsBack,
		monthsForward: monthsForward,
	}
}

// History returns the card's invoices for every month in the window, one
// summary per month, oldest first. Months are computed concurrently; each
// month only reads the shared transaction slice.
func (s *InvoiceService) History(ctx context.Context, userID, cardID string) (_ *domain.InvoiceHistory, err error) {
	ctx, span := invoiceTracer.Start(ctx, "InvoiceService.History")
	defer span.End()
	span.SetAttributes(attribute.String("card.id", cardID))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("invoice_history", time.Since(start))
		s.metrics.IncrRequest(statusLabel(err))
	}()

	card, err := s.store.GetCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	total := s.monthsBack + s.monthsForward + 1

	// One fetch covers the whole window: the earliest cycle can reach
	// about two months before the first reference month.
	fromY, fromM := addCalendarMonths(now.Year(), now.Month(), -(s.monthsBack + 2))
	toY, toM := addCalendarMonths(now.Year(), now.Month(), s.monthsForward)
	from := time.Date(fromY, fromM, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(toY, toM+1, 1, 0, 0, 0, 0, time.Local).Add(-time.Nanosecond)

	txns, err := s.store.ListTransactions(ctx, userID, domain.TransactionFilter{From: &from, To: &to})
	if err != nil {
		s.metrics.IncrExternalError("supabase")
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	invoices := make([]domain.InvoiceSummary, total)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := 0; i < total; i++ {
		idx := i
		g.Go(func() error {
			y, m := addCalendarMonths(now.Year(), now.Month(), idx-s.monthsBack)
			invoices[idx] = buildInvoiceSummary(card, y, m, txns, now)
			s.metrics.IncrInvoicesComputed("history")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("invoice history computed",
		zap.String("card_id", cardID),
		zap.Int("months", total),
	)
	return &domain.InvoiceHistory{
		CardID:   card.ID,
		CardName: card.Name,
		Invoices: invoices,
	}, nil
}

// Invoice returns one card's invoice summary for a specific month.
func (s *InvoiceService) Invoice(ctx context.Context, userID, cardID string, year int, month time.Month) (*domain.InvoiceSummary, error) {
	ctx, span := invoiceTracer.Start(ctx, "InvoiceService.Invoice")
	defer span.End()

	card, err := s.store.GetCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	cycle := billing.ResolveCycle(card, year, month)
	from := cycle.Start
	// Payments are matched by calendar month, which can extend past the
	// cycle close.
	to := time.Date(year, month+1, 1, 0, 0, 0, 0, time.Local).Add(-time.Nanosecond)
	if cycle.End.After(to) {
		to = cycle.End
	}

	txns, err := s.store.ListTransactions(ctx, userID, domain.TransactionFilter{From: &from, To: &to})
	if err != nil {
		s.metrics.IncrExternalError("supabase")
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	s.metrics.IncrInvoicesComputed("history")
	summary := buildInvoiceSummary(card, year, month, txns, time.Now())
	return &summary, nil
}
