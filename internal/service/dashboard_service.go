package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/billing"
	"github.com/mana-finance/mana-backend-go/internal/domain"
	"github.com/mana-finance/mana-backend-go/internal/infra/observability"
	"github.com/mana-finance/mana-backend-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var dashTracer = otel.Tracer("service/dashboard")

// DashboardService builds the monthly overview: cash-basis income/expense
// totals, category breakdown and per-card invoice projections.
type DashboardService struct {
	store      port.FinanceStore
	statsCache port.Cache[*domain.MonthlyStats]
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(store port.FinanceStore, statsCache port.Cache[*domain.MonthlyStats], metrics *observability.Metrics, logger *zap.Logger) *DashboardService {
	return &DashboardService{store: store, statsCache: statsCache, metrics: metrics, logger: logger}
}

// MonthlyStats computes the dashboard numbers for one reference month.
//
// Expenses are attributed to months on a cash basis: billing.AccountingDate
// moves each credit purchase to the month its invoice is due, so the totals
// here answer "how much leaves my pocket this month", not "how much did I
// swipe". Income and debit expenses keep their own date.
func (s *DashboardService) MonthlyStats(ctx context.Context, userID string, year int, month time.Month) (_ *domain.MonthlyStats, err error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.MonthlyStats")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("dashboard_stats", time.Since(start))
		s.metrics.IncrRequest(statusLabel(err))
	}()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Int("year", year),
		attribute.Int("month", int(month)),
	)

	cacheKey := fmt.Sprintf("%s:%d-%02d", userID, year, month)
	if cached, ok := s.statsCache.Get(cacheKey); ok {
		s.metrics.IncrCacheHit("dashboard")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("dashboard")

	cards, err := s.store.ListCards(ctx, userID)
	if err != nil {
		s.metrics.IncrExternalError("supabase")
		return nil, fmt.Errorf("list cards: %w", err)
	}

	// Fetch a window wide enough that every transaction whose accounting
	// date can fall in the reference month is included. Credit purchases
	// shift forward at most two months (tie-break plus due in the next
	// month), never backward.
	fromY, fromM := addCalendarMonths(year, month, -2)
	toY, toM := addCalendarMonths(year, month, 1)
	from := time.Date(fromY, fromM, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(toY, toM+1, 1, 0, 0, 0, 0, time.Local).Add(-time.Nanosecond)

	txns, err := s.store.ListTransactions(ctx, userID, domain.TransactionFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	stats := &domain.MonthlyStats{
		Year:       year,
		Month:      int(month),
		ByCategory: map[string]float64{},
	}

	for i := range txns {
		tx := &txns[i]
		accDate := billing.AccountingDate(tx, cards)
		if accDate.Year() != year || accDate.Month() != month {
			continue
		}
		stats.TransactionCount++

		amount := math.Abs(tx.Amount)
		switch tx.Type {
		case domain.TransactionIncome:
			stats.TotalIncome += amount
		case domain.TransactionExpense:
			if tx.Category == domain.CategoryTransfer {
				continue
			}
			stats.TotalExpenses += amount
			stats.ByCategory[tx.Category] += amount
		}
	}
	stats.Balance = stats.TotalIncome - stats.TotalExpenses

	stats.ProjectedInvoices = s.projectInvoices(ctx, cards, year, month, txns)

	s.statsCache.Set(cacheKey, stats)
	return stats, nil
}

// projectInvoices builds an InvoiceSummary per credit card for the month.
// An invoice is "realized" once a Transferência payment for it exists,
// "future" when its cycle has not closed yet, "projected" otherwise.
func (s *DashboardService) projectInvoices(ctx context.Context, cards []domain.Card, year int, month time.Month, txns []domain.Transaction) []domain.InvoiceSummary {
	_, span := dashTracer.Start(ctx, "DashboardService.projectInvoices")
	defer span.End()

	now := time.Now()
	out := make([]domain.InvoiceSummary, 0, len(cards))
	for i := range cards {
		card := &cards[i]
		if !card.HasCredit && card.Type != domain.CardTypeCredit {
			continue
		}

		s.metrics.IncrInvoicesComputed("dashboard")
		out = append(out, buildInvoiceSummary(card, year, month, txns, now))
	}
	return out
}

// buildInvoiceSummary aggregates one card's invoice for one reference month.
func buildInvoiceSummary(card *domain.Card, year int, month time.Month, txns []domain.Transaction, now time.Time) domain.InvoiceSummary {
	cycle := billing.ResolveCycle(card, year, month)
	amount := billing.InvoiceAmountForMonth(card, year, month, txns)
	due := billing.DueDate(card, year, month)

	status := "projected"
	switch {
	case billing.HasInvoicePayment(card, year, month, txns):
		status = "realized"
	case cycle.End.After(now):
		status = "future"
	}

	return domain.InvoiceSummary{
		CardID:     card.ID,
		CardName:   card.Name,
		Year:       year,
		Month:      int(month),
		Amount:     amount,
		DueDate:    due.Format("2006-01-02"),
		CycleOpen:  cycle.Start.Format("2006-01-02"),
		CycleClose: cycle.End.Format("2006-01-02"),
		Status:     status,
	}
}

// Trend returns a month-by-month cash-flow series ending at the given month.
func (s *DashboardService) Trend(ctx context.Context, userID string, year int, month time.Month, months int) ([]domain.TrendPoint, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.Trend")
	defer span.End()

	if months < 1 {
		months = 6
	}

	cards, err := s.store.ListCards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	fromY, fromM := addCalendarMonths(year, month, -(months + 1))
	from := time.Date(fromY, fromM, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(year, month+1, 1, 0, 0, 0, 0, time.Local).Add(-time.Nanosecond)

	txns, err := s.store.ListTransactions(ctx, userID, domain.TransactionFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	points := make([]domain.TrendPoint, 0, months)
	for offset := -(months - 1); offset <= 0; offset++ {
		y, m := addCalendarMonths(year, month, offset)
		point := domain.TrendPoint{Year: y, Month: int(m)}
		for i := range txns {
			tx := &txns[i]
			accDate := billing.AccountingDate(tx, cards)
			if accDate.Year() != y || accDate.Month() != m {
				continue
			}
			amount := math.Abs(tx.Amount)
			switch tx.Type {
			case domain.TransactionIncome:
				point.Income += amount
			case domain.TransactionExpense:
				if tx.Category != domain.CategoryTransfer {
					point.Expenses += amount
				}
			}
		}
		points = append(points, point)
	}
	return points, nil
}

// addCalendarMonths walks a (year, month) pair by delta months.
func addCalendarMonths(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}
