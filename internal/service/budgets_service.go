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
	"go.uber.org/zap"
)

var budgetTracer = otel.Tracer("service/budgets")

// BudgetService manages category budgets and their monthly status.
type BudgetService struct {
	store   port.FinanceStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewBudgetService creates a new budget service.
func NewBudgetService(store port.FinanceStore, metrics *observability.Metrics, logger *zap.Logger) *BudgetService {
	return &BudgetService{store: store, metrics: metrics, logger: logger}
}

func (s *BudgetService) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	ctx, span := budgetTracer.Start(ctx, "BudgetService.ListBudgets")
	defer span.End()

	return s.store.ListBudgets(ctx, userID)
}

func (s *BudgetService) CreateBudget(ctx context.Context, userID string, budget *domain.Budget) (*domain.Budget, error) {
	ctx, span := budgetTracer.Start(ctx, "BudgetService.CreateBudget")
	defer span.End()

	if budget.Category == "" {
		return nil, &domain.ErrValidation{Field: "category", Message: "category is required"}
	}
	if budget.MonthlyLimit <= 0 {
		return nil, &domain.ErrValidation{Field: "monthly_limit", Message: "must be positive"}
	}
	if budget.AlertThresholdPct <= 0 || budget.AlertThresholdPct > 100 {
		budget.AlertThresholdPct = 80
	}
	budget.UserID = userID
	budget.IsActive = true

	existing, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	for _, b := range existing {
		if b.Category == budget.Category {
			return nil, &domain.ErrConflict{Message: fmt.Sprintf("budget for category %q already exists", budget.Category)}
		}
	}

	created, err := s.store.CreateBudget(ctx, budget)
	if err != nil {
		return nil, err
	}
	s.logger.Info("budget created",
		zap.String("budget_id", created.ID),
		zap.String("category", created.Category),
		zap.Float64("limit", created.MonthlyLimit),
	)
	return created, nil
}

func (s *BudgetService) UpdateBudget(ctx context.Context, userID string, budget *domain.Budget) (*domain.Budget, error) {
	ctx, span := budgetTracer.Start(ctx, "BudgetService.UpdateBudget")
	defer span.End()

	if budget.MonthlyLimit <= 0 {
		return nil, &domain.ErrValidation{Field: "monthly_limit", Message: "must be positive"}
	}
	budget.UserID = userID
	return s.store.UpdateBudget(ctx, budget)
}

func (s *BudgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	ctx, span := budgetTracer.Start(ctx, "BudgetService.DeleteBudget")
	defer span.End()

	return s.store.DeleteBudget(ctx, userID, budgetID)
}

// BudgetStatuses computes each active budget's spending for the month.
//
// Spending is cash-basis: a credit purchase counts toward the month its
// invoice is due, so a budget is charged when the money actually leaves,
// matching the dashboard totals.
func (s *BudgetService) BudgetStatuses(ctx context.Context, userID string, year int, month time.Month) ([]domain.BudgetStatus, error) {
	ctx, span := budgetTracer.Start(ctx, "BudgetService.BudgetStatuses")
	defer span.End()

	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	if len(budgets) == 0 {
		return []domain.BudgetStatus{}, nil
	}

	cards, err := s.store.ListCards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	fromY, fromM := addCalendarMonths(year, month, -2)
	from := time.Date(fromY, fromM, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(year, month+1, 1, 0, 0, 0, 0, time.Local).Add(-time.Nanosecond)

	txns, err := s.store.ListTransactions(ctx, userID, domain.TransactionFilter{
		From: &from,
		To:   &to,
		Type: domain.TransactionExpense,
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	spentByCategory := map[string]float64{}
	for i := range txns {
		tx := &txns[i]
		if tx.Category == domain.CategoryTransfer {
			continue
		}
		accDate := billing.AccountingDate(tx, cards)
		if accDate.Year() != year || accDate.Month() != month {
			continue
		}
		spentByCategory[tx.Category] += math.Abs(tx.Amount)
	}
	s.metrics.IncrInvoicesComputed("budget")

	statuses := make([]domain.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent := spentByCategory[b.Category]
		status := domain.BudgetStatus{
			Budget:    b,
			Year:      year,
			Month:     int(month),
			Spent:     spent,
			Remaining: b.MonthlyLimit - spent,
		}
		if b.MonthlyLimit > 0 {
			status.UsagePct = spent / b.MonthlyLimit * 100
		}
		status.OverLimit = spent > b.MonthlyLimit
		status.AlertReached = status.UsagePct >= b.AlertThresholdPct
		statuses = append(statuses, status)
	}
	return statuses, nil
}
