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
	"go.uber.org/zap"
)

var healthTracer = otel.Tracer("service/health")

// HealthService computes the 0–100 financial health score.
type HealthService struct {
	store   port.FinanceStore
	budgets *BudgetService
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewHealthService creates a new health scoring service.
func NewHealthService(store port.FinanceStore, budgets *BudgetService, metrics *observability.Metrics, logger *zap.Logger) *HealthService {
	return &HealthService{store: store, budgets: budgets, metrics: metrics, logger: logger}
}

// Score rates the user's finances for the given month across four axes:
// savings rate (40 pts), expense/income ratio (25 pts), budgets on track
// (20 pts) and credit utilization (15 pts).
func (s *HealthService) Score(ctx context.Context, userID string, year int, month time.Month) (_ *domain.FinancialHealth, err error) {
	ctx, span := healthTracer.Start(ctx, "HealthService.Score")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("health_score", time.Since(start))
		s.metrics.IncrRequest(statusLabel(err))
	}()

	statuses, err := s.budgets.BudgetStatuses(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("budget statuses: %w", err)
	}

	cards, err := s.store.ListCards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	// Income and expenses are cash-basis, like the dashboard and budgets: a
	// credit purchase scores against its invoice-due month. Charges shift
	// forward only, so a window reaching two months back covers every card.
	fromY, fromM := addCalendarMonths(year, month, -2)
	from := time.Date(fromY, fromM, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(year, month+1, 1, 0, 0, 0, 0, time.Local).Add(-time.Nanosecond)
	txns, err := s.store.ListTransactions(ctx, userID, domain.TransactionFilter{From: &from, To: &to})
	if err != nil {
		s.metrics.IncrExternalError("supabase")
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	s.metrics.IncrInvoicesComputed("health")

	var income, expenses float64
	for i := range txns {
		tx := &txns[i]
		if tx.Category == domain.CategoryTransfer {
			continue
		}
		acct := billing.AccountingDate(tx, cards)
		if acct.Year() != year || acct.Month() != month {
			continue
		}
		switch tx.Type {
		case domain.TransactionIncome:
			income += abs(tx.Amount)
		case domain.TransactionExpense:
			expenses += abs(tx.Amount)
		}
	}

	health := &domain.FinancialHealth{BudgetsTotal: len(statuses)}

	// Savings rate: 40 points at 20%+ saved.
	if income > 0 {
		health.SavingsRate = (income - expenses) / income
		health.ExpenseRatio = expenses / income
	}
	savingsPts := health.SavingsRate / 0.20 * 40
	savingsPts = clampPts(savingsPts, 40)

	// Expense ratio: full 25 points below 70%, zero at 100%+.
	ratioPts := 25.0
	if health.ExpenseRatio > 0.70 {
		ratioPts = (1.0 - health.ExpenseRatio) / 0.30 * 25
	}
	ratioPts = clampPts(ratioPts, 25)

	// Budgets: proportional to how many are on track.
	budgetPts := 20.0
	for _, st := range statuses {
		if !st.OverLimit {
			health.BudgetsOnTrack++
		}
	}
	if len(statuses) > 0 {
		budgetPts = float64(health.BudgetsOnTrack) / float64(len(statuses)) * 20
	}

	// Credit utilization: full 15 points below 30%, zero at 90%+.
	var limit, used float64
	for i := range cards {
		if cards[i].CreditLimit > 0 {
			limit += cards[i].CreditLimit
			used += cards[i].UsedLimit
		}
	}
	creditPts := 15.0
	if limit > 0 {
		health.CreditUsagePct = used / limit * 100
		if health.CreditUsagePct > 30 {
			creditPts = (90 - health.CreditUsagePct) / 60 * 15
		}
	}
	creditPts = clampPts(creditPts, 15)

	health.Score = int(savingsPts + ratioPts + budgetPts + creditPts)
	if health.Score > 100 {
		health.Score = 100
	}
	if health.Score < 0 {
		health.Score = 0
	}

	switch {
	case health.Score >= 80:
		health.Rating = "excellent"
	case health.Score >= 60:
		health.Rating = "good"
	case health.Score >= 40:
		health.Rating = "fair"
	default:
		health.Rating = "poor"
	}

	health.Tips = buildTips(health)

	s.logger.Debug("health score computed",
		zap.String("user_id", userID),
		zap.Int("score", health.Score),
		zap.String("rating", health.Rating),
	)
	return health, nil
}

func buildTips(h *domain.FinancialHealth) []string {
	var tips []string
	if h.SavingsRate < 0.10 {
		tips = append(tips, "Tente poupar pelo menos 10% da sua renda mensal.")
	}
	if h.ExpenseRatio > 0.90 {
		tips = append(tips, "Seus gastos estão muito próximos da sua renda. Revise as categorias com maior peso.")
	}
	if h.BudgetsTotal > 0 && h.BudgetsOnTrack < h.BudgetsTotal {
		tips = append(tips, "Um ou mais orçamentos estouraram o limite este mês.")
	}
	if h.CreditUsagePct > 50 {
		tips = append(tips, "Uso do cartão de crédito acima de 50% do limite. Considere reduzir compras parceladas.")
	}
	return tips
}

func clampPts(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
