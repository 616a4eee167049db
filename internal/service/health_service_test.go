package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
	"github.com/mana-finance/mana-backend-go/internal/infra/observability"
	"github.com/mana-finance/mana-backend-go/internal/service"

	"go.uber.org/zap"
)

func newHealthService(store *mockFinanceStore) *service.HealthService {
	metrics := observability.NewMetrics()
	logger := zap.NewNop()
	budgets := service.NewBudgetService(store, metrics, logger)
	return service.NewHealthService(store, budgets, metrics, logger)
}

func TestScore_HealthyMonth(t *testing.T) {
	store := newMockFinanceStore()
	store.budgets = []domain.Budget{
		{ID: "budget-1", Category: "Mercado", MonthlyLimit: 1000, AlertThresholdPct: 80, IsActive: true},
	}
	store.txns = []domain.Transaction{
		{ID: "tx-1", Date: localDate(2024, time.March, 1), Amount: 5000, Type: domain.TransactionIncome, Category: "Salário"},
		{ID: "tx-2", Date: localDate(2024, time.March, 10), Amount: -800, Type: domain.TransactionExpense, Category: "Mercado"},
		{ID: "tx-3", Date: localDate(2024, time.March, 12), Amount: -1700, Type: domain.TransactionExpense, Category: "Moradia"},
	}

	svc := newHealthService(store)
	health, err := svc.Score(context.Background(), "user-1", 2024, time.March)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if health.Score != 100 {
		t.Errorf("score = %d, want 100 (half the income saved, budget on track, no credit)", health.Score)
	}
	if health.Rating != "excellent" {
		t.Errorf("rating = %q, want excellent", health.Rating)
	}
	if health.SavingsRate != 0.5 {
		t.Errorf("savings rate = %.2f, want 0.50", health.SavingsRate)
	}
	if health.BudgetsOnTrack != 1 || health.BudgetsTotal != 1 {
		t.Errorf("budgets = %d/%d, want 1/1", health.BudgetsOnTrack, health.BudgetsTotal)
	}
	if len(health.Tips) != 0 {
		t.Errorf("expected no tips for a healthy month, got %v", health.Tips)
	}
}

func TestScore_StressedMonth(t *testing.T) {
	store := newMockFinanceStore()
	store.cards = []domain.Card{
		{ID: "card-1", Type: domain.CardTypeCredit, CreditLimit: 1000, UsedLimit: 800},
	}
	store.budgets = []domain.Budget{
		{ID: "budget-1", Category: "Mercado", MonthlyLimit: 300, AlertThresholdPct: 80, IsActive: true},
	}
	store.txns = []domain.Transaction{
		{ID: "tx-1", Date: localDate(2024, time.March, 1), Amount: 2000, Type: domain.TransactionIncome, Category: "Salário"},
		{ID: "tx-2", Date: localDate(2024, time.March, 5), Amount: -1950, Type: domain.TransactionExpense, Category: "Mercado"},
	}

	svc := newHealthService(store)
	health, err := svc.Score(context.Background(), "user-1", 2024, time.March)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if health.Score >= 40 {
		t.Errorf("score = %d, want below 40 for near-zero savings, blown budget and 80%% credit usage", health.Score)
	}
	if health.Rating != "poor" {
		t.Errorf("rating = %q, want poor", health.Rating)
	}
	if health.BudgetsOnTrack != 0 {
		t.Errorf("budgets on track = %d, want 0", health.BudgetsOnTrack)
	}
	if health.CreditUsagePct != 80 {
		t.Errorf("credit usage = %.1f%%, want 80%%", health.CreditUsagePct)
	}
	if len(health.Tips) == 0 {
		t.Error("expected tips for a stressed month")
	}
}

func TestScore_TransfersIgnored(t *testing.T) {
	store := newMockFinanceStore()
	store.txns = []domain.Transaction{
		{ID: "tx-1", Date: localDate(2024, time.March, 1), Amount: 1000, Type: domain.TransactionIncome, Category: "Salário"},
		{ID: "tx-2", Date: localDate(2024, time.March, 8), Amount: -900, Type: domain.TransactionExpense, Category: domain.CategoryTransfer},
	}

	svc := newHealthService(store)
	health, err := svc.Score(context.Background(), "user-1", 2024, time.March)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if health.ExpenseRatio != 0 {
		t.Errorf("expense ratio = %.2f, want 0 — invoice payments are not expenses", health.ExpenseRatio)
	}
}

func TestScore_CreditPurchaseCountsTowardDueMonth(t *testing.T) {
	store := newMockFinanceStore()
	store.cards = []domain.Card{
		{ID: "card-1", Type: domain.CardTypeCredit, CreditLimit: 5000, DueDay: 10, ClosingDay: 1},
	}
	store.txns = []domain.Transaction{
		{ID: "tx-1", Date: localDate(2024, time.January, 5), Amount: 1000, Type: domain.TransactionIncome, Category: "Salário"},
		{ID: "tx-2", Date: localDate(2024, time.February, 5), Amount: 1000, Type: domain.TransactionIncome, Category: "Salário"},
		// Charged after the Jan 1 closing, so the invoice is due Feb 10.
		{ID: "tx-3", Date: localDate(2024, time.January, 15), Amount: -500, Type: domain.TransactionExpense, Category: "Lazer", Account: "card-1", CardFunction: domain.CardFunctionCredit},
	}

	svc := newHealthService(store)

	jan, err := svc.Score(context.Background(), "user-1", 2024, time.January)
	if err != nil {
		t.Fatalf("january score: %v", err)
	}
	if jan.ExpenseRatio != 0 {
		t.Errorf("january expense ratio = %.2f, want 0 (purchase belongs to the February invoice)", jan.ExpenseRatio)
	}

	feb, err := svc.Score(context.Background(), "user-1", 2024, time.February)
	if err != nil {
		t.Fatalf("february score: %v", err)
	}
	if feb.ExpenseRatio != 0.5 {
		t.Errorf("february expense ratio = %.2f, want 0.50, same month the dashboard charges it", feb.ExpenseRatio)
	}
}
