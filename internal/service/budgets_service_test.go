package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
	"github.com/mana-finance/mana-backend-go/internal/infra/observability"
	"github.com/mana-finance/mana-backend-go/internal/service"

	"go.uber.org/zap"
)

func newBudgetService(store *mockFinanceStore) *service.BudgetService {
	return service.NewBudgetService(store, observability.NewMetrics(), zap.NewNop())
}

func TestCreateBudget_RejectsDuplicateCategory(t *testing.T) {
	store := newMockFinanceStore()
	store.budgets = []domain.Budget{
		{ID: "budget-1", Category: "Alimentação", MonthlyLimit: 500, IsActive: true},
	}

	svc := newBudgetService(store)
	_, err := svc.CreateBudget(context.Background(), "user-1", &domain.Budget{
		Category:     "Alimentação",
		MonthlyLimit: 300,
	})

	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCreateBudget_Validation(t *testing.T) {
	svc := newBudgetService(newMockFinanceStore())

	_, err := svc.CreateBudget(context.Background(), "user-1", &domain.Budget{Category: "X", MonthlyLimit: 0})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation for zero limit, got %v", err)
	}

	created, err := svc.CreateBudget(context.Background(), "user-1", &domain.Budget{Category: "X", MonthlyLimit: 100})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.AlertThresholdPct != 80 {
		t.Errorf("default alert threshold = %.0f, want 80", created.AlertThresholdPct)
	}
}

// Budget spending follows the same cash-basis rule as the dashboard: the
// January credit purchase lands in February's budget.
func TestBudgetStatuses_CashBasis(t *testing.T) {
	store := newMockFinanceStore()
	store.cards = []domain.Card{
		{ID: "card-1", Name: "Nubank", Type: domain.CardTypeCredit, DueDay: 10, ClosingDay: 1},
	}
	store.budgets = []domain.Budget{
		{ID: "budget-1", Category: "Alimentação", MonthlyLimit: 500, AlertThresholdPct: 80, IsActive: true},
		{ID: "budget-2", Category: "Transporte", MonthlyLimit: 100, AlertThresholdPct: 80, IsActive: true},
	}
	store.txns = []domain.Transaction{
		{ID: "tx-1", Date: localDate(2024, time.January, 15), Amount: -300, Type: domain.TransactionExpense, Category: "Alimentação", Account: "card-1", CardFunction: domain.CardFunctionCredit},
		{ID: "tx-2", Date: localDate(2024, time.February, 5), Amount: -100, Type: domain.TransactionExpense, Category: "Alimentação", Account: "wallet-1"},
		{ID: "tx-3", Date: localDate(2024, time.February, 7), Amount: -150, Type: domain.TransactionExpense, Category: "Transporte", Account: "wallet-1"},
		{ID: "tx-4", Date: localDate(2024, time.February, 8), Amount: -400, Type: domain.TransactionExpense, Category: domain.CategoryTransfer, Account: "card-1"},
	}

	svc := newBudgetService(store)
	statuses, err := svc.BudgetStatuses(context.Background(), "user-1", 2024, time.February)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}

	food := statuses[0]
	if food.Spent != 400 {
		t.Errorf("Alimentação spent = %.2f, want 400 (300 credit + 100 debit)", food.Spent)
	}
	if food.Remaining != 100 {
		t.Errorf("Alimentação remaining = %.2f, want 100", food.Remaining)
	}
	if !food.AlertReached {
		t.Error("Alimentação at 80%% usage must trigger the alert")
	}
	if food.OverLimit {
		t.Error("Alimentação is within the limit")
	}

	transport := statuses[1]
	if transport.Spent != 150 {
		t.Errorf("Transporte spent = %.2f, want 150", transport.Spent)
	}
	if !transport.OverLimit {
		t.Error("Transporte exceeded the limit")
	}
}

func TestBudgetStatuses_NoBudgets(t *testing.T) {
	svc := newBudgetService(newMockFinanceStore())
	statuses, err := svc.BudgetStatuses(context.Background(), "user-1", 2024, time.February)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(statuses) != 0 {
		t.Errorf("expected empty statuses, got %d", len(statuses))
	}
}
