package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
	"github.com/mana-finance/mana-backend-go/internal/infra/cache"
	"github.com/mana-finance/mana-backend-go/internal/infra/observability"
	"github.com/mana-finance/mana-backend-go/internal/service"

	"go.uber.org/zap"
)

func newDashboardService(store *mockFinanceStore) *service.DashboardService {
	return service.NewDashboardService(
		store,
		cache.New[*domain.MonthlyStats](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

// A credit purchase made in January on a card closing day 1 / due day 10
// leaves the pocket in February, so February's dashboard must carry it.
func TestMonthlyStats_CashBasis(t *testing.T) {
	store := newMockFinanceStore()
	store.cards = []domain.Card{
		{ID: "card-1", Name: "Nubank", Type: domain.CardTypeCredit, DueDay: 10, ClosingDay: 1},
	}
	store.wallets = []domain.Wallet{{ID: "wallet-1", Name: "Conta", Balance: 5000}}
	store.txns = []domain.Transaction{
		{ID: "tx-1", Date: localDate(2024, time.January, 15), Amount: -100, Type: domain.TransactionExpense, Category: "Alimentação", Account: "card-1", CardFunction: domain.CardFunctionCredit},
		{ID: "tx-2", Date: localDate(2024, time.February, 5), Amount: -50, Type: domain.TransactionExpense, Category: "Transporte", Account: "wallet-1"},
		{ID: "tx-3", Date: localDate(2024, time.February, 1), Amount: 2000, Type: domain.TransactionIncome, Category: "Salário", Account: "wallet-1"},
		// Purchased after the February cycle closed: belongs to March.
		{ID: "tx-4", Date: localDate(2024, time.February, 2), Amount: -80, Type: domain.TransactionExpense, Category: "Lazer", Account: "card-1", CardFunction: domain.CardFunctionCredit},
		// Invoice payment: never an expense, flips the invoice to realized.
		{ID: "tx-5", Date: localDate(2024, time.February, 8), Amount: -100, Type: domain.TransactionTransfer, Category: domain.CategoryTransfer, Account: "card-1"},
	}

	svc := newDashboardService(store)
	stats, err := svc.MonthlyStats(context.Background(), "user-1", 2024, time.February)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if stats.TotalIncome != 2000 {
		t.Errorf("TotalIncome = %.2f, want 2000", stats.TotalIncome)
	}
	if stats.TotalExpenses != 150 {
		t.Errorf("TotalExpenses = %.2f, want 150 (100 credit from January + 50 debit)", stats.TotalExpenses)
	}
	if stats.Balance != 1850 {
		t.Errorf("Balance = %.2f, want 1850", stats.Balance)
	}
	if got := stats.ByCategory["Alimentação"]; got != 100 {
		t.Errorf("ByCategory[Alimentação] = %.2f, want 100", got)
	}
	if got := stats.ByCategory["Transporte"]; got != 50 {
		t.Errorf("ByCategory[Transporte] = %.2f, want 50", got)
	}
	if _, ok := stats.ByCategory[domain.CategoryTransfer]; ok {
		t.Error("transfers must never appear in the category breakdown")
	}

	if len(stats.ProjectedInvoices) != 1 {
		t.Fatalf("expected 1 invoice summary, got %d", len(stats.ProjectedInvoices))
	}
	inv := stats.ProjectedInvoices[0]
	if inv.Amount != 100 {
		t.Errorf("invoice amount = %.2f, want 100", inv.Amount)
	}
	if inv.Status != "realized" {
		t.Errorf("invoice status = %q, want realized (payment transfer exists)", inv.Status)
	}
	if inv.DueDate != "2024-02-10" {
		t.Errorf("invoice due date = %q, want 2024-02-10", inv.DueDate)
	}
}

func TestMonthlyStats_CachesResult(t *testing.T) {
	store := newMockFinanceStore()
	store.txns = []domain.Transaction{
		{ID: "tx-1", Date: localDate(2024, time.March, 3), Amount: 500, Type: domain.TransactionIncome, Category: "Salário"},
	}

	svc := newDashboardService(store)
	ctx := context.Background()

	first, err := svc.MonthlyStats(ctx, "user-1", 2024, time.March)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// A store mutation after the first call must not show through the cache.
	store.txns = append(store.txns, domain.Transaction{
		ID: "tx-2", Date: localDate(2024, time.March, 4), Amount: 999, Type: domain.TransactionIncome, Category: "Extra",
	})

	second, err := svc.MonthlyStats(ctx, "user-1", 2024, time.March)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.TotalIncome != first.TotalIncome {
		t.Errorf("expected cached stats, got recomputed income %.2f", second.TotalIncome)
	}
}

// A card without billing configuration degrades to calendar months: the
// dashboard must still answer, with purchases counted in their own month.
func TestMonthlyStats_CardWithoutConfig(t *testing.T) {
	store := newMockFinanceStore()
	store.cards = []domain.Card{
		{ID: "card-1", Name: "Legacy", Type: domain.CardTypeCredit},
	}
	store.txns = []domain.Transaction{
		{ID: "tx-1", Date: localDate(2024, time.May, 20), Amount: -75, Type: domain.TransactionExpense, Category: "Mercado", Account: "card-1", CardFunction: domain.CardFunctionCredit},
	}

	svc := newDashboardService(store)
	stats, err := svc.MonthlyStats(context.Background(), "user-1", 2024, time.May)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.TotalExpenses != 75 {
		t.Errorf("TotalExpenses = %.2f, want 75 in the purchase month", stats.TotalExpenses)
	}
	if len(stats.ProjectedInvoices) != 1 {
		t.Fatalf("expected 1 invoice summary, got %d", len(stats.ProjectedInvoices))
	}
	if stats.ProjectedInvoices[0].Amount != 75 {
		t.Errorf("invoice amount = %.2f, want 75", stats.ProjectedInvoices[0].Amount)
	}
}

func TestTrend_SeriesCoversRequestedMonths(t *testing.T) {
	store := newMockFinanceStore()
	store.txns = []domain.Transaction{
		{ID: "tx-1", Date: localDate(2024, time.April, 10), Amount: 1000, Type: domain.TransactionIncome, Category: "Salário"},
		{ID: "tx-2", Date: localDate(2024, time.May, 10), Amount: -200, Type: domain.TransactionExpense, Category: "Mercado"},
		{ID: "tx-3", Date: localDate(2024, time.June, 10), Amount: 1200, Type: domain.TransactionIncome, Category: "Salário"},
	}

	svc := newDashboardService(store)
	points, err := svc.Trend(context.Background(), "user-1", 2024, time.June, 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].Month != 4 || points[0].Income != 1000 {
		t.Errorf("point[0] = %+v, want April income 1000", points[0])
	}
	if points[1].Month != 5 || points[1].Expenses != 200 {
		t.Errorf("point[1] = %+v, want May expenses 200", points[1])
	}
	if points[2].Month != 6 || points[2].Income != 1200 {
		t.Errorf("point[2] = %+v, want June income 1200", points[2])
	}
}
