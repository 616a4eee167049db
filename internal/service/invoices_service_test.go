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

func newInvoiceService(store *mockFinanceStore, back, forward int) *service.InvoiceService {
	return service.NewInvoiceService(store, observability.NewMetrics(), zap.NewNop(), back, forward)
}

func TestHistory_WindowShape(t *testing.T) {
	store := newMockFinanceStore()
	store.cards = []domain.Card{
		{ID: "card-1", Name: "Nubank", Type: domain.CardTypeCredit, DueDay: 10, ClosingDay: 1},
	}

	svc := newInvoiceService(store, 2, 3)
	hist, err := svc.History(context.Background(), "user-1", "card-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if hist.CardID != "card-1" || hist.CardName != "Nubank" {
		t.Errorf("card identity = %s/%s, want card-1/Nubank", hist.CardID, hist.CardName)
	}
	if len(hist.Invoices) != 6 {
		t.Fatalf("expected 6 invoices (2 back + current + 3 forward), got %d", len(hist.Invoices))
	}

	now := time.Now()
	for i, inv := range hist.Invoices {
		ref := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, i-2, 0)
		if inv.Year != ref.Year() || inv.Month != int(ref.Month()) {
			t.Errorf("invoice[%d] = %d-%02d, want %d-%02d", i, inv.Year, inv.Month, ref.Year(), ref.Month())
		}
	}
}

func TestHistory_UnknownCard(t *testing.T) {
	svc := newInvoiceService(newMockFinanceStore(), 2, 2)
	_, err := svc.History(context.Background(), "user-1", "ghost")
	if err == nil {
		t.Fatal("expected not found error")
	}
}

func TestInvoice_SingleMonth(t *testing.T) {
	store := newMockFinanceStore()
	store.cards = []domain.Card{
		{ID: "card-1", Name: "Nubank", Type: domain.CardTypeCredit, DueDay: 10, ClosingDay: 1},
	}
	// February cycle runs 2 Jan – 1 Feb.
	store.txns = []domain.Transaction{
		{ID: "tx-1", Date: localDate(2024, time.January, 20), Amount: -120, Type: domain.TransactionExpense, Category: "Mercado", Account: "card-1", CardFunction: domain.CardFunctionCredit},
		{ID: "tx-2", Date: localDate(2024, time.January, 25), Amount: -30, Type: domain.TransactionExpense, Category: "Lazer", Account: "card-1", CardFunction: domain.CardFunctionCredit},
		{ID: "tx-3", Date: localDate(2024, time.February, 2), Amount: -500, Type: domain.TransactionExpense, Category: "Viagem", Account: "card-1", CardFunction: domain.CardFunctionCredit},
	}

	svc := newInvoiceService(store, 6, 12)
	inv, err := svc.Invoice(context.Background(), "user-1", "card-1", 2024, time.February)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if inv.Amount != 150 {
		t.Errorf("amount = %.2f, want 150 (February 2 purchase belongs to March)", inv.Amount)
	}
	if inv.CycleOpen != "2024-01-02" || inv.CycleClose != "2024-02-01" {
		t.Errorf("cycle = %s..%s, want 2024-01-02..2024-02-01", inv.CycleOpen, inv.CycleClose)
	}
	if inv.Status != "projected" {
		t.Errorf("status = %q, want projected for an unpaid past invoice", inv.Status)
	}
}
