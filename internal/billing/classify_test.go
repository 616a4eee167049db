package billing

import (
	"testing"

	"github.com/mana-finance/mana-backend-go/internal/domain"
)

func TestIsCreditOperation(t *testing.T) {
	creditCard := &domain.Card{ID: "c1", Type: domain.CardTypeCredit}
	debitCard := &domain.Card{ID: "c2", Type: domain.CardTypeDebit}
	bothCard := &domain.Card{ID: "c3", Type: domain.CardTypeBoth, HasCredit: true, HasDebit: true}

	tests := []struct {
		name         string
		cardFunction string
		card         *domain.Card
		want         bool
	}{
		{"explicit credit function", domain.CardFunctionCredit, debitCard, true},
		{"explicit credit function without card", domain.CardFunctionCredit, nil, true},
		{"explicit debit function on credit card", domain.CardFunctionDebit, creditCard, false},
		{"no function on credit card", "", creditCard, true},
		{"no function on debit card", "", debitCard, false},
		{"no function on both-type card", "", bothCard, false},
		{"no function without card", "", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tx := &domain.Transaction{Type: domain.TransactionExpense, CardFunction: tc.cardFunction}
			if got := IsCreditOperation(tx, tc.card); got != tc.want {
				t.Errorf("IsCreditOperation() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsCreditOperation_NilTransaction(t *testing.T) {
	if IsCreditOperation(nil, &domain.Card{Type: domain.CardTypeCredit}) {
		t.Error("nil transaction must not classify as credit")
	}
}

func TestCardByID(t *testing.T) {
	cards := []domain.Card{{ID: "a"}, {ID: "b"}}

	if got := CardByID(cards, "b"); got == nil || got.ID != "b" {
		t.Errorf("expected card 'b', got %v", got)
	}
	if got := CardByID(cards, "missing"); got != nil {
		t.Errorf("expected nil for unknown id, got %v", got)
	}
	if got := CardByID(cards, ""); got != nil {
		t.Errorf("expected nil for empty id, got %v", got)
	}
}
