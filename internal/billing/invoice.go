package billing

import (
	"math"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
)

// InvoiceAmountForMonth sums the credit charges on a card that fall inside
// the billing cycle whose invoice is due in (year, month).
//
// A transaction counts when all of the following hold: it is charged to this
// card, it is an expense, it is not a "Transferência" (those pay the invoice,
// they are not purchases), it classifies as a credit operation, and its date
// falls within the resolved cycle. Amounts are summed as absolute values;
// the result is never negative and is 0 when nothing matches.
func InvoiceAmountForMonth(card *domain.Card, year int, month time.Month, txns []domain.Transaction) float64 {
	if card == nil {
		return 0
	}
	cycle := ResolveCycle(card, year, month)

	var total float64
	for i := range txns {
		t := &txns[i]
		if t.Account != card.ID || t.Type != domain.TransactionExpense {
			continue
		}
		if t.Category == domain.CategoryTransfer {
			continue
		}
		if !IsCreditOperation(t, card) {
			continue
		}
		if !cycle.Contains(t.Date) {
			continue
		}
		total += math.Abs(t.Amount)
	}
	return total
}

// HasInvoicePayment reports whether a payment transfer for the card exists in
// the given calendar month. The dashboard uses this to show the realized
// invoice instead of double-counting a projection.
func HasInvoicePayment(card *domain.Card, year int, month time.Month, txns []domain.Transaction) bool {
	if card == nil {
		return false
	}
	for i := range txns {
		t := &txns[i]
		if t.Account != card.ID || t.Category != domain.CategoryTransfer {
			continue
		}
		if t.Date.Year() == year && t.Date.Month() == month {
			return true
		}
	}
	return false
}
