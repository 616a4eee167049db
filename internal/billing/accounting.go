package billing

import (
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
)

// AccountingDate maps a transaction to the date it counts against for
// monthly reporting (cash-basis accounting).
//
// Debit and wallet movements keep their own date. A credit operation counts
// toward the day its invoice is due: a purchase on the 28th just before
// closing and one on the 2nd just after closing land in different invoices,
// and therefore different reporting months, even though they are days apart.
//
// The function never fails: an unresolvable account reference or a card
// without billing configuration degrades to the transaction's own date.
func AccountingDate(t *domain.Transaction, cards []domain.Card) time.Time {
	if t == nil {
		return time.Time{}
	}
	if t.Account == "" {
		return t.Date
	}
	card := CardByID(cards, t.Account)
	if !IsCreditOperation(t, card) || card == nil {
		return t.Date
	}
	cfg, ok := ConfigFor(card)
	if !ok {
		return t.Date
	}

	// On or after the closing day the charge misses this cycle and rolls
	// into the one closing next month.
	endYear, endMonth := t.Date.Year(), t.Date.Month()
	if t.Date.Day() >= cfg.ClosingDay {
		endYear, endMonth = addMonths(endYear, endMonth, 1)
	}

	dueYear, dueMonth := cfg.DueMonthForCycleEnd(endYear, endMonth)
	return clampedDay(dueYear, dueMonth, cfg.DueDay)
}
