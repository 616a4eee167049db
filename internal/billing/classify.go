// Package billing implements the invoice cycle and accounting-date engine.
//
// Everything here is pure and stateless: callers hand in cards and
// transactions, the package hands back dates and totals. Reporting code all
// over the app (dashboard, budgets, invoice history, health score) depends on
// these functions agreeing with each other, so the closing-day/due-day rules
// live here and nowhere else.
package billing

import "github.com/mana-finance/mana-backend-go/internal/domain"

// IsCreditOperation reports whether a transaction draws on a card's credit
// line rather than a debit/cash balance.
//
// The rule: an explicit card function wins; otherwise a credit-only card
// makes every charge a credit operation. A card of type "both" (or "debit")
// without an explicit credit function is treated as debit. The card may be
// nil when the account reference could not be resolved.
func IsCreditOperation(t *domain.Transaction, card *domain.Card) bool {
	if t == nil {
		return false
	}
	switch t.CardFunction {
	case domain.CardFunctionCredit:
		return true
	case domain.CardFunctionDebit:
		return false
	}
	return card != nil && card.Type == domain.CardTypeCredit
}

// CardByID returns the card with the given id, or nil.
func CardByID(cards []domain.Card, id string) *domain.Card {
	if id == "" {
		return nil
	}
	for i := range cards {
		if cards[i].ID == id {
			return &cards[i]
		}
	}
	return nil
}
