// Package domain holds the core entities of Maná Finance: cards, wallets,
// transactions, budgets, goals and the typed errors shared by all layers.
package domain

import "time"

// ============================================================
// Cards
// ============================================================

// Card type classifies the default operation mode of a card.
const (
	CardTypeDebit  = "debit"
	CardTypeCredit = "credit"
	CardTypeBoth   = "both"
)

// Card represents a debit and/or credit card owned by a user.
//
// DueDay and ClosingDay drive the billing cycle: ClosingDay is the calendar
// day the invoice total is finalized, DueDay the day payment is due. A zero
// value means "not configured" — legacy records imported from the old app
// sometimes lack one or both.
type Card struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"` // debit, credit, both
	Brand       string    `json:"brand,omitempty"`
	Last4       string    `json:"last4,omitempty"`
	Color       string    `json:"color,omitempty"`
	HasCredit   bool      `json:"has_credit"`
	HasDebit    bool      `json:"has_debit"`
	DueDay      int       `json:"due_day,omitempty"`     // 1–31, 0 = unset
	ClosingDay  int       `json:"closing_day,omitempty"` // 1–31, 0 = unset
	CreditLimit float64   `json:"credit_limit"`
	UsedLimit   float64   `json:"used_limit"`
	Balance     float64   `json:"balance"` // debit balance, when HasDebit
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
}

// AvailableLimit returns the credit still available on the card.
func (c *Card) AvailableLimit() float64 {
	avail := c.CreditLimit - c.UsedLimit
	if avail < 0 {
		return 0
	}
	return avail
}

// CardRequest is the payload to create or update a card.
type CardRequest struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Brand       string  `json:"brand,omitempty"`
	Last4       string  `json:"last4,omitempty"`
	Color       string  `json:"color,omitempty"`
	HasCredit   *bool   `json:"has_credit,omitempty"`
	HasDebit    *bool   `json:"has_debit,omitempty"`
	DueDay      int     `json:"due_day,omitempty"`
	ClosingDay  int     `json:"closing_day,omitempty"`
	CreditLimit float64 `json:"credit_limit,omitempty"`
}

// ============================================================
// Wallets
// ============================================================

// Wallet represents a cash/checking account balance (no billing cycle).
type Wallet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Balance   float64   `json:"balance"`
	Color     string    `json:"color,omitempty"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
}

// WalletRequest is the payload to create or update a wallet.
type WalletRequest struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance,omitempty"`
	Color   string  `json:"color,omitempty"`
}
