package domain

import "time"

// ============================================================
// Transactions
// ============================================================

// Transaction types.
const (
	TransactionIncome   = "income"
	TransactionExpense  = "expense"
	TransactionTransfer = "transfer"
)

// Card function of a transaction: which side of a card it was charged to.
// Empty means "not set" and the card's own type decides.
const (
	CardFunctionDebit  = "debit"
	CardFunctionCredit = "credit"
)

// CategoryTransfer is the reserved category for invoice payments and
// wallet-to-wallet moves. Transactions in this category never count toward
// invoice totals — they pay the invoice, they are not purchases.
const CategoryTransfer = "Transferência"

// Transaction is a single money movement recorded by a user.
//
// Account references either a Card or a Wallet by id. Amount is signed by
// convention (income positive, expense negative) but reporting code must not
// rely on the sign; classification goes through Type.
type Transaction struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Date         time.Time `json:"date"`
	Amount       float64   `json:"amount"`
	Type         string    `json:"type"` // income, expense, transfer
	Category     string    `json:"category"`
	Description  string    `json:"description,omitempty"`
	Account      string    `json:"account,omitempty"`       // card or wallet id
	CardFunction string    `json:"card_function,omitempty"` // debit, credit, or empty
	Installments int       `json:"installments,omitempty"`
	Installment  int       `json:"installment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TransactionRequest is the payload to record a transaction.
type TransactionRequest struct {
	Date         string  `json:"date"` // RFC3339 or YYYY-MM-DD
	Amount       float64 `json:"amount"`
	Type         string  `json:"type"`
	Category     string  `json:"category"`
	Description  string  `json:"description,omitempty"`
	Account      string  `json:"account,omitempty"`
	CardFunction string  `json:"card_function,omitempty"`
	Installments int     `json:"installments,omitempty"`
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	From     *time.Time
	To       *time.Time
	Type     string
	Category string
	Account  string
	Page     int
	PageSize int
}
