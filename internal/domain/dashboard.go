package domain

// ============================================================
// Dashboard & invoice reporting (API response types)
// ============================================================

// MonthlyStats is returned by GET /v1/dashboard/{year}/{month}.
//
// Expenses follow cash-basis accounting: credit purchases land in the month
// their invoice is due. ProjectedInvoices carries, per credit card, the
// invoice total for the month when no payment transfer exists for it yet.
type MonthlyStats struct {
	Year              int                `json:"year"`
	Month             int                `json:"month"`
	TotalIncome       float64            `json:"totalIncome"`
	TotalExpenses     float64            `json:"totalExpenses"`
	Balance           float64            `json:"balance"`
	ProjectedInvoices []InvoiceSummary   `json:"projectedInvoices"`
	ByCategory        map[string]float64 `json:"byCategory"`
	TransactionCount  int                `json:"transactionCount"`
}

// InvoiceSummary is one card's invoice for one reference month.
type InvoiceSummary struct {
	CardID    string  `json:"cardId"`
	CardName  string  `json:"cardName"`
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Amount    float64 `json:"amount"`
	DueDate   string  `json:"dueDate"`    // YYYY-MM-DD
	CycleOpen string  `json:"cycleOpen"`  // YYYY-MM-DD
	CycleClose string `json:"cycleClose"` // YYYY-MM-DD
	Status    string  `json:"status"`     // projected, realized, future
}

// InvoiceHistory is returned by GET /v1/cards/{cardId}/invoices and spans a
// rolling window of months around "now".
type InvoiceHistory struct {
	CardID   string           `json:"cardId"`
	CardName string           `json:"cardName"`
	Invoices []InvoiceSummary `json:"invoices"`
}

// TrendPoint is one month in a cash-flow trend series.
type TrendPoint struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}
