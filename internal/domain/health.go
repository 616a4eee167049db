package domain

// ============================================================
// Financial health scoring
// ============================================================

// FinancialHealth is returned by GET /v1/health-score and summarizes how a
// user's finances look over a date range.
type FinancialHealth struct {
	Score          int     `json:"score"` // 0–100
	Rating         string  `json:"rating"`
	SavingsRate    float64 `json:"savingsRate"` // fraction of income saved
	ExpenseRatio   float64 `json:"expenseRatio"`
	BudgetsOnTrack int     `json:"budgetsOnTrack"`
	BudgetsTotal   int     `json:"budgetsTotal"`
	CreditUsagePct float64 `json:"creditUsagePct"`
	Tips           []string `json:"tips,omitempty"`
}
