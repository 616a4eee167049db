package domain

import "time"

// ============================================================
// Budgets
// ============================================================

// Budget is a monthly spending limit for one category.
type Budget struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Category          string    `json:"category"`
	MonthlyLimit      float64   `json:"monthly_limit"`
	AlertThresholdPct float64   `json:"alert_threshold_pct"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

// BudgetStatus is a budget with its actual spending for a given month.
//
// Spent is computed on a cash basis: a credit-card expense counts toward the
// month its invoice is due, not the month of purchase.
type BudgetStatus struct {
	Budget
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	Spent        float64 `json:"spent"`
	Remaining    float64 `json:"remaining"`
	UsagePct     float64 `json:"usage_pct"`
	OverLimit    bool    `json:"over_limit"`
	AlertReached bool    `json:"alert_reached"`
}
