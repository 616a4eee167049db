package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
)

// ============================================================
// Budgets — CRUD via PostgREST
// ============================================================

type budgetRow struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	Category          string  `json:"category"`
	MonthlyLimit      float64 `json:"monthly_limit"`
	AlertThresholdPct float64 `json:"alert_threshold_pct"`
	IsActive          bool    `json:"is_active"`
	CreatedAt         string  `json:"created_at"`
}

func (r budgetRow) toDomain() domain.Budget {
	return domain.Budget{
		ID:                r.ID,
		UserID:            r.UserID,
		Category:          r.Category,
		MonthlyLimit:      r.MonthlyLimit,
		AlertThresholdPct: r.AlertThresholdPct,
		IsActive:          r.IsActive,
		CreatedAt:         parseDate(r.CreatedAt),
	}
}

func (c *Client) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListBudgets")
	defer span.End()

	path := fmt.Sprintf("budgets?user_id=eq.%s&is_active=eq.true&order=category.asc", userID)
	body, err := c.doGuardedGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/budgets", Err: err}
	}

	var rows []budgetRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode budgets: %w", err)
	}
	budgets := make([]domain.Budget, 0, len(rows))
	for _, r := range rows {
		budgets = append(budgets, r.toDomain())
	}
	return budgets, nil
}

func (c *Client) CreateBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateBudget")
	defer span.End()

	row := map[string]any{
		"user_id":             budget.UserID,
		"category":            budget.Category,
		"monthly_limit":       budget.MonthlyLimit,
		"alert_threshold_pct": budget.AlertThresholdPct,
		"is_active":           budget.IsActive,
	}

	body, err := c.doPost(ctx, "budgets", row)
	if err != nil {
		return nil, err
	}

	var rows []budgetRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode budget: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from budgets insert")
	}
	out := rows[0].toDomain()
	return &out, nil
}

func (c *Client) UpdateBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateBudget")
	defer span.End()

	patch := map[string]any{
		"monthly_limit":       budget.MonthlyLimit,
		"alert_threshold_pct": budget.AlertThresholdPct,
		"is_active":           budget.IsActive,
		"updated_at":          time.Now().Format(time.RFC3339),
	}
	path := fmt.Sprintf("budgets?user_id=eq.%s&id=eq.%s", budget.UserID, budget.ID)
	if err := c.doPatch(ctx, path, patch); err != nil {
		return nil, err
	}
	return budget, nil
}

func (c *Client) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteBudget")
	defer span.End()

	return c.doDelete(ctx, fmt.Sprintf("budgets?user_id=eq.%s&id=eq.%s", userID, budgetID))
}
