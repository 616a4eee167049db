package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
)

// ============================================================
// Goals & contributions — CRUD via PostgREST
// ============================================================

type goalRow struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	Deadline      string  `json:"deadline"`
	Color         string  `json:"color"`
	Completed     bool    `json:"completed"`
	CreatedAt     string  `json:"created_at"`
}

func (r goalRow) toDomain() domain.Goal {
	g := domain.Goal{
		ID:            r.ID,
		UserID:        r.UserID,
		Name:          r.Name,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		Color:         r.Color,
		Completed:     r.Completed,
		CreatedAt:     parseDate(r.CreatedAt),
	}
	if r.Deadline != "" {
		d := parseDate(r.Deadline)
		if !d.IsZero() {
			g.Deadline = &d
		}
	}
	return g
}

func (c *Client) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListGoals")
	defer span.End()

	path := fmt.Sprintf("goals?user_id=eq.%s&order=created_at.desc", userID)
	body, err := c.doGuardedGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/goals", Err: err}
	}

	var rows []goalRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode goals: %w", err)
	}
	goals := make([]domain.Goal, 0, len(rows))
	for _, r := range rows {
		goals = append(goals, r.toDomain())
	}
	return goals, nil
}

func (c *Client) GetGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetGoal")
	defer span.End()

	path := fmt.Sprintf("goals?user_id=eq.%s&id=eq.%s&limit=1", userID, goalID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var rows []goalRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode goal: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "goal", ID: goalID}
	}
	goal := rows[0].toDomain()
	return &goal, nil
}

func (c *Client) CreateGoal(ctx context.Context, goal *domain.Goal) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateGoal")
	defer span.End()

	row := map[string]any{
		"user_id":        goal.UserID,
		"name":           goal.Name,
		"target_amount":  goal.TargetAmount,
		"current_amount": 0,
		"color":          goal.Color,
		"completed":      false,
	}
	if goal.Deadline != nil {
		row["deadline"] = goal.Deadline.Format("2006-01-02")
	}

	body, err := c.doPost(ctx, "goals", row)
	if err != nil {
		return nil, err
	}

	var rows []goalRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode goal: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from goals insert")
	}
	out := rows[0].toDomain()
	return &out, nil
}

func (c *Client) UpdateGoal(ctx context.Context, userID, goalID string, updates map[string]any) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateGoal")
	defer span.End()

	updates["updated_at"] = time.Now().Format(time.RFC3339)
	if err := c.doPatch(ctx, fmt.Sprintf("goals?user_id=eq.%s&id=eq.%s", userID, goalID), updates); err != nil {
		return nil, err
	}
	return c.GetGoal(ctx, userID, goalID)
}

func (c *Client) DeleteGoal(ctx context.Context, userID, goalID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteGoal")
	defer span.End()

	return c.doDelete(ctx, fmt.Sprintf("goals?user_id=eq.%s&id=eq.%s", userID, goalID))
}

// --- Contributions ---

type contributionRow struct {
	ID        string  `json:"id"`
	GoalID    string  `json:"goal_id"`
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	Account   string  `json:"account"`
	Date      string  `json:"date"`
	CreatedAt string  `json:"created_at"`
}

func (r contributionRow) toDomain() domain.GoalContribution {
	return domain.GoalContribution{
		ID:        r.ID,
		GoalID:    r.GoalID,
		UserID:    r.UserID,
		Amount:    r.Amount,
		Account:   r.Account,
		Date:      parseDate(r.Date),
		CreatedAt: parseDate(r.CreatedAt),
	}
}

func (c *Client) InsertGoalContribution(ctx context.Context, contrib *domain.GoalContribution) (*domain.GoalContribution, error) {
	ctx, span := tracer.Start(ctx, "Supabase.InsertGoalContribution")
	defer span.End()

	row := map[string]any{
		"goal_id": contrib.GoalID,
		"user_id": contrib.UserID,
		"amount":  contrib.Amount,
		"account": contrib.Account,
		"date":    contrib.Date.Format(time.RFC3339),
	}

	body, err := c.doPost(ctx, "goal_contributions", row)
	if err != nil {
		return nil, err
	}

	var rows []contributionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode contribution: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from goal_contributions insert")
	}
	out := rows[0].toDomain()
	return &out, nil
}

func (c *Client) ListGoalContributions(ctx context.Context, userID, goalID string) ([]domain.GoalContribution, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListGoalContributions")
	defer span.End()

	path := fmt.Sprintf("goal_contributions?user_id=eq.%s&goal_id=eq.%s&order=date.desc", userID, goalID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var rows []contributionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode contributions: %w", err)
	}
	contribs := make([]domain.GoalContribution, 0, len(rows))
	for _, r := range rows {
		contribs = append(contribs, r.toDomain())
	}
	return contribs, nil
}
