package domain

import "time"

// ============================================================
// Goals
// ============================================================

// Goal is a savings target with an optional deadline.
type Goal struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Color         string     `json:"color,omitempty"`
	Completed     bool       `json:"completed"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ProgressPct returns completion as a percentage, capped at 100.
func (g *Goal) ProgressPct() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	pct := g.CurrentAmount / g.TargetAmount * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// GoalRequest is the payload to create or update a goal.
type GoalRequest struct {
	Name         string  `json:"name"`
	TargetAmount float64 `json:"target_amount"`
	Deadline     string  `json:"deadline,omitempty"` // YYYY-MM-DD
	Color        string  `json:"color,omitempty"`
}

// GoalContribution records money put toward a goal from a wallet or card.
type GoalContribution struct {
	ID        string    `json:"id"`
	GoalID    string    `json:"goal_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Account   string    `json:"account,omitempty"` // source wallet or card id
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// GoalContributionRequest is the payload to contribute to a goal.
type GoalContributionRequest struct {
	Amount  float64 `json:"amount"`
	Account string  `json:"account,omitempty"`
}
