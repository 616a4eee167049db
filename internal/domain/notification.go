package domain

import "time"

// Notification is an in-app alert (budget threshold, invoice due, goal hit).
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"` // budget_alert, invoice_due, goal_completed
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
