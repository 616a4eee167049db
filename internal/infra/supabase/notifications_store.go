package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
)

type notificationRow struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

func (r notificationRow) toDomain() domain.Notification {
	return domain.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Message:   r.Message,
		Type:      r.Type,
		Read:      r.Read,
		CreatedAt: parseDate(r.CreatedAt),
	}
}

func (c *Client) ListNotifications(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]domain.Notification, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListNotifications")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	path := fmt.Sprintf("notifications?user_id=eq.%s&order=created_at.desc&limit=%d&offset=%d", userID, pageSize, offset)
	if unreadOnly {
		path += "&read=eq.false"
	}
	body, err := c.doGuardedGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/notifications", Err: err}
	}

	var rows []notificationRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	out := make([]domain.Notification, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *Client) CreateNotification(ctx context.Context, n *domain.Notification) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateNotification")
	defer span.End()

	row := map[string]any{
		"user_id": n.UserID,
		"title":   n.Title,
		"message": n.Message,
		"type":    n.Type,
		"read":    false,
	}
	_, err := c.doPost(ctx, "notifications", row)
	return err
}

func (c *Client) MarkNotificationRead(ctx context.Context, userID, notifID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.MarkNotificationRead")
	defer span.End()

	path := fmt.Sprintf("notifications?id=eq.%s&user_id=eq.%s", notifID, userID)
	return c.doPatch(ctx, path, map[string]any{
		"read":    true,
		"read_at": time.Now().Format(time.RFC3339),
	})
}
