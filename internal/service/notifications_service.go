package service

import (
	"context"

	"github.com/mana-finance/mana-backend-go/internal/domain"
)

// ============================================================
// Notifications
// ============================================================

func (s *FinanceService) ListNotifications(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]domain.Notification, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListNotifications")
	defer span.End()

	return s.store.ListNotifications(ctx, userID, unreadOnly, page, pageSize)
}

func (s *FinanceService) MarkNotificationRead(ctx context.Context, userID, notifID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.MarkNotificationRead")
	defer span.End()

	return s.store.MarkNotificationRead(ctx, userID, notifID)
}
