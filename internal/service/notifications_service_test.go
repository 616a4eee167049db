package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mana-finance/mana-backend-go/internal/domain"
)

func TestMarkNotificationRead_OnlyOwnNotifications(t *testing.T) {
	store := newMockFinanceStore()
	store.notifications = []domain.Notification{
		{ID: "notif-1", UserID: "user-1", Type: "budget_alert", Title: "Orçamento no limite"},
	}
	svc := newFinanceService(store)

	err := svc.MarkNotificationRead(context.Background(), "user-2", "notif-1")
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound for another user's notification, got %v", err)
	}
	if store.notifications[0].Read {
		t.Error("notification must stay unread after a foreign mark attempt")
	}

	if err := svc.MarkNotificationRead(context.Background(), "user-1", "notif-1"); err != nil {
		t.Fatalf("owner marking read: %v", err)
	}
	if !store.notifications[0].Read {
		t.Error("expected the owner's mark to stick")
	}
}
