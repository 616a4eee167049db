package service

import (
	"context"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Cards
// ============================================================

func (s *FinanceService) CreateCard(ctx context.Context, userID string, req *domain.CardRequest) (*domain.Card, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CreateCard")
	defer span.End()
	span.SetAttributes(attribute.String("card.type", req.Type))

	if err := validateCardRequest(req); err != nil {
		return nil, err
	}

	card, err := s.store.CreateCard(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	s.invalidateCards(userID)

	s.logger.Info("card created",
		zap.String("card_id", card.ID),
		zap.String("user_id", userID),
		zap.String("type", card.Type),
	)
	return card, nil
}

func (s *FinanceService) ListCards(ctx context.Context, userID string) ([]domain.Card, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListCards")
	defer span.End()

	return s.cards(ctx, userID)
}

func (s *FinanceService) GetCard(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.GetCard")
	defer span.End()

	return s.store.GetCard(ctx, userID, cardID)
}

func (s *FinanceService) UpdateCard(ctx context.Context, userID, cardID string, req *domain.CardRequest) (*domain.Card, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.UpdateCard")
	defer span.End()

	if err := validateCardRequest(req); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"updated_at": time.Now().Format(time.RFC3339),
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Type != "" {
		updates["type"] = req.Type
	}
	if req.Brand != "" {
		updates["brand"] = req.Brand
	}
	if req.Color != "" {
		updates["color"] = req.Color
	}
	if req.HasCredit != nil {
		updates["has_credit"] = *req.HasCredit
	}
	if req.HasDebit != nil {
		updates["has_debit"] = *req.HasDebit
	}
	if req.DueDay != 0 {
		updates["due_day"] = req.DueDay
	}
	if req.ClosingDay != 0 {
		updates["closing_day"] = req.ClosingDay
	}
	if req.CreditLimit != 0 {
		updates["credit_limit"] = req.CreditLimit
	}

	card, err := s.store.UpdateCard(ctx, userID, cardID, updates)
	if err != nil {
		return nil, err
	}
	s.invalidateCards(userID)
	return card, nil
}

func (s *FinanceService) ArchiveCard(ctx context.Context, userID, cardID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ArchiveCard")
	defer span.End()

	if err := s.store.ArchiveCard(ctx, userID, cardID); err != nil {
		return err
	}
	s.invalidateCards(userID)

	s.logger.Info("card archived", zap.String("card_id", cardID), zap.String("user_id", userID))
	return nil
}

func validateCardRequest(req *domain.CardRequest) error {
	switch req.Type {
	case "", domain.CardTypeDebit, domain.CardTypeCredit, domain.CardTypeBoth:
	default:
		return &domain.ErrValidation{Field: "type", Message: "must be debit, credit or both"}
	}
	if req.DueDay < 0 || req.DueDay > 31 {
		return &domain.ErrValidation{Field: "due_day", Message: "must be between 1 and 31"}
	}
	if req.ClosingDay < 0 || req.ClosingDay > 31 {
		return &domain.ErrValidation{Field: "closing_day", Message: "must be between 1 and 31"}
	}
	if req.CreditLimit < 0 {
		return &domain.ErrValidation{Field: "credit_limit", Message: "must not be negative"}
	}
	return nil
}
