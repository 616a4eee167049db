// Package service provides the business logic layer (use cases).
// FinanceService handles cards, wallets, transactions and the bookkeeping
// side effects between them (balances and credit limits).
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/billing"
	"github.com/mana-finance/mana-backend-go/internal/domain"
	"github.com/mana-finance/mana-backend-go/internal/infra/observability"
	"github.com/mana-finance/mana-backend-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var financeTracer = otel.Tracer("service/finance")

// FinanceService orchestrates card, wallet and transaction operations via
// the Supabase store.
type FinanceService struct {
	store     port.FinanceStore
	cardCache port.Cache[[]domain.Card]
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewFinanceService creates a new finance service.
func NewFinanceService(store port.FinanceStore, cardCache port.Cache[[]domain.Card], metrics *observability.Metrics, logger *zap.Logger) *FinanceService {
	return &FinanceService{store: store, cardCache: cardCache, metrics: metrics, logger: logger}
}

// cards returns the user's cards, from cache when fresh.
func (s *FinanceService) cards(ctx context.Context, userID string) ([]domain.Card, error) {
	if cached, ok := s.cardCache.Get(userID); ok {
		s.metrics.IncrCacheHit("cards")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("cards")

	cards, err := s.store.ListCards(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cardCache.Set(userID, cards)
	return cards, nil
}

func (s *FinanceService) invalidateCards(userID string) {
	s.cardCache.Delete(userID)
}

// ============================================================
// Wallets
// ============================================================

func (s *FinanceService) CreateWallet(ctx context.Context, userID string, req *domain.WalletRequest) (*domain.Wallet, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CreateWallet")
	defer span.End()

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	return s.store.CreateWallet(ctx, userID, req)
}

func (s *FinanceService) ListWallets(ctx context.Context, userID string) ([]domain.Wallet, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListWallets")
	defer span.End()

	return s.store.ListWallets(ctx, userID)
}

func (s *FinanceService) GetWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.GetWallet")
	defer span.End()

	return s.store.GetWallet(ctx, userID, walletID)
}

func (s *FinanceService) ArchiveWallet(ctx context.Context, userID, walletID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ArchiveWallet")
	defer span.End()

	return s.store.ArchiveWallet(ctx, userID, walletID)
}

// ============================================================
// Transactions
// ============================================================

// RecordTransaction validates and persists a transaction, then applies its
// bookkeeping side effects: debit/income movements adjust the wallet or card
// balance; credit purchases consume the card's limit; invoice payments
// (category "Transferência" on a card) release it.
func (s *FinanceService) RecordTransaction(ctx context.Context, userID string, req *domain.TransactionRequest) (_ *domain.Transaction, err error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.RecordTransaction")
	defer span.End()
	span.SetAttributes(attribute.String("tx.type", req.Type))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("record_transaction", time.Since(start))
		s.metrics.IncrRequest(statusLabel(err))
	}()

	tx, err := s.buildTransaction(userID, req)
	if err != nil {
		return nil, err
	}

	cards, err := s.cards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	card := billing.CardByID(cards, tx.Account)

	// Credit purchases must fit the available limit before anything is saved.
	if card != nil && tx.Type == domain.TransactionExpense && billing.IsCreditOperation(tx, card) {
		amount := math.Abs(tx.Amount)
		if card.CreditLimit > 0 && amount > card.AvailableLimit() {
			return nil, &domain.ErrLimitExceeded{
				LimitType: "credit",
				Limit:     card.CreditLimit,
				Current:   card.UsedLimit + amount,
			}
		}
	}

	saved, err := s.store.InsertTransaction(ctx, tx)
	if err != nil {
		s.metrics.IncrExternalError("supabase")
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	if err := s.applySideEffects(ctx, userID, saved, card); err != nil {
		// The transaction is saved; balance drift is logged, not fatal.
		s.logger.Error("transaction side effects failed",
			zap.String("tx_id", saved.ID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	s.logger.Info("transaction recorded",
		zap.String("tx_id", saved.ID),
		zap.String("type", saved.Type),
		zap.String("category", saved.Category),
		zap.Float64("amount", saved.Amount),
	)
	return saved, nil
}

func (s *FinanceService) buildTransaction(userID string, req *domain.TransactionRequest) (*domain.Transaction, error) {
	switch req.Type {
	case domain.TransactionIncome, domain.TransactionExpense, domain.TransactionTransfer:
	default:
		return nil, &domain.ErrValidation{Field: "type", Message: "must be income, expense or transfer"}
	}
	if req.Amount == 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be non-zero"}
	}
	if req.Category == "" {
		return nil, &domain.ErrValidation{Field: "category", Message: "category is required"}
	}
	switch req.CardFunction {
	case "", domain.CardFunctionDebit, domain.CardFunctionCredit:
	default:
		return nil, &domain.ErrValidation{Field: "card_function", Message: "must be debit or credit"}
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := parseRequestDate(req.Date)
		if err != nil {
			return nil, &domain.ErrValidation{Field: "date", Message: "must be RFC3339 or YYYY-MM-DD"}
		}
		date = parsed
	}

	installments := req.Installments
	if installments < 1 {
		installments = 1
	}

	return &domain.Transaction{
		UserID:       userID,
		Date:         date,
		Amount:       req.Amount,
		Type:         req.Type,
		Category:     req.Category,
		Description:  req.Description,
		Account:      req.Account,
		CardFunction: req.CardFunction,
		Installments: installments,
		Installment:  1,
	}, nil
}

// applySideEffects keeps balances and credit limits consistent with the
// recorded transaction. card may be nil when Account is a wallet or empty.
func (s *FinanceService) applySideEffects(ctx context.Context, userID string, tx *domain.Transaction, card *domain.Card) error {
	if tx.Account == "" {
		return nil
	}
	amount := math.Abs(tx.Amount)

	if card != nil {
		if tx.Type == domain.TransactionExpense && billing.IsCreditOperation(tx, card) {
			if err := s.store.UpdateCardUsedLimit(ctx, card.ID, card.UsedLimit+amount); err != nil {
				return fmt.Errorf("update used limit: %w", err)
			}
			s.invalidateCards(userID)
			return nil
		}
		if tx.Category == domain.CategoryTransfer && tx.Type != domain.TransactionIncome {
			// Invoice payment: frees used limit, never below zero.
			newUsed := card.UsedLimit - amount
			if newUsed < 0 {
				newUsed = 0
			}
			if err := s.store.UpdateCardUsedLimit(ctx, card.ID, newUsed); err != nil {
				return fmt.Errorf("release used limit: %w", err)
			}
			s.invalidateCards(userID)
		}
		return nil
	}

	// Wallet movement.
	delta := amount
	if tx.Type == domain.TransactionExpense || (tx.Type == domain.TransactionTransfer && tx.Amount < 0) {
		delta = -amount
	}
	if _, err := s.store.UpdateWalletBalance(ctx, tx.Account, delta); err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			// Account references neither a card nor a wallet; legacy rows
			// from the old app carry free-text account names here.
			return nil
		}
		return fmt.Errorf("update wallet balance: %w", err)
	}
	return nil
}

func (s *FinanceService) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListTransactions")
	defer span.End()

	return s.store.ListTransactions(ctx, userID, filter)
}

func (s *FinanceService) GetTransaction(ctx context.Context, userID, txID string) (*domain.Transaction, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.GetTransaction")
	defer span.End()

	return s.store.GetTransaction(ctx, userID, txID)
}

// DeleteTransaction removes a transaction and reverses its bookkeeping
// side effects.
func (s *FinanceService) DeleteTransaction(ctx context.Context, userID, txID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.DeleteTransaction")
	defer span.End()

	tx, err := s.store.GetTransaction(ctx, userID, txID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteTransaction(ctx, userID, txID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if tx.Account != "" {
		cards, cerr := s.cards(ctx, userID)
		if cerr == nil {
			card := billing.CardByID(cards, tx.Account)
			amount := math.Abs(tx.Amount)
			switch {
			case card != nil && tx.Type == domain.TransactionExpense && billing.IsCreditOperation(tx, card):
				newUsed := card.UsedLimit - amount
				if newUsed < 0 {
					newUsed = 0
				}
				if err := s.store.UpdateCardUsedLimit(ctx, card.ID, newUsed); err != nil {
					s.logger.Error("reverse used limit failed", zap.String("tx_id", txID), zap.Error(err))
				}
				s.invalidateCards(userID)
			case card == nil:
				delta := -amount // undo an income
				if tx.Type == domain.TransactionExpense || (tx.Type == domain.TransactionTransfer && tx.Amount < 0) {
					delta = amount // give the money back
				}
				if _, err := s.store.UpdateWalletBalance(ctx, tx.Account, delta); err != nil {
					var notFound *domain.ErrNotFound
					if !errors.As(err, &notFound) {
						s.logger.Error("reverse wallet balance failed", zap.String("tx_id", txID), zap.Error(err))
					}
				}
			}
		}
	}

	s.logger.Info("transaction deleted", zap.String("tx_id", txID), zap.String("user_id", userID))
	return nil
}

// parseRequestDate accepts RFC3339 or a bare calendar date.
func parseRequestDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// statusLabel maps an operation outcome to the request-counter label.
func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
