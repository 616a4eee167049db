// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
)

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// FinanceStore defines all data operations for the finance features.
// Implemented by the Supabase adapter (or any other persistence layer).
type FinanceStore interface {
	// Cards
	CreateCard(ctx context.Context, userID string, req *domain.CardRequest) (*domain.Card, error)
	ListCards(ctx context.Context, userID string) ([]domain.Card, error)
	GetCard(ctx context.Context, userID, cardID string) (*domain.Card, error)
	UpdateCard(ctx context.Context, userID, cardID string, updates map[string]any) (*domain.Card, error)
	ArchiveCard(ctx context.Context, userID, cardID string) error
	UpdateCardUsedLimit(ctx context.Context, cardID string, usedLimit float64) error

	// Wallets
	CreateWallet(ctx context.Context, userID string, req *domain.WalletRequest) (*domain.Wallet, error)
	ListWallets(ctx context.Context, userID string) ([]domain.Wallet, error)
	GetWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error)
	UpdateWalletBalance(ctx context.Context, walletID string, delta float64) (*domain.Wallet, error)
	ArchiveWallet(ctx context.Context, userID, walletID string) error

	// Transactions
	InsertTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, userID, txID string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, txID string) error

	// Budgets
	ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error)
	CreateBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, budget *domain.Budget) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error

	// Goals
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
	GetGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error)
	CreateGoal(ctx context.Context, goal *domain.Goal) (*domain.Goal, error)
	UpdateGoal(ctx context.Context, userID, goalID string, updates map[string]any) (*domain.Goal, error)
	DeleteGoal(ctx context.Context, userID, goalID string) error
	InsertGoalContribution(ctx context.Context, contrib *domain.GoalContribution) (*domain.GoalContribution, error)
	ListGoalContributions(ctx context.Context, userID, goalID string) ([]domain.GoalContribution, error)

	// Notifications
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]domain.Notification, error)
	CreateNotification(ctx context.Context, notif *domain.Notification) error
	MarkNotificationRead(ctx context.Context, userID, notifID string) error
}

// AuthStore defines all data operations for the authentication system.
type AuthStore interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, req *domain.RegisterRequest, passwordHash string) (*domain.User, error)

	GetCredentials(ctx context.Context, userID string) (*domain.AuthCredential, error)
	UpdateCredentials(ctx context.Context, userID string, updates map[string]any) error

	StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*domain.AuthRefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error
}
