package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
)

// mockFinanceStore is an in-memory port.FinanceStore for service tests.
// Mutating methods record their effects so tests can assert side effects.
type mockFinanceStore struct {
	cards         []domain.Card
	wallets       []domain.Wallet
	txns          []domain.Transaction
	budgets       []domain.Budget
	goals         []domain.Goal
	contributions []domain.GoalContribution
	notifications []domain.Notification

	usedLimitUpdates map[string]float64
	walletDeltas     map[string]float64
	listErr          error
}

func newMockFinanceStore() *mockFinanceStore {
	return &mockFinanceStore{
		usedLimitUpdates: map[string]float64{},
		walletDeltas:     map[string]float64{},
	}
}

// --- Cards ---

func (m *mockFinanceStore) CreateCard(_ context.Context, userID string, req *domain.CardRequest) (*domain.Card, error) {
	card := domain.Card{
		ID:          fmt.Sprintf("card-%d", len(m.cards)+1),
		UserID:      userID,
		Name:        req.Name,
		Type:        req.Type,
		DueDay:      req.DueDay,
		ClosingDay:  req.ClosingDay,
		CreditLimit: req.CreditLimit,
	}
	m.cards = append(m.cards, card)
	return &card, nil
}

func (m *mockFinanceStore) ListCards(_ context.Context, _ string) ([]domain.Card, error) {
	return m.cards, m.listErr
}

func (m *mockFinanceStore) GetCard(_ context.Context, _, cardID string) (*domain.Card, error) {
	for i := range m.cards {
		if m.cards[i].ID == cardID {
			return &m.cards[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "card", ID: cardID}
}

func (m *mockFinanceStore) UpdateCard(ctx context.Context, userID, cardID string, _ map[string]any) (*domain.Card, error) {
	return m.GetCard(ctx, userID, cardID)
}

func (m *mockFinanceStore) ArchiveCard(_ context.Context, _, cardID string) error {
	for i := range m.cards {
		if m.cards[i].ID == cardID {
			m.cards[i].Archived = true
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "card", ID: cardID}
}

func (m *mockFinanceStore) UpdateCardUsedLimit(_ context.Context, cardID string, usedLimit float64) error {
	m.usedLimitUpdates[cardID] = usedLimit
	for i := range m.cards {
		if m.cards[i].ID == cardID {
			m.cards[i].UsedLimit = usedLimit
		}
	}
	return nil
}

// --- Wallets ---

func (m *mockFinanceStore) CreateWallet(_ context.Context, userID string, req *domain.WalletRequest) (*domain.Wallet, error) {
	w := domain.Wallet{
		ID:      fmt.Sprintf("wallet-%d", len(m.wallets)+1),
		UserID:  userID,
		Name:    req.Name,
		Balance: req.Balance,
	}
	m.wallets = append(m.wallets, w)
	return &w, nil
}

func (m *mockFinanceStore) ListWallets(_ context.Context, _ string) ([]domain.Wallet, error) {
	return m.wallets, nil
}

func (m *mockFinanceStore) GetWallet(_ context.Context, _, walletID string) (*domain.Wallet, error) {
	for i := range m.wallets {
		if m.wallets[i].ID == walletID {
			return &m.wallets[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "wallet", ID: walletID}
}

func (m *mockFinanceStore) UpdateWalletBalance(_ context.Context, walletID string, delta float64) (*domain.Wallet, error) {
	for i := range m.wallets {
		if m.wallets[i].ID == walletID {
			m.wallets[i].Balance += delta
			m.walletDeltas[walletID] += delta
			return &m.wallets[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "wallet", ID: walletID}
}

func (m *mockFinanceStore) ArchiveWallet(_ context.Context, _, walletID string) error {
	for i := range m.wallets {
		if m.wallets[i].ID == walletID {
			m.wallets[i].Archived = true
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "wallet", ID: walletID}
}

// --- Transactions ---

func (m *mockFinanceStore) InsertTransaction(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	saved := *tx
	saved.ID = fmt.Sprintf("tx-%d", len(m.txns)+1)
	m.txns = append(m.txns, saved)
	return &saved, nil
}

func (m *mockFinanceStore) ListTransactions(_ context.Context, _ string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Transaction
	for _, tx := range m.txns {
		if filter.From != nil && tx.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && tx.Date.After(*filter.To) {
			continue
		}
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		if filter.Category != "" && tx.Category != filter.Category {
			continue
		}
		if filter.Account != "" && tx.Account != filter.Account {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (m *mockFinanceStore) GetTransaction(_ context.Context, _, txID string) (*domain.Transaction, error) {
	for i := range m.txns {
		if m.txns[i].ID == txID {
			return &m.txns[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "transaction", ID: txID}
}

func (m *mockFinanceStore) DeleteTransaction(_ context.Context, _, txID string) error {
	for i := range m.txns {
		if m.txns[i].ID == txID {
			m.txns = append(m.txns[:i], m.txns[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "transaction", ID: txID}
}

// --- Budgets ---

func (m *mockFinanceStore) ListBudgets(_ context.Context, _ string) ([]domain.Budget, error) {
	return m.budgets, nil
}

func (m *mockFinanceStore) CreateBudget(_ context.Context, budget *domain.Budget) (*domain.Budget, error) {
	saved := *budget
	saved.ID = fmt.Sprintf("budget-%d", len(m.budgets)+1)
	m.budgets = append(m.budgets, saved)
	return &saved, nil
}

func (m *mockFinanceStore) UpdateBudget(_ context.Context, budget *domain.Budget) (*domain.Budget, error) {
	for i := range m.budgets {
		if m.budgets[i].ID == budget.ID {
			m.budgets[i] = *budget
			return budget, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "budget", ID: budget.ID}
}

func (m *mockFinanceStore) DeleteBudget(_ context.Context, _, budgetID string) error {
	for i := range m.budgets {
		if m.budgets[i].ID == budgetID {
			m.budgets = append(m.budgets[:i], m.budgets[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "budget", ID: budgetID}
}

// --- Goals ---

func (m *mockFinanceStore) ListGoals(_ context.Context, _ string) ([]domain.Goal, error) {
	return m.goals, nil
}

func (m *mockFinanceStore) GetGoal(_ context.Context, _, goalID string) (*domain.Goal, error) {
	for i := range m.goals {
		if m.goals[i].ID == goalID {
			return &m.goals[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "goal", ID: goalID}
}

func (m *mockFinanceStore) CreateGoal(_ context.Context, goal *domain.Goal) (*domain.Goal, error) {
	saved := *goal
	saved.ID = fmt.Sprintf("goal-%d", len(m.goals)+1)
	m.goals = append(m.goals, saved)
	return &saved, nil
}

func (m *mockFinanceStore) UpdateGoal(_ context.Context, _, goalID string, updates map[string]any) (*domain.Goal, error) {
	for i := range m.goals {
		if m.goals[i].ID == goalID {
			if v, ok := updates["current_amount"].(float64); ok {
				m.goals[i].CurrentAmount = v
			}
			if v, ok := updates["completed"].(bool); ok {
				m.goals[i].Completed = v
			}
			if v, ok := updates["name"].(string); ok {
				m.goals[i].Name = v
			}
			return &m.goals[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "goal", ID: goalID}
}

func (m *mockFinanceStore) DeleteGoal(_ context.Context, _, goalID string) error {
	for i := range m.goals {
		if m.goals[i].ID == goalID {
			m.goals = append(m.goals[:i], m.goals[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "goal", ID: goalID}
}

func (m *mockFinanceStore) InsertGoalContribution(_ context.Context, contrib *domain.GoalContribution) (*domain.GoalContribution, error) {
	saved := *contrib
	saved.ID = fmt.Sprintf("contrib-%d", len(m.contributions)+1)
	m.contributions = append(m.contributions, saved)
	return &saved, nil
}

func (m *mockFinanceStore) ListGoalContributions(_ context.Context, _, goalID string) ([]domain.GoalContribution, error) {
	var out []domain.GoalContribution
	for _, c := range m.contributions {
		if c.GoalID == goalID {
			out = append(out, c)
		}
	}
	return out, nil
}

// --- Notifications ---

func (m *mockFinanceStore) ListNotifications(_ context.Context, _ string, unreadOnly bool, _, _ int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range m.notifications {
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *mockFinanceStore) CreateNotification(_ context.Context, notif *domain.Notification) error {
	saved := *notif
	saved.ID = fmt.Sprintf("notif-%d", len(m.notifications)+1)
	m.notifications = append(m.notifications, saved)
	return nil
}

func (m *mockFinanceStore) MarkNotificationRead(_ context.Context, userID, notifID string) error {
	for i := range m.notifications {
		if m.notifications[i].ID == notifID && m.notifications[i].UserID == userID {
			m.notifications[i].Read = true
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "notification", ID: notifID}
}

// localDate builds a date in the local zone, matching how the reporting
// engine interprets days.
func localDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}
