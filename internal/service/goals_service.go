package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
	"github.com/mana-finance/mana-backend-go/internal/infra/observability"
	"github.com/mana-finance/mana-backend-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var goalTracer = otel.Tracer("service/goals")

// GoalService manages savings goals and contributions.
type GoalService struct {
	store   port.FinanceStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewGoalService creates a new goal service.
func NewGoalService(store port.FinanceStore, metrics *observability.Metrics, logger *zap.Logger) *GoalService {
	return &GoalService{store: store, metrics: metrics, logger: logger}
}

func (s *GoalService) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	ctx, span := goalTracer.Start(ctx, "GoalService.ListGoals")
	defer span.End()

	return s.store.ListGoals(ctx, userID)
}

func (s *GoalService) GetGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	ctx, span := goalTracer.Start(ctx, "GoalService.GetGoal")
	defer span.End()

	return s.store.GetGoal(ctx, userID, goalID)
}

func (s *GoalService) CreateGoal(ctx context.Context, userID string, req *domain.GoalRequest) (*domain.Goal, error) {
	ctx, span := goalTracer.Start(ctx, "GoalService.CreateGoal")
	defer span.End()

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if req.TargetAmount <= 0 {
		return nil, &domain.ErrValidation{Field: "target_amount", Message: "must be positive"}
	}

	goal := &domain.Goal{
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Color:        req.Color,
	}
	if req.Deadline != "" {
		d, err := time.ParseInLocation("2006-01-02", req.Deadline, time.Local)
		if err != nil {
			return nil, &domain.ErrValidation{Field: "deadline", Message: "must be YYYY-MM-DD"}
		}
		goal.Deadline = &d
	}

	created, err := s.store.CreateGoal(ctx, goal)
	if err != nil {
		return nil, err
	}
	s.logger.Info("goal created",
		zap.String("goal_id", created.ID),
		zap.String("user_id", userID),
		zap.Float64("target", created.TargetAmount),
	)
	return created, nil
}

func (s *GoalService) UpdateGoal(ctx context.Context, userID, goalID string, req *domain.GoalRequest) (*domain.Goal, error) {
	ctx, span := goalTracer.Start(ctx, "GoalService.UpdateGoal")
	defer span.End()

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.TargetAmount > 0 {
		updates["target_amount"] = req.TargetAmount
	}
	if req.Color != "" {
		updates["color"] = req.Color
	}
	if req.Deadline != "" {
		if _, err := time.ParseInLocation("2006-01-02", req.Deadline, time.Local); err != nil {
			return nil, &domain.ErrValidation{Field: "deadline", Message: "must be YYYY-MM-DD"}
		}
		updates["deadline"] = req.Deadline
	}
	if len(updates) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "nothing to update"}
	}

	return s.store.UpdateGoal(ctx, userID, goalID, updates)
}

func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	ctx, span := goalTracer.Start(ctx, "GoalService.DeleteGoal")
	defer span.End()

	return s.store.DeleteGoal(ctx, userID, goalID)
}

// Contribute moves money into a goal. When the source account is a wallet,
// the wallet must cover the amount and its balance is debited.
func (s *GoalService) Contribute(ctx context.Context, userID, goalID string, req *domain.GoalContributionRequest) (*domain.Goal, error) {
	ctx, span := goalTracer.Start(ctx, "GoalService.Contribute")
	defer span.End()

	if req.Amount <= 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	}

	goal, err := s.store.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal.Completed {
		return nil, &domain.ErrValidation{Field: "goal", Message: "goal already completed"}
	}

	if req.Account != "" {
		wallet, werr := s.store.GetWallet(ctx, userID, req.Account)
		if werr == nil {
			if wallet.Balance < req.Amount {
				return nil, &domain.ErrInsufficientFunds{Available: wallet.Balance, Required: req.Amount}
			}
			if _, err := s.store.UpdateWalletBalance(ctx, wallet.ID, -req.Amount); err != nil {
				return nil, fmt.Errorf("debit wallet: %w", err)
			}
		}
	}

	contrib := &domain.GoalContribution{
		GoalID:  goalID,
		UserID:  userID,
		Amount:  req.Amount,
		Account: req.Account,
		Date:    time.Now(),
	}
	if _, err := s.store.InsertGoalContribution(ctx, contrib); err != nil {
		return nil, fmt.Errorf("insert contribution: %w", err)
	}

	newAmount := goal.CurrentAmount + req.Amount
	updates := map[string]any{"current_amount": newAmount}
	completed := newAmount >= goal.TargetAmount
	if completed {
		updates["completed"] = true
	}

	updated, err := s.store.UpdateGoal(ctx, userID, goalID, updates)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}

	if completed {
		notif := &domain.Notification{
			UserID:  userID,
			Title:   "Meta concluída!",
			Message: fmt.Sprintf("Você atingiu a meta %q.", goal.Name),
			Type:    "goal_completed",
		}
		if err := s.store.CreateNotification(ctx, notif); err != nil {
			s.logger.Warn("goal completion notification failed",
				zap.String("goal_id", goalID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("goal contribution recorded",
		zap.String("goal_id", goalID),
		zap.Float64("amount", req.Amount),
		zap.Bool("completed", completed),
	)
	return updated, nil
}

func (s *GoalService) ListContributions(ctx context.Context, userID, goalID string) ([]domain.GoalContribution, error) {
	ctx, span := goalTracer.Start(ctx, "GoalService.ListContributions")
	defer span.End()

	return s.store.ListGoalContributions(ctx, userID, goalID)
}
