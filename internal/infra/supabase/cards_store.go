package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
)

// ============================================================
// Cards — CRUD via PostgREST
// ============================================================

// cardRow maps the cards table. Dates arrive as strings.
type cardRow struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Brand       string  `json:"brand"`
	Last4       string  `json:"last4"`
	Color       string  `json:"color"`
	HasCredit   bool    `json:"has_credit"`
	HasDebit    bool    `json:"has_debit"`
	DueDay      int     `json:"due_day"`
	ClosingDay  int     `json:"closing_day"`
	CreditLimit float64 `json:"credit_limit"`
	UsedLimit   float64 `json:"used_limit"`
	Balance     float64 `json:"balance"`
	Archived    bool    `json:"archived"`
	CreatedAt   string  `json:"created_at"`
}

func (r cardRow) toDomain() domain.Card {
	return domain.Card{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Type:        r.Type,
		Brand:       r.Brand,
		Last4:       r.Last4,
		Color:       r.Color,
		HasCredit:   r.HasCredit,
		HasDebit:    r.HasDebit,
		DueDay:      r.DueDay,
		ClosingDay:  r.ClosingDay,
		CreditLimit: r.CreditLimit,
		UsedLimit:   r.UsedLimit,
		Balance:     r.Balance,
		Archived:    r.Archived,
		CreatedAt:   parseDate(r.CreatedAt),
	}
}

func (c *Client) CreateCard(ctx context.Context, userID string, req *domain.CardRequest) (*domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateCard")
	defer span.End()

	hasCredit := req.Type == domain.CardTypeCredit || req.Type == domain.CardTypeBoth
	if req.HasCredit != nil {
		hasCredit = *req.HasCredit
	}
	hasDebit := req.Type == domain.CardTypeDebit || req.Type == domain.CardTypeBoth
	if req.HasDebit != nil {
		hasDebit = *req.HasDebit
	}

	row := map[string]any{
		"user_id":      userID,
		"name":         req.Name,
		"type":         req.Type,
		"brand":        req.Brand,
		"last4":        req.Last4,
		"color":        req.Color,
		"has_credit":   hasCredit,
		"has_debit":    hasDebit,
		"due_day":      req.DueDay,
		"closing_day":  req.ClosingDay,
		"credit_limit": req.CreditLimit,
		"used_limit":   0,
		"balance":      0,
		"archived":     false,
	}

	body, err := c.doPost(ctx, "cards", row)
	if err != nil {
		return nil, err
	}

	var rows []cardRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode card: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from cards insert")
	}
	card := rows[0].toDomain()
	return &card, nil
}

func (c *Client) ListCards(ctx context.Context, userID string) ([]domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListCards")
	defer span.End()

	path := fmt.Sprintf("cards?user_id=eq.%s&archived=eq.false&order=created_at.desc", userID)
	body, err := c.doGuardedGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/cards", Err: err}
	}

	var rows []cardRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}
	cards := make([]domain.Card, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, r.toDomain())
	}
	return cards, nil
}

func (c *Client) GetCard(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCard")
	defer span.End()

	path := fmt.Sprintf("cards?user_id=eq.%s&id=eq.%s&limit=1", userID, cardID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var rows []cardRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode card: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "card", ID: cardID}
	}
	card := rows[0].toDomain()
	return &card, nil
}

func (c *Client) UpdateCard(ctx context.Context, userID, cardID string, updates map[string]any) (*domain.Card, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateCard")
	defer span.End()

	updates["updated_at"] = time.Now().Format(time.RFC3339)
	if err := c.doPatch(ctx, fmt.Sprintf("cards?user_id=eq.%s&id=eq.%s", userID, cardID), updates); err != nil {
		return nil, err
	}
	return c.GetCard(ctx, userID, cardID)
}

func (c *Client) ArchiveCard(ctx context.Context, userID, cardID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.ArchiveCard")
	defer span.End()

	patch := map[string]any{"archived": true, "updated_at": time.Now().Format(time.RFC3339)}
	return c.doPatch(ctx, fmt.Sprintf("cards?user_id=eq.%s&id=eq.%s", userID, cardID), patch)
}

func (c *Client) UpdateCardUsedLimit(ctx context.Context, cardID string, usedLimit float64) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateCardUsedLimit")
	defer span.End()

	patch := map[string]any{"used_limit": usedLimit, "updated_at": time.Now().Format(time.RFC3339)}
	return c.doPatch(ctx, fmt.Sprintf("cards?id=eq.%s", cardID), patch)
}
