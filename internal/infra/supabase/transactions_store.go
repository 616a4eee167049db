package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"

	"github.com/google/uuid"
)

// ============================================================
// Transactions — CRUD via PostgREST
// ============================================================

type transactionRow struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	Type         string  `json:"type"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Account      string  `json:"account"`
	CardFunction string  `json:"card_function"`
	Installments int     `json:"installments"`
	Installment  int     `json:"installment"`
	CreatedAt    string  `json:"created_at"`
}

func (r transactionRow) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:           r.ID,
		UserID:       r.UserID,
		Date:         parseDate(r.Date),
		Amount:       r.Amount,
		Type:         r.Type,
		Category:     r.Category,
		Description:  r.Description,
		Account:      r.Account,
		CardFunction: r.CardFunction,
		Installments: r.Installments,
		Installment:  r.Installment,
		CreatedAt:    parseDate(r.CreatedAt),
	}
}

func (c *Client) InsertTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.InsertTransaction")
	defer span.End()

	id := tx.ID
	if id == "" {
		id = uuid.New().String()
	}

	row := map[string]any{
		"id":            id,
		"user_id":       tx.UserID,
		"date":          tx.Date.Format(time.RFC3339),
		"amount":        tx.Amount,
		"type":          tx.Type,
		"category":      tx.Category,
		"description":   tx.Description,
		"account":       tx.Account,
		"card_function": tx.CardFunction,
		"installments":  tx.Installments,
		"installment":   tx.Installment,
	}

	body, err := c.doPost(ctx, "transactions", row)
	if err != nil {
		return nil, err
	}

	var rows []transactionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from transactions insert")
	}
	out := rows[0].toDomain()
	return &out, nil
}

// ListTransactions fetches a user's transactions, newest first, honoring the
// optional filter. Reporting reads go through the circuit breaker.
func (c *Client) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTransactions")
	defer span.End()

	var sb strings.Builder
	fmt.Fprintf(&sb, "transactions?user_id=eq.%s&order=date.desc", userID)

	if filter.From != nil {
		fmt.Fprintf(&sb, "&date=gte.%s", url.QueryEscape(filter.From.Format(time.RFC3339)))
	}
	if filter.To != nil {
		fmt.Fprintf(&sb, "&date=lte.%s", url.QueryEscape(filter.To.Format(time.RFC3339)))
	}
	if filter.Type != "" {
		fmt.Fprintf(&sb, "&type=eq.%s", url.QueryEscape(filter.Type))
	}
	if filter.Category != "" {
		fmt.Fprintf(&sb, "&category=eq.%s", url.QueryEscape(filter.Category))
	}
	if filter.Account != "" {
		fmt.Fprintf(&sb, "&account=eq.%s", url.QueryEscape(filter.Account))
	}
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		fmt.Fprintf(&sb, "&limit=%d&offset=%d", filter.PageSize, (page-1)*filter.PageSize)
	}

	body, err := c.doGuardedGet(ctx, sb.String())
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}

	if body == nil || string(body) == "[]" {
		return []domain.Transaction{}, nil
	}

	var rows []transactionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	txns := make([]domain.Transaction, 0, len(rows))
	for _, r := range rows {
		txns = append(txns, r.toDomain())
	}
	return txns, nil
}

func (c *Client) GetTransaction(ctx context.Context, userID, txID string) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetTransaction")
	defer span.End()

	path := fmt.Sprintf("transactions?user_id=eq.%s&id=eq.%s&limit=1", userID, txID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var rows []transactionRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: txID}
	}
	out := rows[0].toDomain()
	return &out, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, userID, txID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteTransaction")
	defer span.End()

	return c.doDelete(ctx, fmt.Sprintf("transactions?user_id=eq.%s&id=eq.%s", userID, txID))
}
