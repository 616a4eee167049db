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
// Wallets — CRUD via PostgREST
// ============================================================

type walletRow struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Name      string  `json:"name"`
	Balance   float64 `json:"balance"`
	Color     string  `json:"color"`
	Archived  bool    `json:"archived"`
	CreatedAt string  `json:"created_at"`
}

func (r walletRow) toDomain() domain.Wallet {
	return domain.Wallet{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		Balance:   r.Balance,
		Color:     r.Color,
		Archived:  r.Archived,
		CreatedAt: parseDate(r.CreatedAt),
	}
}

func (c *Client) CreateWallet(ctx context.Context, userID string, req *domain.WalletRequest) (*domain.Wallet, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateWallet")
	defer span.End()

	row := map[string]any{
		"user_id":  userID,
		"name":     req.Name,
		"balance":  req.Balance,
		"color":    req.Color,
		"archived": false,
	}

	body, err := c.doPost(ctx, "wallets", row)
	if err != nil {
		return nil, err
	}

	var rows []walletRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode wallet: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no result from wallets insert")
	}
	wallet := rows[0].toDomain()
	return &wallet, nil
}

func (c *Client) ListWallets(ctx context.Context, userID string) ([]domain.Wallet, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListWallets")
	defer span.End()

	path := fmt.Sprintf("wallets?user_id=eq.%s&archived=eq.false&order=created_at.desc", userID)
	body, err := c.doGuardedGet(ctx, path)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/wallets", Err: err}
	}

	var rows []walletRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode wallets: %w", err)
	}
	wallets := make([]domain.Wallet, 0, len(rows))
	for _, r := range rows {
		wallets = append(wallets, r.toDomain())
	}
	return wallets, nil
}

func (c *Client) GetWallet(ctx context.Context, userID, walletID string) (*domain.Wallet, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetWallet")
	defer span.End()

	path := fmt.Sprintf("wallets?user_id=eq.%s&id=eq.%s&limit=1", userID, walletID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var rows []walletRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode wallet: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "wallet", ID: walletID}
	}
	wallet := rows[0].toDomain()
	return &wallet, nil
}

// UpdateWalletBalance applies a signed delta to the wallet balance and
// returns the updated wallet.
func (c *Client) UpdateWalletBalance(ctx context.Context, walletID string, delta float64) (*domain.Wallet, error) {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateWalletBalance")
	defer span.End()

	// Read current balance, then patch. PostgREST has no atomic increment
	// without an RPC; acceptable for a single-writer personal finance app.
	path := fmt.Sprintf("wallets?id=eq.%s&limit=1", walletID)
	body, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var rows []walletRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode wallet: %w", err)
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "wallet", ID: walletID}
	}

	newBalance := rows[0].Balance + delta
	patch := map[string]any{"balance": newBalance, "updated_at": time.Now().Format(time.RFC3339)}
	if err := c.doPatch(ctx, fmt.Sprintf("wallets?id=eq.%s", walletID), patch); err != nil {
		return nil, err
	}

	wallet := rows[0].toDomain()
	wallet.Balance = newBalance
	return &wallet, nil
}

func (c *Client) ArchiveWallet(ctx context.Context, userID, walletID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.ArchiveWallet")
	defer span.End()

	patch := map[string]any{"archived": true, "updated_at": time.Now().Format(time.RFC3339)}
	return c.doPatch(ctx, fmt.Sprintf("wallets?user_id=eq.%s&id=eq.%s", userID, walletID), patch)
}
