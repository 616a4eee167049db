package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mana-finance/mana-backend-go/internal/domain"
	"github.com/mana-finance/mana-backend-go/internal/service"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// mockAuthStore is an in-memory port.AuthStore.
type mockAuthStore struct {
	users       map[string]*domain.User // by id
	credentials map[string]*domain.AuthCredential
	tokens      map[string]*domain.AuthRefreshToken // by hash
}

func newMockAuthStore() *mockAuthStore {
	return &mockAuthStore{
		users:       map[string]*domain.User{},
		credentials: map[string]*domain.AuthCredential{},
		tokens:      map[string]*domain.AuthRefreshToken{},
	}
}

func (m *mockAuthStore) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
}

func (m *mockAuthStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "user", ID: email}
}

func (m *mockAuthStore) CreateUser(_ context.Context, req *domain.RegisterRequest, passwordHash string) (*domain.User, error) {
	user := &domain.User{
		ID:    fmt.Sprintf("user-%d", len(m.users)+1),
		Name:  req.Name,
		Email: req.Email,
	}
	m.users[user.ID] = user
	m.credentials[user.ID] = &domain.AuthCredential{UserID: user.ID, PasswordHash: passwordHash}
	return user, nil
}

func (m *mockAuthStore) GetCredentials(_ context.Context, userID string) (*domain.AuthCredential, error) {
	if c, ok := m.credentials[userID]; ok {
		return c, nil
	}
	return nil, &domain.ErrNotFound{Resource: "credentials", ID: userID}
}

func (m *mockAuthStore) UpdateCredentials(_ context.Context, userID string, updates map[string]any) error {
	cred, ok := m.credentials[userID]
	if !ok {
		return &domain.ErrNotFound{Resource: "credentials", ID: userID}
	}
	if v, ok := updates["failed_attempts"].(int); ok {
		cred.FailedAttempts = v
	}
	if v, ok := updates["locked_until"].(string); ok {
		t, _ := time.Parse(time.RFC3339, v)
		cred.LockedUntil = &t
	}
	if v, ok := updates["locked_until"]; ok && v == nil {
		cred.LockedUntil = nil
	}
	return nil
}

func (m *mockAuthStore) StoreRefreshToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	m.tokens[tokenHash] = &domain.AuthRefreshToken{
		ID:        fmt.Sprintf("rt-%d", len(m.tokens)+1),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}
	return nil
}

func (m *mockAuthStore) GetRefreshToken(_ context.Context, tokenHash string) (*domain.AuthRefreshToken, error) {
	if t, ok := m.tokens[tokenHash]; ok {
		return t, nil
	}
	return nil, &domain.ErrNotFound{Resource: "refresh_token", ID: tokenHash}
}

func (m *mockAuthStore) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	if t, ok := m.tokens[tokenHash]; ok {
		t.Revoked = true
	}
	return nil
}

func (m *mockAuthStore) RevokeAllRefreshTokens(_ context.Context, userID string) error {
	for _, t := range m.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func newAuthService(store *mockAuthStore) *service.AuthService {
	return service.NewAuthService(store, "test-secret", 15*time.Minute, 7*24*time.Hour, zap.NewNop())
}

// --- Tests ---

func TestRegisterAndLogin(t *testing.T) {
	store := newMockAuthStore()
	svc := newAuthService(store)
	ctx := context.Background()

	user, err := svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Ana",
		Email:    "Ana@Example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register: expected no error, got %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}

	resp, err := svc.Login(ctx, &domain.LoginRequest{Email: "ana@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: expected no error, got %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if resp.UserID != user.ID {
		t.Errorf("user id = %q, want %q", resp.UserID, user.ID)
	}

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("validate: expected no error, got %v", err)
	}
	if claims.Sub != user.ID {
		t.Errorf("claims.Sub = %q, want %q", claims.Sub, user.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService(newMockAuthStore())
	ctx := context.Background()

	req := &domain.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "correct-horse"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err := svc.Register(ctx, &domain.RegisterRequest{Name: "Outra", Email: "ana@example.com", Password: "other-password"})
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLogin_LockoutAfterFailedAttempts(t *testing.T) {
	store := newMockAuthStore()
	svc := newAuthService(store)
	ctx := context.Background()

	user, _ := svc.Register(ctx, &domain.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "correct-horse"})

	for i := 0; i < 5; i++ {
		_, err := svc.Login(ctx, &domain.LoginRequest{Email: "ana@example.com", Password: "wrong"})
		var unauthorized *domain.ErrUnauthorized
		if !errors.As(err, &unauthorized) {
			t.Fatalf("attempt %d: expected ErrUnauthorized, got %v", i+1, err)
		}
	}

	cred := store.credentials[user.ID]
	if cred.LockedUntil == nil {
		t.Fatal("expected account to be locked after 5 failed attempts")
	}

	// Even the right password is rejected while locked.
	_, err := svc.Login(ctx, &domain.LoginRequest{Email: "ana@example.com", Password: "correct-horse"})
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized while locked, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	store := newMockAuthStore()
	svc := newAuthService(store)
	ctx := context.Background()

	svc.Register(ctx, &domain.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "correct-horse"})
	login, err := svc.Login(ctx, &domain.LoginRequest{Email: "ana@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: expected no error, got %v", err)
	}

	refreshed, err := svc.Refresh(ctx, &domain.RefreshRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: expected no error, got %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("refresh must rotate the token")
	}

	// The old token is dead; replaying it revokes the whole family.
	_, err = svc.Refresh(ctx, &domain.RefreshRequest{RefreshToken: login.RefreshToken})
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized for replayed token, got %v", err)
	}
	_, err = svc.Refresh(ctx, &domain.RefreshRequest{RefreshToken: refreshed.RefreshToken})
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected the replay to revoke the new token too, got %v", err)
	}
}

func TestLogin_WrongPasswordDoesNotLeakState(t *testing.T) {
	svc := newAuthService(newMockAuthStore())
	ctx := context.Background()

	_, errGhost := svc.Login(ctx, &domain.LoginRequest{Email: "ghost@example.com", Password: "x"})

	svc.Register(ctx, &domain.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "correct-horse"})
	_, errWrong := svc.Login(ctx, &domain.LoginRequest{Email: "ana@example.com", Password: "wrong"})

	if errGhost.Error() != errWrong.Error() {
		t.Errorf("unknown user and wrong password must answer identically: %q vs %q", errGhost, errWrong)
	}
}

func TestPasswordHashing_UsesBcrypt(t *testing.T) {
	store := newMockAuthStore()
	svc := newAuthService(store)

	user, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	hash := store.credentials[user.ID].PasswordHash
	if hash == "correct-horse" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("correct-horse")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}
