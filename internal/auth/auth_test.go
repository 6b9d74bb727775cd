// AngelaMos | 2026
// auth_test.go

package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/carterperez-dev/epic-events/internal/audit"
	"github.com/carterperez-dev/epic-events/internal/config"
	"github.com/carterperez-dev/epic-events/internal/core"
	"github.com/carterperez-dev/epic-events/internal/department"
)

func newTestJWT(t *testing.T, expire time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	priv := filepath.Join(dir, "keys", "private.pem")
	pub := filepath.Join(dir, "keys", "public.pem")

	if err := GenerateKeyPair(priv, pub); err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	m, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath: priv,
		PublicKeyPath:  pub,
		SessionExpire:  expire,
		Issuer:         "epic-events",
		Audience:       "epic-events-cli",
	})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

type mockUserProvider struct {
	getByUsernameFn  func(ctx context.Context, username string) (*UserInfo, error)
	updatedPasswords map[int64]string
}

func (m *mockUserProvider) GetByUsername(
	ctx context.Context,
	username string,
) (*UserInfo, error) {
	return m.getByUsernameFn(ctx, username)
}

func (m *mockUserProvider) UpdatePassword(
	_ context.Context,
	userID int64,
	passwordHash string,
) error {
	if m.updatedPasswords == nil {
		m.updatedPasswords = map[int64]string{}
	}
	m.updatedPasswords[userID] = passwordHash
	return nil
}

type memoryRevocationList struct {
	revoked map[string]time.Time
}

func (m *memoryRevocationList) Revoke(
	_ context.Context,
	jti string,
	expiresAt time.Time,
) error {
	m.revoked[jti] = expiresAt
	return nil
}

func (m *memoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return false, 30 * time.Second, nil
}

func providerFor(t *testing.T, password string, dept department.Department) *mockUserProvider {
	t.Helper()

	hash, err := core.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	return &mockUserProvider{
		getByUsernameFn: func(_ context.Context, username string) (*UserInfo, error) {
			if username != "alice" {
				return nil, core.ErrNotFound
			}
			return &UserInfo{
				ID:           7,
				Username:     "alice",
				PasswordHash: hash,
				Department:   dept,
			}, nil
		},
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := newTestJWT(t, time.Hour)

	token, issued, err := m.CreateSessionToken(&UserInfo{
		ID:         42,
		Username:   "bob",
		Department: department.Commercial,
	})
	if err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}

	got, err := m.VerifySessionToken(token)
	if err != nil {
		t.Fatalf("VerifySessionToken: %v", err)
	}

	if got.UserID != 42 || got.Username != "bob" {
		t.Errorf("identity = (%d, %q), want (42, bob)", got.UserID, got.Username)
	}
	if got.Department != department.Commercial {
		t.Errorf("department = %v, want Commercial", got.Department)
	}
	if got.TokenID != issued.TokenID {
		t.Errorf("jti = %q, want %q", got.TokenID, issued.TokenID)
	}
	if got.IsExpired() {
		t.Error("fresh session reported as expired")
	}
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	m := newTestJWT(t, time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.CreateSessionToken(&UserInfo{ID: 1, Username: "x", Department: department.Support})
	if err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}

	_, err = m.VerifySessionToken(token)
	if !errors.Is(err, core.ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestJWTManager_RejectsForeignKey(t *testing.T) {
	issuer := newTestJWT(t, time.Hour)
	verifier := newTestJWT(t, time.Hour)

	token, _, err := issuer.CreateSessionToken(&UserInfo{ID: 1, Username: "x", Department: department.Gestion})
	if err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}

	if _, err := verifier.VerifySessionToken(token); !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epic", "token")
	store := NewTokenStore(path)

	token, err := store.Load()
	if err != nil || token != "" {
		t.Fatalf("Load on missing file = (%q, %v), want empty", token, err)
	}

	if err := store.Save("abc.def.ghi"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}

	if token, _ := store.Load(); token != "abc.def.ghi" {
		t.Errorf("Load = %q", token)
	}

	existed, err := store.Remove()
	if err != nil || !existed {
		t.Fatalf("Remove = (%v, %v), want (true, nil)", existed, err)
	}

	existed, err = store.Remove()
	if err != nil || existed {
		t.Fatalf("second Remove = (%v, %v), want (false, nil)", existed, err)
	}
}

func TestService_LoginAndCurrent(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	svc := NewService(newTestJWT(t, time.Hour), store, providerFor(t, "s3cret!", department.Gestion), nil, nil, nil, nil)

	if _, ok := svc.Current(ctx); ok {
		t.Fatal("Current before login returned a session")
	}

	session, err := svc.Login(ctx, "alice", "s3cret!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Department != department.Gestion {
		t.Errorf("department = %v, want Gestion", session.Department)
	}

	current, ok := svc.Current(ctx)
	if !ok {
		t.Fatal("Current after login returned no session")
	}
	if current.UserID != 7 || current.Username != "alice" {
		t.Errorf("current = %+v", current)
	}
}

func TestService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	svc := NewService(newTestJWT(t, time.Hour), store, providerFor(t, "s3cret!", department.Support), nil, nil, nil, nil)

	_, err := svc.Login(ctx, "nobody", "whatever")
	if core.KindOf(err) != core.KindNotFound {
		t.Errorf("unknown user kind = %q, want not_found", core.KindOf(err))
	}

	_, err = svc.Login(ctx, "alice", "wrong")
	if !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want invalid credentials", err)
	}

	if token, _ := store.Load(); token != "" {
		t.Error("failed login wrote a token file")
	}
}

func TestService_LoginStoreFailureIsAudited(t *testing.T) {
	ctx := context.Background()
	rec := &audit.Memory{}
	broken := &mockUserProvider{
		getByUsernameFn: func(context.Context, string) (*UserInfo, error) {
			return nil, errors.New("connection reset by peer")
		},
	}
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	svc := NewService(newTestJWT(t, time.Hour), store, broken, nil, nil, rec, nil)

	_, err := svc.Login(ctx, "alice", "s3cret!")
	if core.KindOf(err) != core.KindStoreFailure {
		t.Fatalf("kind = %q, want store_failure", core.KindOf(err))
	}
	if len(rec.Exceptions) != 1 {
		t.Errorf("exceptions = %d, want 1", len(rec.Exceptions))
	}
	if token, _ := store.Load(); token != "" {
		t.Error("failed login wrote a token file")
	}
}

func TestService_TokenSaveFailureIsAudited(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	rec := &audit.Memory{}
	store := NewTokenStore(filepath.Join(blocker, "token"))
	svc := NewService(newTestJWT(t, time.Hour), store, providerFor(t, "pw", department.Support), nil, nil, rec, nil)

	_, err := svc.Login(context.Background(), "alice", "pw")
	if !errors.Is(err, core.ErrStoreFailure) {
		t.Fatalf("err = %v, want store failure", err)
	}
	if len(rec.Exceptions) != 1 {
		t.Errorf("exceptions = %d, want 1", len(rec.Exceptions))
	}
}

func TestService_LoginRateLimited(t *testing.T) {
	svc := NewService(
		newTestJWT(t, time.Hour),
		NewTokenStore(filepath.Join(t.TempDir(), "token")),
		providerFor(t, "s3cret!", department.Support),
		nil,
		denyLimiter{},
		nil,
		nil,
	)

	_, err := svc.Login(context.Background(), "alice", "s3cret!")
	if !errors.Is(err, core.ErrRateLimited) {
		t.Fatalf("err = %v, want rate limited", err)
	}
}

func TestService_CurrentRejectsGarbageAndExpired(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	jwtm := newTestJWT(t, time.Minute)
	svc := NewService(jwtm, store, providerFor(t, "pw", department.Support), nil, nil, nil, nil)

	if err := store.Save("not-a-token"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := svc.Current(ctx); ok {
		t.Error("malformed token produced a session")
	}

	jwtm.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _, err := jwtm.CreateSessionToken(&UserInfo{ID: 7, Username: "alice", Department: department.Support})
	if err != nil {
		t.Fatalf("CreateSessionToken: %v", err)
	}
	if err := store.Save(token); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := svc.Current(ctx); ok {
		t.Error("expired token produced a session")
	}
}

func TestService_LogoutIsIdempotentAndRevokes(t *testing.T) {
	ctx := context.Background()
	revoked := &memoryRevocationList{revoked: map[string]time.Time{}}
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	jwtm := newTestJWT(t, time.Hour)
	svc := NewService(jwtm, store, providerFor(t, "pw", department.Commercial), revoked, nil, nil, nil)

	existed, err := svc.Logout(ctx)
	if err != nil || existed {
		t.Fatalf("Logout without session = (%v, %v), want (false, nil)", existed, err)
	}

	session, err := svc.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	token, _ := store.Load()

	existed, err = svc.Logout(ctx)
	if err != nil || !existed {
		t.Fatalf("Logout = (%v, %v), want (true, nil)", existed, err)
	}
	if _, ok := revoked.revoked[session.TokenID]; !ok {
		t.Error("logout did not revoke the token id")
	}

	if err := store.Save(token); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok := svc.Current(ctx); ok {
		t.Error("revoked token still produced a session")
	}
}
