package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client connected to the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestValkeyCreateGetDestroy(t *testing.T) {
	store := NewValkey(testValkeyClient(t))
	ctx := context.Background()

	data := &Data{UserID: uuid.New(), Email: "test@session.local", Role: "reader"}
	token, err := store.Create(ctx, data)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(token) != idLength*2 {
		t.Errorf("token length = %d, want %d", len(token), idLength*2)
	}

	got, err := store.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.UserID != data.UserID {
		t.Fatalf("Get = %+v, want user %s", got, data.UserID)
	}

	if err := store.Destroy(ctx, token); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	got, err = store.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get after destroy: %v", err)
	}
	if got != nil {
		t.Error("expected nil session after destroy")
	}
}

func TestValkeyUnknownToken(t *testing.T) {
	store := NewValkey(testValkeyClient(t))

	got, err := store.Get(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("expected nil session for unknown token")
	}
}

func TestMemoryCreateGetDestroy(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	userID := uuid.New()
	token, err := store.Create(ctx, &Data{UserID: userID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, _ := store.Get(ctx, token)
	if got == nil || got.UserID != userID {
		t.Fatalf("Get = %+v, want user %s", got, userID)
	}

	_ = store.Destroy(ctx, token)
	if got, _ := store.Get(ctx, token); got != nil {
		t.Error("expected nil session after destroy")
	}
}

func TestMemorySweepsExpiredOnCreate(t *testing.T) {
	store := NewMemory()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for range 3 {
		if _, err := store.Create(ctx, &Data{UserID: uuid.New()}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	now = now.Add(DefaultTTL)
	fresh, err := store.Create(ctx, &Data{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(store.sessions) != 1 {
		t.Fatalf("sessions = %d, want 1 after sweep", len(store.sessions))
	}
	if _, ok := store.sessions[fresh]; !ok {
		t.Error("sweep removed the new session")
	}
}

func TestMemoryExpiry(t *testing.T) {
	store := NewMemory()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	token, err := store.Create(context.Background(), &Data{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	now = now.Add(DefaultTTL - time.Second)
	if got, _ := store.Get(context.Background(), token); got == nil {
		t.Fatal("session expired too early")
	}

	now = now.Add(2 * time.Second)
	if got, _ := store.Get(context.Background(), token); got != nil {
		t.Error("expected session to expire after TTL")
	}
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"none", "", "", ""},
		{"bearer", "Bearer abc123", "", "abc123"},
		{"cookie", "", "cookie-token", "cookie-token"},
		{"bearer wins", "Bearer hdr", "cookie-token", "hdr"},
		{"other scheme falls back", "Basic xyz", "cookie-token", "cookie-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if got := TokenFromRequest(r); got != tt.want {
				t.Errorf("TokenFromRequest = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetAndClearCookie(t *testing.T) {
	w := httptest.NewRecorder()
	SetCookie(w, "tok", DefaultTTL, true)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || c.Value != "tok" || !c.HttpOnly || !c.Secure {
		t.Errorf("unexpected cookie: %+v", c)
	}
	if c.MaxAge != int(DefaultTTL.Seconds()) {
		t.Errorf("MaxAge = %d, want %d", c.MaxAge, int(DefaultTTL.Seconds()))
	}

	w = httptest.NewRecorder()
	ClearCookie(w)
	if c := w.Result().Cookies()[0]; c.MaxAge >= 0 {
		t.Errorf("expected negative MaxAge, got %d", c.MaxAge)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	client, err := ConnectValkey(context.Background(), "127.0.0.1:1", "")
	if err == nil {
		client.Close()
		t.Fatal("expected an error for an unreachable address")
	}
	if client != nil {
		t.Error("client should be nil on error")
	}
}
