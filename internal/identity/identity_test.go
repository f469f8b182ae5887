package identity

import (
	"context"
	"errors"
	"testing"

	"partner-sync/internal/model"
	"partner-sync/internal/session"
)

// countingStore records every Get so tests can assert a source was skipped.
type countingStore struct {
	session.Store
	gets int
}

func (c *countingStore) Get(ctx context.Context, key string) (string, error) {
	c.gets++
	return c.Store.Get(ctx, key)
}

func storeWith(t *testing.T, key, value string) *countingStore {
	t.Helper()
	s := session.NewMemoryStore()
	if value != "" {
		if err := s.Set(context.Background(), key, value); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	return &countingStore{Store: s}
}

func TestResolveFallbackChain(t *testing.T) {
	tests := []struct {
		name       string
		current    *ContextUser
		sessionVal string
		localVal   string
		want       string
		wantErr    bool
	}{
		{
			name:    "context email",
			current: &ContextUser{Email: "ctx@y.com"},
			want:    "ctx@y.com",
		},
		{
			name:    "context basic details",
			current: &ContextUser{BasicDetails: BasicDetails{Email: "basic@y.com"}},
			want:    "basic@y.com",
		},
		{
			name:       "session blob",
			sessionVal: `{"email":"x@y.com"}`,
			localVal:   `{"email":"local@y.com"}`,
			want:       "x@y.com",
		},
		{
			name:       "session blob basic details",
			sessionVal: `{"basicDetails":{"email":"nested@y.com"}}`,
			want:       "nested@y.com",
		},
		{
			name:       "invalid session json falls through",
			sessionVal: `{not json`,
			localVal:   `{"email":"local@y.com"}`,
			want:       "local@y.com",
		},
		{
			name:       "session blob without email falls through",
			sessionVal: `{"token":"abc"}`,
			localVal:   `{"basicDetails":{"email":"local@y.com"}}`,
			want:       "local@y.com",
		},
		{
			name:    "nothing anywhere",
			current: &ContextUser{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(
				storeWith(t, session.KeyPartnerSession, tt.sessionVal),
				storeWith(t, session.KeyPartnerSession, tt.localVal),
				nil,
			)

			got, err := r.Resolve(context.Background(), tt.current)
			if tt.wantErr {
				if !errors.Is(err, model.ErrIdentityNotFound) {
					t.Fatalf("err = %v, want ErrIdentityNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveDoesNotConsultLocalWhenSessionHits(t *testing.T) {
	sessionStore := storeWith(t, session.KeyPartnerSession, `{"email":"x@y.com"}`)
	local := storeWith(t, session.KeyPartnerSession, `{"email":"other@y.com"}`)
	r := NewResolver(sessionStore, local, nil)

	got, err := r.Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "x@y.com" {
		t.Errorf("Resolve = %q, want x@y.com", got)
	}
	if local.gets != 0 {
		t.Errorf("long-lived store consulted %d times, want 0", local.gets)
	}
}

func TestResolveUserKeyFallback(t *testing.T) {
	sessionStore := storeWith(t, session.KeyUser, `{"email":"user@y.com"}`)
	r := NewResolver(sessionStore, nil, nil)

	got, err := r.Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "user@y.com" {
		t.Errorf("Resolve = %q, want user@y.com", got)
	}
}

func TestRememberAndForget(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()

	if err := Remember(ctx, store, "p@y.com", map[string]any{"category": "laundry"}); err != nil {
		t.Fatalf("Remember: %v", err)
	}

	r := NewResolver(nil, store, nil)
	got, err := r.Resolve(ctx, nil)
	if err != nil || got != "p@y.com" {
		t.Fatalf("Resolve after Remember = %q, %v", got, err)
	}

	if err := Forget(ctx, store); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if _, err := r.Resolve(ctx, nil); !errors.Is(err, model.ErrIdentityNotFound) {
		t.Errorf("Resolve after Forget err = %v, want ErrIdentityNotFound", err)
	}
}
