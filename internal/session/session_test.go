package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := fmt.Sprintf("file:session_test_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	s, err := OpenSQLStore(dsn)
	if err != nil {
		t.Fatalf("OpenSQLStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store { return openTestSQLStore(t) },
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			if _, err := s.Get(ctx, KeyPartnerSession); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get on empty store: err = %v, want ErrNotFound", err)
			}

			if err := s.Set(ctx, KeyPartnerSession, `{"email":"a@b.com"}`); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set(ctx, KeyPartnerSession, `{"email":"c@d.com"}`); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}

			got, err := s.Get(ctx, KeyPartnerSession)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != `{"email":"c@d.com"}` {
				t.Errorf("Get = %s, want overwritten value", got)
			}

			if err := s.Clear(ctx, KeyPartnerSession); err != nil {
				t.Fatalf("Clear: %v", err)
			}
			if _, err := s.Get(ctx, KeyPartnerSession); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Clear: err = %v, want ErrNotFound", err)
			}

			// Clearing a missing key is not an error.
			if err := s.Clear(ctx, "missing"); err != nil {
				t.Errorf("Clear missing: %v", err)
			}
		})
	}
}

func TestNewSQLStoreSharesHandle(t *testing.T) {
	ctx := context.Background()
	db, err := gorm.Open(sqlite.Open("file:session_shared?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	first, err := NewSQLStore(db)
	if err != nil {
		t.Fatalf("NewSQLStore: %v", err)
	}
	t.Cleanup(func() { first.Close() })
	if !db.Migrator().HasTable("session_entries") {
		t.Fatal("session_entries table was not created")
	}

	if err := first.Set(ctx, KeyUser, `{"email":"a@b.com"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A second store on the same handle migrates idempotently and sees the row.
	second, err := NewSQLStore(db)
	if err != nil {
		t.Fatalf("NewSQLStore again: %v", err)
	}
	got, err := second.Get(ctx, KeyUser)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `{"email":"a@b.com"}` {
		t.Errorf("Get = %s", got)
	}
}
