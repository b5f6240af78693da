package user

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/codefix-arena/backend/internal/db"
	"github.com/codefix-arena/backend/internal/rbac"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sdb, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = sdb.Close() })
	return NewStore(sdb)
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t)

	u, err := store.Create(context.Background(), User{
		Email:        "ana@test.dev",
		Username:     "ana",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" || u.Role != rbac.RoleStudent || u.CreatedAt == 0 {
		t.Fatalf("created = %+v", u)
	}

	byEmail, err := store.GetByEmail(context.Background(), "ana@test.dev")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != u.ID || byEmail.PasswordHash != "hash" {
		t.Fatalf("byEmail = %+v", byEmail)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	base := User{Email: "ana@test.dev", Username: "ana", PasswordHash: "h"}
	if _, err := store.Create(context.Background(), base); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := base
	dup.Username = "ana2"
	if _, err := store.Create(context.Background(), dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate email err = %v, want ErrDuplicate", err)
	}

	dup = base
	dup.Email = "ana2@test.dev"
	if _, err := store.Create(context.Background(), dup); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate username err = %v, want ErrDuplicate", err)
	}
}

func TestUpdateUser(t *testing.T) {
	store := newTestStore(t)
	u, err := store.Create(context.Background(), User{Email: "a@test.dev", Username: "a", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := store.Update(context.Background(), User{
		ID:       u.ID,
		Email:    "a@test.dev",
		Username: "a-renamed",
		Role:     rbac.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Username != "a-renamed" || updated.Role != rbac.RoleAdmin {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := store.Update(context.Background(), User{ID: "missing", Email: "x@test.dev", Username: "x", Role: rbac.RoleStudent}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing update err = %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	store := newTestStore(t)
	u, err := store.Create(context.Background(), User{Email: "a@test.dev", Username: "a", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Delete(context.Background(), u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(context.Background(), u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete err = %v", err)
	}
	if err := store.Delete(context.Background(), u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete err = %v", err)
	}
}
