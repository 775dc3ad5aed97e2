package store

import (
	"context"
	"errors"
	"testing"
)

func TestUserCreateAndLookup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u, err := s.Users.Create(ctx, "Alice@Example.com", "hashed-pw")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("expected id to be assigned")
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email should be lowercased, got %q", u.Email)
	}

	got, err := s.Users.GetByEmail(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("lookup returned wrong user %d", got.ID)
	}

	byID, err := s.Users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != u.Email {
		t.Errorf("email = %q", byID.Email)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Users.Create(ctx, "a@b.com", "pw1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Users.Create(ctx, "a@b.com", "pw2"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserTouchLogin(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u, err := s.Users.Create(ctx, "a@b.com", "pw")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.LastLogin != nil {
		t.Error("fresh user should have no last_login")
	}

	if err := s.Users.TouchLogin(ctx, u.ID); err != nil {
		t.Fatalf("touch: %v", err)
	}
	got, err := s.Users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LastLogin == nil {
		t.Error("expected last_login to be set")
	}
}
