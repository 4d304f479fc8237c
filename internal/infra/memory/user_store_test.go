package memory

import (
	"context"
	"errors"
	"testing"

	"school-quiz-bot/internal/domain"
)

func TestUserStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	if err := store.UpsertUser(ctx, domain.User{TelegramID: 1, FullName: "Aziza", Class: "9A"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	user, err := store.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.FullName != "Aziza" || user.Class != "9A" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := store.GetUser(ctx, 2); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpsertKeepsExistingRegistration(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	_ = store.UpsertUser(ctx, domain.User{TelegramID: 1, FullName: "Aziza", Class: "9A"})
	_ = store.UpsertUser(ctx, domain.User{TelegramID: 1, FullName: "Someone Else", Class: "7B"})

	user, _ := store.GetUser(ctx, 1)
	if user.FullName != "Aziza" {
		t.Fatalf("re-registration must not overwrite, got %+v", user)
	}
}

func TestCommitResult(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	if err := store.CommitResult(ctx, 1, 9); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unregistered user, got %v", err)
	}

	_ = store.UpsertUser(ctx, domain.User{TelegramID: 1, FullName: "Aziza"})
	if err := store.CommitResult(ctx, 1, 9); err != nil {
		t.Fatalf("commit: %v", err)
	}
	user, _ := store.GetUser(ctx, 1)
	if user.Score != 9 {
		t.Fatalf("expected score 9, got %d", user.Score)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	_ = store.UpsertUser(ctx, domain.User{TelegramID: 1, FullName: "Aziza"})
	store.SetCredentials(1, "aziza", "secret")

	user, err := store.Login(ctx, "aziza", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.TelegramID != 1 {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := store.Login(ctx, "aziza", "wrong"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for bad password, got %v", err)
	}
}

func TestListTelegramIDs(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	_ = store.UpsertUser(ctx, domain.User{TelegramID: 1})
	_ = store.UpsertUser(ctx, domain.User{TelegramID: 2})

	ids, err := store.ListTelegramIDs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}
}
