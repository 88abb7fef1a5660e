package service

import (
	"context"
	"errors"
	"logic_exercises/internal/common"
	"logic_exercises/internal/domain/model"
	"testing"
)

func TestSetAdminByName(t *testing.T) {
	users := newFakeUserRepo(
		model.User{IdentityKey: 1, Name: "alice"},
		model.User{IdentityKey: 2, Name: "bob"},
	)
	svc := NewUserService(users)
	ctx := context.Background()

	n, err := svc.SetAdminByName(ctx, " alice ", true)
	if err != nil || n != 1 {
		t.Fatalf("SetAdminByName = (%d, %v), want (1, nil)", n, err)
	}
	if !users.users[1].IsAdmin || users.users[2].IsAdmin {
		t.Fatalf("admin flags = %v/%v, want true/false", users.users[1].IsAdmin, users.users[2].IsAdmin)
	}

	if _, err := svc.SetAdminByName(ctx, "alice", false); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if users.users[1].IsAdmin {
		t.Fatal("admin flag not revoked")
	}

	if _, err := svc.SetAdminByName(ctx, "carol", true); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("unknown name err = %v, want ErrNotFound", err)
	}
	if _, err := svc.SetAdminByName(ctx, "", true); !errors.Is(err, common.ErrValidation) {
		t.Errorf("empty name err = %v, want ErrValidation", err)
	}
}
