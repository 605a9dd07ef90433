package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shopit/storefront/internal/core/domain"
)

func newAccountFixture(t *testing.T) (*AccountService, *authFixture, *stubAvatarStore) {
	t.Helper()
	f := newAuthFixture(t)
	avatars := &stubAvatarStore{}
	return NewAccountService(f.repo, f.hasher, avatars, zerolog.Nop()), f, avatars
}

func TestAccountService_ChangePassword(t *testing.T) {
	svc, f, _ := newAccountFixture(t)
	id := f.register(t, "A", "a@x.com", "secret1")

	err := svc.ChangePassword(context.Background(), id, "wrong", "newpass1")
	var de *domain.Error
	if !errors.As(err, &de) || de.Message != domain.MsgOldPassword {
		t.Fatalf("expected old password error, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), id, "secret1", "newpass1"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if !svc.CheckPassword(f.repo.Account(id), "newpass1") {
		t.Fatalf("new password does not verify")
	}
}

func TestAccountService_UpdateProfile_DuplicateEmail(t *testing.T) {
	svc, f, _ := newAccountFixture(t)
	f.register(t, "A", "a@x.com", "secret1")
	id := f.register(t, "B", "b@x.com", "secret1")

	_, err := svc.UpdateProfile(context.Background(), id, domain.ProfileUpdate{Name: "B", Email: "a@x.com"})
	if domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	acct, err := svc.UpdateProfile(context.Background(), id, domain.ProfileUpdate{Name: " Bee ", Email: "bee@x.com"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if acct.Name != "Bee" || acct.Email != "bee@x.com" {
		t.Fatalf("unexpected account: %+v", acct)
	}
}

func TestAccountService_UpdateRole(t *testing.T) {
	svc, f, _ := newAccountFixture(t)
	id := f.register(t, "A", "a@x.com", "secret1")

	acct, err := svc.UpdateRole(context.Background(), id, domain.RoleAdmin)
	if err != nil || acct.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %+v %v", acct, err)
	}
	if _, err := svc.UpdateRole(context.Background(), id, domain.Role("root")); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}
	if _, err := svc.UpdateRole(context.Background(), "missing", domain.RoleUser); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAccountService_AdminUpdate(t *testing.T) {
	svc, f, _ := newAccountFixture(t)
	id := f.register(t, "A", "a@x.com", "secret1")

	acct, err := svc.AdminUpdate(context.Background(), id, domain.AdminUpdate{Name: "Admin A", Email: "a@x.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if acct.Name != "Admin A" || acct.Role != domain.RoleAdmin {
		t.Fatalf("unexpected account: %+v", acct)
	}
}

func TestAccountService_GetMissing(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	_, err := svc.Get(context.Background(), "nope")
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.KindNotFound || de.Message != "Account not found with id: nope" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAccountService_UploadAvatarReplacesOld(t *testing.T) {
	svc, f, avatars := newAccountFixture(t)
	id := f.register(t, "A", "a@x.com", "secret1")

	first, err := svc.UploadAvatar(context.Background(), id, "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	second, err := svc.UploadAvatar(context.Background(), id, "data:image/png;base64,BBBB")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if second.Avatar.PublicID == first.Avatar.PublicID {
		t.Fatalf("expected a new avatar object")
	}
	if len(avatars.deleted) != 1 || avatars.deleted[0] != first.Avatar.PublicID {
		t.Fatalf("expected old avatar deleted, got %v", avatars.deleted)
	}
}

func TestAccountService_DeleteRemovesAvatar(t *testing.T) {
	svc, f, avatars := newAccountFixture(t)
	id := f.register(t, "A", "a@x.com", "secret1")
	acct, err := svc.UploadAvatar(context.Background(), id, "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if f.repo.Account(id) != nil {
		t.Fatalf("account still stored")
	}
	if len(avatars.deleted) != 1 || avatars.deleted[0] != acct.Avatar.PublicID {
		t.Fatalf("expected avatar cleanup, got %v", avatars.deleted)
	}
	if err := svc.Delete(context.Background(), id); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestAccountService_ListIsInternalOnStorageFailure(t *testing.T) {
	svc, f, _ := newAccountFixture(t)
	f.repo.Fail(errStorage)
	if _, err := svc.List(context.Background()); domain.KindOf(err) != domain.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestAccountService_EnsureAdmin(t *testing.T) {
	svc, f, _ := newAccountFixture(t)
	ctx := context.Background()

	acct, created, err := svc.EnsureAdmin(ctx, "Administrator", "admin@shopit.com", "admin123")
	if err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}
	if !created || acct.Role != domain.RoleAdmin {
		t.Fatalf("expected a fresh admin, got created=%v %+v", created, acct)
	}
	if acct.PasswordHash != "" {
		t.Fatalf("hash leaked from EnsureAdmin")
	}
	if !svc.CheckPassword(f.repo.Account(acct.ID), "admin123") {
		t.Fatalf("admin password does not verify")
	}

	again, created, err := svc.EnsureAdmin(ctx, "Other", "admin@shopit.com", "different1")
	if err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if created || again.ID != acct.ID || again.Name != "Administrator" {
		t.Fatalf("existing admin should be returned untouched: created=%v %+v", created, again)
	}
	if !svc.CheckPassword(f.repo.Account(acct.ID), "admin123") {
		t.Fatalf("existing admin password changed")
	}
}

func TestAccountService_EnsureAdmin_ShortPassword(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	_, _, err := svc.EnsureAdmin(context.Background(), "Administrator", "admin@shopit.com", "123")
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAccountService_PromoteByEmail(t *testing.T) {
	svc, f, _ := newAccountFixture(t)
	f.register(t, "A", "a@x.com", "secret1")

	acct, err := svc.PromoteByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if acct.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %q", acct.Role)
	}

	_, err = svc.PromoteByEmail(context.Background(), "nobody@x.com")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAccountService_ChangePassword_Overlong(t *testing.T) {
	svc, f, _ := newAccountFixture(t)
	id := f.register(t, "A", "a@x.com", "secret1")

	err := svc.ChangePassword(context.Background(), id, "secret1", strings.Repeat("p", 73))
	var de *domain.Error
	if !errors.As(err, &de) || de.Message != domain.MsgPasswordTooLong {
		t.Fatalf("expected too-long validation error, got %v", err)
	}
}
