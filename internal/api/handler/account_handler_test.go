package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopit/storefront/internal/core/domain"
)

var ada = &domain.Account{ID: "acct-1", Name: "Ada", Email: "ada@shop.test", Role: domain.RoleUser}

func TestAccountHandler_Me(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{t: t, profileFn: func(ctx context.Context, id string) (*domain.Account, error) {
		if id != "acct-1" {
			t.Fatalf("unexpected id %s", id)
		}
		return ada, nil
	}}
	h := NewAccountHandler(stub)

	c, rec := jsonRequest(e, http.MethodGet, "/api/v1/me", "")
	SetAccount(c, ada)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp accountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.User.Email != "ada@shop.test" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAccountHandler_MeWithoutAccount(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{t: t})

	c, _ := jsonRequest(e, http.MethodGet, "/api/v1/me", "")
	wantKind(t, h.Me(c), domain.KindAuthentication)
}

func TestAccountHandler_UpdateProfile(t *testing.T) {
	e := newTestEcho()
	var got domain.ProfileUpdate
	stub := &stubAccountService{t: t, updateFn: func(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Account, error) {
		got = upd
		return &domain.Account{ID: id, Name: upd.Name, Email: upd.Email}, nil
	}}
	h := NewAccountHandler(stub)

	c, rec := jsonRequest(e, http.MethodPut, "/api/v1/me/update", `{"name":"Ada L","email":"ada@new.test"}`)
	SetAccount(c, ada)
	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Name != "Ada L" || got.Email != "ada@new.test" || rec.Code != http.StatusOK {
		t.Fatalf("unexpected update %+v (status %d)", got, rec.Code)
	}
}

func TestAccountHandler_UpdatePassword_RequiresFields(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{t: t})

	c, _ := jsonRequest(e, http.MethodPut, "/api/v1/password/update", `{"password":"newpass1"}`)
	SetAccount(c, ada)

	err := h.UpdatePassword(c)
	wantKind(t, err, domain.KindValidation)
	var de *domain.Error
	if !asDomain(err, &de) || de.Message != "oldPassword is required" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestAccountHandler_UpdatePassword(t *testing.T) {
	e := newTestEcho()
	called := false
	stub := &stubAccountService{t: t, passwordFn: func(ctx context.Context, id, old, new string) error {
		called = id == "acct-1" && old == "secret1" && new == "newpass1"
		return nil
	}}
	h := NewAccountHandler(stub)

	c, rec := jsonRequest(e, http.MethodPut, "/api/v1/password/update", `{"oldPassword":"secret1","password":"newpass1"}`)
	SetAccount(c, ada)
	if err := h.UpdatePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected ChangePassword with request values, status %d", rec.Code)
	}
}

func TestAccountHandler_UploadAvatar(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{t: t, avatarFn: func(ctx context.Context, id, dataURL string) (*domain.Account, error) {
		if dataURL != "data:image/png;base64,AAAA" {
			t.Fatalf("unexpected data url %q", dataURL)
		}
		return &domain.Account{ID: id, Avatar: &domain.Avatar{PublicID: "avatars/x.jpg", URL: "https://cdn/x.jpg"}}, nil
	}}
	h := NewAccountHandler(stub)

	c, rec := jsonRequest(e, http.MethodPut, "/api/v1/me/upload_avatar", `{"avatar":"data:image/png;base64,AAAA"}`)
	SetAccount(c, ada)
	if err := h.UploadAvatar(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp accountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.User.Avatar == nil || resp.User.Avatar.URL != "https://cdn/x.jpg" {
		t.Fatalf("unexpected avatar in %+v", resp.User)
	}
}
