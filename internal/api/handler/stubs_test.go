package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shopit/storefront/internal/core/domain"
	"github.com/shopit/storefront/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (*ports.Session, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.Session, error)
	forgotFn   func(ctx context.Context, email string) error
	resetFn    func(ctx context.Context, token, password string) (*ports.Session, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*ports.Session, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, password string) (*ports.Session, error) {
	return s.resetFn(ctx, token, password)
}

// stubAccountService implements ports.AccountService; unset funcs fail the test.
type stubAccountService struct {
	t          *testing.T
	profileFn  func(ctx context.Context, id string) (*domain.Account, error)
	updateFn   func(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Account, error)
	passwordFn func(ctx context.Context, id, old, new string) error
	avatarFn   func(ctx context.Context, id, dataURL string) (*domain.Account, error)
	listFn     func(ctx context.Context) ([]*domain.Account, error)
	getFn      func(ctx context.Context, id string) (*domain.Account, error)
	adminFn    func(ctx context.Context, id string, upd domain.AdminUpdate) (*domain.Account, error)
	roleFn     func(ctx context.Context, id string, role domain.Role) (*domain.Account, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (s *stubAccountService) unexpected(name string) {
	s.t.Helper()
	s.t.Fatalf("unexpected call to %s", name)
}

func (s *stubAccountService) Profile(ctx context.Context, id string) (*domain.Account, error) {
	if s.profileFn == nil {
		s.unexpected("Profile")
	}
	return s.profileFn(ctx, id)
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Account, error) {
	if s.updateFn == nil {
		s.unexpected("UpdateProfile")
	}
	return s.updateFn(ctx, id, upd)
}

func (s *stubAccountService) ChangePassword(ctx context.Context, id, old, new string) error {
	if s.passwordFn == nil {
		s.unexpected("ChangePassword")
	}
	return s.passwordFn(ctx, id, old, new)
}

func (s *stubAccountService) UploadAvatar(ctx context.Context, id, dataURL string) (*domain.Account, error) {
	if s.avatarFn == nil {
		s.unexpected("UploadAvatar")
	}
	return s.avatarFn(ctx, id, dataURL)
}

func (s *stubAccountService) List(ctx context.Context) ([]*domain.Account, error) {
	if s.listFn == nil {
		s.unexpected("List")
	}
	return s.listFn(ctx)
}

func (s *stubAccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	if s.getFn == nil {
		s.unexpected("Get")
	}
	return s.getFn(ctx, id)
}

func (s *stubAccountService) AdminUpdate(ctx context.Context, id string, upd domain.AdminUpdate) (*domain.Account, error) {
	if s.adminFn == nil {
		s.unexpected("AdminUpdate")
	}
	return s.adminFn(ctx, id, upd)
}

func (s *stubAccountService) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.Account, error) {
	if s.roleFn == nil {
		s.unexpected("UpdateRole")
	}
	return s.roleFn(ctx, id, role)
}

func (s *stubAccountService) Delete(ctx context.Context, id string) error {
	if s.deleteFn == nil {
		s.unexpected("Delete")
	}
	return s.deleteFn(ctx, id)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func wantKind(t *testing.T, err error, kind domain.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := domain.KindOf(err); got != kind {
		t.Fatalf("expected %s error, got %s (%v)", kind, got, err)
	}
}
