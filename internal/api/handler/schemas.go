package handler

import "github.com/shopit/storefront/internal/core/domain"

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// resetPasswordRequest takes the new password as newPassword, or as
// password when newPassword is empty.
type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r resetPasswordRequest) password() string {
	if r.NewPassword != "" {
		return r.NewPassword
	}
	return r.Password
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type updatePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	Password    string `json:"password"    validate:"required"`
}

type uploadAvatarRequest struct {
	Avatar string `json:"avatar"`
}

type adminUpdateRequest struct {
	Name  string `json:"name"  validate:"required,max=50"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"required,oneof=user admin"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// sessionResponse is returned by every call that signs the caller in.
type sessionResponse struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	User    *domain.Account `json:"user"`
}

type accountResponse struct {
	Success bool            `json:"success"`
	User    *domain.Account `json:"user"`
}

type accountListResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Users   []*domain.Account `json:"users"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorBody is the envelope of every failed request. Stack lists the error
// chain and is only filled outside production.
type ErrorBody struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Stack   []string `json:"stack,omitempty"`
}
