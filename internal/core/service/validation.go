package service

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/shopit/storefront/internal/core/domain"
)

const passwordMinLength = 6

// passwordMaxBytes is the longest input bcrypt accepts.
const passwordMaxBytes = 72

var validate = validator.New()

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Validation("Please enter your name")
	}
	if utf8.RuneCountInString(name) > domain.NameMaxLength {
		return domain.Validation("Your name cannot exceed 50 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return domain.Validation("Please enter your email")
	}
	if validate.Var(email, "email") != nil {
		return domain.Validation("Please enter valid email address")
	}
	return nil
}

func validatePassword(pw string) error {
	if pw == "" {
		return domain.Validation(domain.MsgPasswordRequired)
	}
	if utf8.RuneCountInString(pw) < passwordMinLength {
		return domain.Validation("Your password must be longer than 6 characters")
	}
	if len(pw) > passwordMaxBytes {
		return domain.Validation(domain.MsgPasswordTooLong)
	}
	return nil
}
