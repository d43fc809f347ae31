package service

import (
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/journalcrypt/internal/crypto/domain"
	"github.com/allisson/journalcrypt/internal/errors"
	customValidation "github.com/allisson/journalcrypt/internal/validation"
)

// PasswordValidatorService implements PasswordValidator with the strength rule
// from internal/validation.
type PasswordValidatorService struct {
	rule customValidation.PasswordStrength
}

// NewPasswordValidator creates a PasswordValidatorService.
func NewPasswordValidator(minLength, minCharClasses int) *PasswordValidatorService {
	return &PasswordValidatorService{
		rule: customValidation.PasswordStrength{
			MinLength:      minLength,
			MinCharClasses: minCharClasses,
		},
	}
}

// Validate returns ErrPasswordTooWeak, carrying the failed rule, for weak passwords.
func (v *PasswordValidatorService) Validate(password string) error {
	if err := validation.Validate(password, validation.Required, v.rule); err != nil {
		return errors.Wrap(cryptoDomain.ErrPasswordTooWeak, err.Error())
	}
	return nil
}
