package validation

import (
	"context"

	"github.com/go-playground/validator/v10"

	"stayhub/internal/app/middleware"
)

// Validator runs struct-tag validation over command and query messages before
// they reach a handler.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(ctx context.Context, message any) error {
	err := v.validate.StructCtx(ctx, message)
	if err == nil {
		return nil
	}
	if _, ok := err.(*validator.InvalidValidationError); ok {
		// Non-struct messages carry no tags to check.
		return nil
	}
	return err
}

var _ middleware.Validator = (*Validator)(nil)
