package handler

import (
	"fmt"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("hideable", func(fl validator.FieldLevel) bool {
		_, ok := domain.HideableFields[fl.Field().String()]
		return ok
	})
}
