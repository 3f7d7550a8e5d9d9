package enum

import (
	"github.com/go-playground/validator/v10"
)

type Enum interface {
	ToString() string
	IsValid() bool
}

// ValidateEnum backs the "enum" validator tag. Empty values are left to
// "required".
func ValidateEnum(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(Enum)
	if !ok {
		return false
	}
	if value.ToString() == "" && fl.Field().String() == "" {
		return true
	}
	return value.IsValid()
}
