package types

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StringToBool is a query/form value that must parse as a boolean.
type StringToBool string

func (s StringToBool) ToBool() bool {
	value, _ := strconv.ParseBool(strings.ToLower(string(s)))
	return value
}

func ValidateStringToBool(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(StringToBool)
	if !ok {
		return false
	}
	if value == "" {
		return true
	}
	_, err := strconv.ParseBool(strings.ToLower(string(value)))
	return err == nil
}
