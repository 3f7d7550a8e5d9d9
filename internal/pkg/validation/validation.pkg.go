package validation

import (
	"errors"
	"fmt"
	"lostfound/internal/common/enum"
	types "lostfound/internal/common/type"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"

	"github.com/go-playground/validator/v10"
)

const MinPasswordLength = 8

// ErrValidation wraps every struct validation failure.
var ErrValidation = errors.New("Validation failed")

var (
	val      *validator.Validate
	setupErr error
	once     sync.Once

	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	campusIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
)

// Field-level messages shown next to inputs.
const (
	MsgRequired = "This field is required"
	MsgEmail    = "Please enter a valid email address"
	MsgCampusID = "Campus ID should contain only letters and numbers"
	MsgPhone    = "Please enter a valid phone number"
	MsgPassword = "Password must be at least 8 characters long"
)

var validationMessages = map[string]string{
	"required":     "is required",
	"email":        "must be a valid email address",
	"emailaddr":    "must be a valid email address",
	"campusid":     "must contain only letters and numbers",
	"phone":        "must be a valid phone number",
	"password":     "must be at least 8 characters long",
	"oneof":        "must be one of the allowed values: %s",
	"min":          "must be greater than or equal to %s",
	"max":          "must be less than or equal to %s",
	"len":          "must have the exact length of %s",
	"numeric":      "must contain only digits",
	"eqfield":      "must be equal to the value of the %s field",
	"enum":         "must be one of the allowed enum values: %s",
	"stringToBool": "must be a boolean value",
}

// Setup registers the custom tags on the package validator and on gin's
// binding engine. It is safe to call more than once.
func Setup() error {
	once.Do(func() {
		val = validator.New(validator.WithRequiredStructEnabled())

		if err := RegisterValidations(val); err != nil {
			setupErr = fmt.Errorf("failed to register custom validations: %w", err)
			return
		}

		val.RegisterTagNameFunc(jsonTagName)

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			setupErr = errors.New("failed to get validation engine")
			return
		}
		if err := RegisterValidations(v); err != nil {
			setupErr = fmt.Errorf("failed to register custom validations in Gin engine: %w", err)
			return
		}
		v.RegisterTagNameFunc(jsonTagName)
	})
	return setupErr
}

func jsonTagName(fld reflect.StructField) string {
	tag := fld.Tag.Get("json")
	if tag == "" {
		tag = fld.Tag.Get("form")
	}
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func RegisterValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"enum":         enum.ValidateEnum,
		"stringToBool": types.ValidateStringToBool,
		"emailaddr":    stringRule(IsEmail),
		"campusid":     stringRule(IsCampusID),
		"phone":        stringRule(IsPhone),
		"password":     stringRule(IsPassword),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

// stringRule adapts a predicate; empty values pass so "required" decides.
func stringRule(fn func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return fn(value)
	}
}

func IsEmail(value string) bool {
	return emailPattern.MatchString(value)
}

func IsCampusID(value string) bool {
	return campusIDPattern.MatchString(value)
}

func IsPhone(value string) bool {
	return phonePattern.MatchString(value)
}

func IsPassword(value string) bool {
	return utf8.RuneCountInString(value) >= MinPasswordLength
}

// ValidateField checks one form value. Required is tested on the trimmed
// value; the kind rule only runs on non-empty input. It returns the inline
// message and false on failure.
func ValidateField(value string, kind enum.FieldKindEnum, required bool) (string, bool) {
	if required && strings.TrimSpace(value) == "" {
		return MsgRequired, false
	}
	if value == "" {
		return "", true
	}
	switch kind {
	case enum.EMAIL:
		if !IsEmail(value) {
			return MsgEmail, false
		}
	case enum.CAMPUSID:
		if !IsCampusID(value) {
			return MsgCampusID, false
		}
	case enum.PHONE:
		if !IsPhone(value) {
			return MsgPhone, false
		}
	case enum.PASSWORD:
		if !IsPassword(value) {
			return MsgPassword, false
		}
	}
	return "", true
}

func Validate(payload interface{}) error {
	if err := Setup(); err != nil {
		return err
	}
	if err := val.Struct(payload); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, ParseError(err))
	}
	return nil
}

// ParseError turns validator errors into "field message" pairs; other
// errors (bad JSON, wrong types) pass through as-is.
func ParseError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		msg, ok := validationMessages[e.Tag()]
		if !ok {
			msg = "is invalid"
		}
		switch e.Tag() {
		case "enum":
			msg = fmt.Sprintf(msg, e.Type())
		default:
			if strings.Contains(msg, "%s") {
				msg = fmt.Sprintf(msg, e.Param())
			}
		}
		parts = append(parts, fmt.Sprintf("%s %s", e.Field(), msg))
	}
	return strings.Join(parts, ", ")
}
