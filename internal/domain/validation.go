package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var ibanPattern = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z0-9]{4}\d{10}$`)

// MaxSecretBytes is the longest secret bcrypt accepts.
const MaxSecretBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return snakeCase(field.Name)
	})
	_ = v.RegisterValidation("iban", func(fl validator.FieldLevel) bool {
		return IsValidIBAN(fl.Field().String())
	})
	_ = v.RegisterValidation("secret", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxSecretBytes
	})
	return v
}

// IsValidIBAN reports whether value has the shape of a Spanish style IBAN.
func IsValidIBAN(value string) bool {
	return ibanPattern.MatchString(value)
}

// Validate runs the struct tag rules of input and converts failures into a
// *ValidationError keyed by snake_case field names.
func Validate(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	result := &ValidationError{}
	for _, fieldErr := range fieldErrs {
		result.Add(fieldErr.Field(), describe(fieldErr))
	}
	return result
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fieldErr.Param() + " characters"
	case "min":
		return "must be at least " + fieldErr.Param()
	case "len":
		return "must be " + fieldErr.Param() + " characters"
	case "numeric":
		return "must contain only digits"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of " + fieldErr.Param()
	case "iban":
		return "invalid IBAN number"
	case "secret":
		return "must be at most " + strconv.Itoa(MaxSecretBytes) + " bytes"
	case "gt":
		return "must be greater than " + fieldErr.Param()
	default:
		return "is invalid"
	}
}

func snakeCase(name string) string {
	var builder strings.Builder
	builder.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				builder.WriteByte('_')
			}
			builder.WriteRune(unicode.ToLower(r))
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
