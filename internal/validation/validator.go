package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// PasswordSymbols is the fixed set a password must draw at least one symbol from.
const PasswordSymbols = "!@#$%^&*"

// PasswordPolicy describes the password requirements for API error messages.
const PasswordPolicy = "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character (!@#$%^&*), and be at least 8 characters long."

// Validator checks request bodies against the named schemas.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "-" && name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("strongpassword", validateStrongPassword)
	_ = v.RegisterValidation("whatsapp", validateWhatsApp)
	return &Validator{v: v}
}

// Check validates body against schema and returns every violation as a readable message.
// A nil result means the body is valid.
func (val *Validator) Check(schema Schema, body any) []string {
	def, ok := schemas[schema]
	if !ok {
		return []string{fmt.Sprintf("unknown schema %q", schema)}
	}
	err := val.v.Struct(body)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, def.message(fe))
	}
	return msgs
}

// validateStrongPassword requires at least 8 characters with a lowercase letter,
// an uppercase letter, a digit and one symbol from PasswordSymbols.
func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, char := range password {
		switch {
		case char >= 'a' && char <= 'z':
			hasLower = true
		case char >= 'A' && char <= 'Z':
			hasUpper = true
		case char >= '0' && char <= '9':
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, char):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

func validateWhatsApp(fl validator.FieldLevel) bool {
	_, err := NormalizePhone(fl.Field().String())
	return err == nil
}

// NormalizePhone parses an international number and formats it as E.164.
func NormalizePhone(raw string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), "")
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number %q", raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func genericMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot be more than %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "email":
		return "Invalid email format"
	case "number":
		return fmt.Sprintf("%s must be a whole number", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "strongpassword":
		return PasswordPolicy
	case "whatsapp":
		return fmt.Sprintf("%s must be a valid international phone number (e.g. +14155552671)", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
