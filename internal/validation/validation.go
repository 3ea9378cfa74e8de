package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps go-playground validator with portal-specific rules
type CustomValidator struct {
	validate *validator.Validate
}

// NewCustomValidator creates a new custom validator with domain rules
func NewCustomValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("indian_mobile", validateIndianMobile)
	v.RegisterValidation("ifsc", validateIFSC)
	v.RegisterValidation("bank_account", validateBankAccount)

	return &CustomValidator{validate: v}
}

// Validate validates a struct
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

// Var validates a single value against rule tags, e.g. "indian_mobile"
func (cv *CustomValidator) Var(field interface{}, tag string) error {
	return cv.validate.Var(field, tag)
}

var (
	indianMobileRegex = regexp.MustCompile(`^\d{10}$`)
	ifscRegex         = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// NormalizePhone strips every non-digit character from a phone number
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validateIndianMobile validates 10-digit Indian mobile numbers.
// Non-digit characters are stripped before the length check.
func validateIndianMobile(fl validator.FieldLevel) bool {
	return indianMobileRegex.MatchString(NormalizePhone(fl.Field().String()))
}

// ValidIFSC reports whether code is a valid IFSC after uppercasing.
// Format: 4 letters, a zero, then 6 alphanumerics.
func ValidIFSC(code string) bool {
	return ifscRegex.MatchString(strings.ToUpper(strings.TrimSpace(code)))
}

// validateIFSC validates Indian bank IFSC codes
func validateIFSC(fl validator.FieldLevel) bool {
	return ValidIFSC(fl.Field().String())
}

// validateBankAccount validates bank account numbers (9-18 characters)
func validateBankAccount(fl validator.FieldLevel) bool {
	account := strings.TrimSpace(fl.Field().String())
	return len(account) >= 9 && len(account) <= 18
}

// ValidEmail reports whether email has a basic local@domain shape
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1 && !strings.ContainsAny(email, " \t")
}
