package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "PlainDigits", phone: "9876543210", want: "9876543210"},
		{name: "CountryCode", phone: "+91 98765 43210", want: "919876543210"},
		{name: "Dashes", phone: "98765-43210", want: "9876543210"},
		{name: "Empty", phone: "", want: ""},
		{name: "LettersDropped", phone: "98a76b54c3210", want: "9876543210"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.phone))
		})
	}
}

func TestValidIFSC(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{name: "Valid", code: "HDFC0001234", want: true},
		{name: "LowercaseAccepted", code: "hdfc0001234", want: true},
		{name: "AlphanumericBranch", code: "SBIN0A1B2C3", want: true},
		{name: "MissingZero", code: "HDFC1001234", want: false},
		{name: "TooShort", code: "HDFC000123", want: false},
		{name: "TooLong", code: "HDFC00012345", want: false},
		{name: "Empty", code: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidIFSC(tt.code))
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{name: "Valid", email: "asha@example.com", want: true},
		{name: "Subdomain", email: "asha@mail.example.co.in", want: true},
		{name: "NoAt", email: "asha.example.com", want: false},
		{name: "NoDomainDot", email: "asha@example", want: false},
		{name: "EmptyLocal", email: "@example.com", want: false},
		{name: "TrailingAt", email: "asha@", want: false},
		{name: "Spaces", email: "asha b@example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}

func TestCustomValidator_DomainRules(t *testing.T) {
	cv := NewCustomValidator()

	type form struct {
		Phone   string `validate:"indian_mobile"`
		IFSC    string `validate:"ifsc"`
		Account string `validate:"bank_account"`
	}

	t.Run("Valid", func(t *testing.T) {
		err := cv.Validate(form{Phone: "98765-43210", IFSC: "ICIC0004321", Account: "123456789012"})
		require.NoError(t, err)
	})

	t.Run("ShortAccount", func(t *testing.T) {
		err := cv.Validate(form{Phone: "9876543210", IFSC: "ICIC0004321", Account: "12345678"})
		assert.Error(t, err)
	})

	t.Run("BadMobile", func(t *testing.T) {
		err := cv.Validate(form{Phone: "12345", IFSC: "ICIC0004321", Account: "123456789012"})
		assert.Error(t, err)
	})
}

func TestCustomValidator_Var(t *testing.T) {
	cv := NewCustomValidator()

	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{name: "PlainDigits", phone: "9876543210", valid: true},
		{name: "FormattedDigits", phone: "98765-43210", valid: true},
		{name: "CountryCodeRejected", phone: "+91 98765 43210", valid: false},
		{name: "TooShort", phone: "12345", valid: false},
		{name: "Empty", phone: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cv.Var(tt.phone, "indian_mobile")
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
