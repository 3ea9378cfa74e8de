package validation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrorResponse represents the validation error response format
type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// FormatValidationError formats a validator.FieldError into a user-facing message
func FormatValidationError(fe validator.FieldError) string {
	fieldName := getFieldName(fe)

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required", fieldName)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address", fieldName)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s", fieldName, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not exceed %s", fieldName, fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s", fieldName, fe.Param())
	case "indian_mobile":
		return fmt.Sprintf("The %s field must be a valid 10-digit phone number", fieldName)
	case "ifsc":
		return fmt.Sprintf("The %s field must be a valid IFSC code", fieldName)
	case "bank_account":
		return fmt.Sprintf("The %s field must be 9-18 digits", fieldName)
	case "eqfield":
		return fmt.Sprintf("The %s field does not match", fieldName)
	default:
		return fmt.Sprintf("The %s field is invalid", fieldName)
	}
}

// getFieldName extracts a human-readable field name from the FieldError
func getFieldName(fe validator.FieldError) string {
	fieldName := strings.ToLower(fe.Field())
	fieldName = strings.ReplaceAll(fieldName, "_", " ")
	return fieldName
}

// WriteValidationErrorResponse writes a 422 response from validator errors
func WriteValidationErrorResponse(w http.ResponseWriter, validationErrors validator.ValidationErrors) {
	errors := make(map[string]string)
	var firstMessage string

	for i, err := range validationErrors {
		fieldName := err.Field()
		errorMessage := FormatValidationError(err)

		errors[fieldName] = errorMessage

		// First error message becomes the main message
		if i == 0 {
			firstMessage = errorMessage
		}
	}

	writeResponse(w, ValidationErrorResponse{Message: firstMessage, Errors: errors})
}

// WriteValidationErrorResponseFromMap writes a 422 response from a map of field errors
func WriteValidationErrorResponseFromMap(w http.ResponseWriter, fieldErrors map[string]string) {
	var firstMessage string
	for _, msg := range fieldErrors {
		firstMessage = msg
		break
	}
	if firstMessage == "" {
		firstMessage = "The given data was invalid"
	}

	writeResponse(w, ValidationErrorResponse{Message: firstMessage, Errors: fieldErrors})
}

func writeResponse(w http.ResponseWriter, response ValidationErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(response)
}
