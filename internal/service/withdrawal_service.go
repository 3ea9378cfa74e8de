package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/backend"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/validation"
)

var minWithdrawal = decimal.NewFromInt(100)

// WithdrawalForm is the bank payout form. Tag-driven rules cover the static
// shape; amount-vs-balance is checked separately because the ceiling is the
// user's available balance.
type WithdrawalForm struct {
	Amount               string `validate:"required"`
	AccountHolderName    string `validate:"required"`
	AccountNumber        string `validate:"required,bank_account"`
	ConfirmAccountNumber string `validate:"required,eqfield=AccountNumber"`
	BankName             string `validate:"required"`
	IFSCCode             string `validate:"required,ifsc"`
}

// WithdrawalService validates payout forms client-side and submits them.
// The backend is the source of truth for balance and approval; these checks
// exist for UX only.
type WithdrawalService interface {
	Validate(form WithdrawalForm, availableCoins decimal.Decimal) map[string]string
	Submit(ctx context.Context, form WithdrawalForm) (*backend.WithdrawalResponse, error)
}

type withdrawalService struct {
	backendClient *backend.Client
	validate      *validation.CustomValidator
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(backendClient *backend.Client, validate *validation.CustomValidator) WithdrawalService {
	return &withdrawalService{
		backendClient: backendClient,
		validate:      validate,
	}
}

// Validate returns a field-keyed error map; empty means the form may be
// submitted
func (s *withdrawalService) Validate(form WithdrawalForm, availableCoins decimal.Decimal) map[string]string {
	errs := make(map[string]string)

	amount, err := decimal.NewFromString(strings.TrimSpace(form.Amount))
	if form.Amount == "" || err != nil {
		errs["amount"] = "Amount is required"
	} else if amount.LessThan(minWithdrawal) {
		errs["amount"] = "Minimum withdrawal amount is ₹100"
	} else if amount.GreaterThan(availableCoins) {
		errs["amount"] = "Amount exceeds available coins"
	}

	if err := s.validate.Validate(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if ok := asValidationErrors(err, &fieldErrors); ok {
			for _, fe := range fieldErrors {
				field := formFieldName(fe.Field())
				if field == "amount" {
					// amount already handled above with specific copy
					continue
				}
				if _, seen := errs[field]; !seen {
					errs[field] = withdrawalFieldMessage(fe)
				}
			}
		}
	}

	return errs
}

// Submit posts the payout request with a normalized IFSC code
func (s *withdrawalService) Submit(ctx context.Context, form WithdrawalForm) (*backend.WithdrawalResponse, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(form.Amount))
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	resp, err := s.backendClient.RequestWithdrawal(ctx, backend.WithdrawalRequest{
		AccountHolderName: strings.TrimSpace(form.AccountHolderName),
		AccountNumber:     strings.TrimSpace(form.AccountNumber),
		BankName:          strings.TrimSpace(form.BankName),
		IFSCCode:          strings.ToUpper(strings.TrimSpace(form.IFSCCode)),
		Amount:            amount,
	})
	if err != nil {
		return nil, err
	}

	if !resp.Accepted() {
		message := resp.Message
		if message == "" {
			message = "Withdrawal request failed"
		}
		return nil, &backend.APIError{StatusCode: 200, Message: message}
	}

	return resp, nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = ve
	return true
}

// formFieldName maps struct field names to form field keys
func formFieldName(field string) string {
	switch field {
	case "Amount":
		return "amount"
	case "AccountHolderName":
		return "accountHolderName"
	case "AccountNumber":
		return "accountNumber"
	case "ConfirmAccountNumber":
		return "confirmAccountNumber"
	case "BankName":
		return "bankName"
	case "IFSCCode":
		return "ifscCode"
	default:
		return strings.ToLower(field)
	}
}

// withdrawalFieldMessage keeps the exact copy the form shows per field
func withdrawalFieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "AccountHolderName":
		return "Account holder name is required"
	case "AccountNumber":
		if fe.Tag() == "required" {
			return "Account number is required"
		}
		return "Account number must be 9-18 digits"
	case "ConfirmAccountNumber":
		return "Account numbers do not match"
	case "BankName":
		return "Bank name is required"
	case "IFSCCode":
		if fe.Tag() == "required" {
			return "IFSC code is required"
		}
		return "Invalid IFSC code format"
	default:
		return validation.FormatValidationError(fe)
	}
}
