package cashfree

import (
	"errors"
	"fmt"
)

// CodePhoneInvalid is the gateway code returned when the customer's phone
// fails gateway-side validation during session creation
const CodePhoneInvalid = "customer_details.customer_phone_invalid"

// ErrMissingSession indicates session creation returned no session id
var ErrMissingSession = errors.New("failed to create payment session")

// GatewayError wraps a gateway-originated error code so callers can branch
// on it instead of pattern-matching message text
type GatewayError struct {
	Code    string
	Message string
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("gateway error: %s", e.Message)
}

// IsPhoneInvalid reports whether err is the gateway phone-validation failure.
// The wallet page shows the profile-completion prompt for this one code and
// generic copy for everything else.
func IsPhoneInvalid(err error) bool {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Code == CodePhoneInvalid
	}
	return false
}
