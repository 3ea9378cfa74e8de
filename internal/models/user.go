package models

import (
	"github.com/shopspring/decimal"
)

// User is the cached profile projection returned by the backend.
// The backend owns the authoritative record; the portal only displays it.
type User struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Coins          decimal.Decimal `json:"coins"`
	AvailableCoins decimal.Decimal `json:"availableCoins"`
}

// DisplayPhone returns the phone or the gateway placeholder when absent
func (u *User) DisplayPhone() string {
	if u.Phone == "" {
		return "N/A"
	}
	return u.Phone
}
