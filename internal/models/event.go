package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the read-only projection served by the backend events endpoints.
// Spots-left counters are computed server-side; nil gender counters mean the
// event has no per-gender capacity ceiling.
type Event struct {
	ID              string          `json:"_id"`
	EventName       string          `json:"eventName"`
	EventDate       time.Time       `json:"eventDate"`
	EventTime       string          `json:"eventTime"`
	PlaceOfEvent    string          `json:"placeOfEvent"`
	GoogleMapsURL   string          `json:"googleMapsUrl,omitempty"`
	Price           decimal.Decimal `json:"price"`
	MaxAttendees    int             `json:"maxAttendees"`
	AttendeeCount   int             `json:"attendeeCount"`
	SpotsLeft       int             `json:"spotsLeft"`
	MaleSpotsLeft   *int            `json:"maleSpotsLeft"`
	FemaleSpotsLeft *int            `json:"femaleSpotsLeft"`
	ImageURL        string          `json:"imageUrl,omitempty"`
}

// SoldOut reports whether the event has no spots left
func (e *Event) SoldOut() bool {
	return e.SpotsLeft == 0
}

// TotalAmount returns price multiplied by attendee count
func (e *Event) TotalAmount(attendees int) decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(int64(attendees)))
}

// Attendee is one registration record attached to an event order
type Attendee struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	CollegeName string `json:"collegeName"`
	Gender      string `json:"gender"`
}

// EventRegistration is the confirmed attendee payload returned by
// event payment verification
type EventRegistration struct {
	Email     string     `json:"email"`
	Attendees []Attendee `json:"attendees"`
	OrderID   string     `json:"orderId"`
}
