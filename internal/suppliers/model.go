package suppliers

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a party record. It owns its email and phone collections: the
// children are created, read and deleted together with the parent and are
// never addressed on their own.
type Supplier struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	ActivationDate *time.Time `json:"activationDate,omitempty"`
	Emails         []Email    `json:"emails"`
	Phones         []Phone    `json:"phones"`
}

// Email is a contact address owned by a Supplier.
type Email struct {
	ID           uuid.UUID `json:"id"`
	EmailAddress string    `json:"emailAddress"`
	IsPreferred  bool      `json:"isPreferred"`
}

// Phone is a contact number owned by a Supplier.
type Phone struct {
	ID          uuid.UUID `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	IsPreferred bool      `json:"isPreferred"`
}

// IsActive reports whether the supplier is active. Activity is derived from
// the presence of an activation date, not stored; whether the date lies in
// the past or future is irrelevant once set.
func (s Supplier) IsActive() bool {
	return s.ActivationDate != nil
}
