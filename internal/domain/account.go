package domain

import "time"

type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusFrozen AccountStatus = "FROZEN"
	AccountStatusClosed AccountStatus = "CLOSED"
)

// Account is master data owned by the surrounding application; the posting
// core only reads it to resolve a customer-facing reference to an id.
type Account struct {
	ID            string
	CustomerID    string
	AccountNumber string
	Currency      string
	Status        AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
