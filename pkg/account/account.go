package account

import "time"

// Account is the identity that owns every ledger row.
type Account struct {
	Id           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
