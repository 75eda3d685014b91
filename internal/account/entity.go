// AngelaMos | 2026
// entity.go

package account

import (
	"time"
)

// Account rows are immutable after creation except for password rehash
// upgrades. ReferrerID is set once at registration and never changed.
type Account struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	ReferrerID   *string   `db:"referrer_id"`
	CreatedAt    time.Time `db:"created_at"`
}

func (a *Account) HasReferrer() bool {
	return a.ReferrerID != nil
}
