// AngelaMos | 2026
// entity.go

package referral

import (
	"time"
)

// ReferralCode is a single code row. Once created, only IsActive ever
// changes: true until the owner deactivates it, then false forever.
// Expiry never flips the flag; it only fails redemption while active.
type ReferralCode struct {
	ID        string    `db:"id"`
	Code      string    `db:"code"`
	OwnerID   string    `db:"owner_id"`
	Expiry    time.Time `db:"expiry"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

func (c *ReferralCode) IsExpired(now time.Time) bool {
	return c.Expiry.Before(now)
}
