package domain

import "time"

// User mirrors the persisted representation in the users table. The PIN is
// never stored; only its salted digest is, and lookup is by exact digest match.
type User struct {
	ID        int64
	PINDigest string
	Phone     string
	Name      string
	Email     *string
	Division  string
	CreatedAt time.Time
	LastLogin *time.Time
}

// Identity is the caller-facing projection of a User returned by a successful
// PIN verification. It carries no credential material.
type Identity struct {
	UserID   int64
	Phone    string
	Name     string
	Division string
}

// Identity projects the user into its authentication result view.
func (u User) Identity() Identity {
	return Identity{
		UserID:   u.ID,
		Phone:    u.Phone,
		Name:     u.Name,
		Division: u.Division,
	}
}
