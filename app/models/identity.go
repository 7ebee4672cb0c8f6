package models

import "time"

// Identity is who a request acts as. The zero value is the anonymous identity.
type Identity struct {
	UserID    uint
	Name      string
	SessionID string
	ExpiresAt time.Time
}

// Anonymous is the identity of a request without a valid session.
var Anonymous = Identity{}

func (id Identity) IsAnonymous() bool {
	return id.UserID == 0
}

// IdentityOf builds the identity for an authenticated user.
func IdentityOf(u *User) Identity {
	return Identity{UserID: u.ID, Name: u.Name}
}
