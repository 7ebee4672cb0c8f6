package services

import "blog/app/models"

// Gate decides whether an identity may act. The admin is the single user whose
// id equals AdminID.
type Gate struct {
	AdminID uint
}

func NewGate(adminID uint) *Gate {
	return &Gate{AdminID: adminID}
}

// RequireAuthenticated fails with models.ErrUnauthenticated for anonymous identities.
func (g *Gate) RequireAuthenticated(id models.Identity) error {
	if id.IsAnonymous() {
		return models.ErrUnauthenticated
	}
	return nil
}

// RequireAdmin checks authentication first, then admin equality.
func (g *Gate) RequireAdmin(id models.Identity) error {
	if err := g.RequireAuthenticated(id); err != nil {
		return err
	}
	if !g.IsAdmin(id) {
		return models.ErrForbidden
	}
	return nil
}

func (g *Gate) IsAdmin(id models.Identity) bool {
	return !id.IsAnonymous() && id.UserID == g.AdminID
}
