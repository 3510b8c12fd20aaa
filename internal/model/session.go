package model

import "time"

// Session is the authenticated viewer of a request. It is resolved once per
// request by the auth middleware and passed explicitly to the services.
type Session struct {
	UserID      string
	Email       string
	Name        string
	Role        Role
	Location    Location
	TokenID     string
	ExpiresAt   time.Time
	ExternalUID string
}

// IsAdmin is nil-safe so anonymous viewers can be checked directly.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

func NewSession(u *User, tokenID string, expiresAt time.Time) *Session {
	return &Session{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Location:  u.Location,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}
}
