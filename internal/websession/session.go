package websession

import (
	"time"

	"github.com/orgvault/orgvault/internal/models"
)

// CookieName is the browser session cookie.
const CookieName = "orgvault_session"

// Session is a browser cookie session: an opaque token mapped to the
// principal it authenticates, with an absolute expiry.
type Session struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Token          string    `bson:"token" json:"token"`
	UserID         string    `bson:"userId" json:"userId"`
	OrganizationID string    `bson:"organizationId" json:"organizationId"`
	Username       string    `bson:"username" json:"username"`
	ExpiresAt      time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// Principal returns the normalized caller identity for this session.
func (s *Session) Principal() models.Principal {
	return models.Principal{
		UserID:         s.UserID,
		OrganizationID: s.OrganizationID,
		Username:       s.Username,
	}
}
