package models

import "time"

// User represents an application user (mapped from an external identity provider).
type User struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	ProviderID     string    `bson:"providerId" json:"providerId"` // stable id from the identity provider
	Username       string    `bson:"username" json:"username"`
	AccessToken    string    `bson:"accessToken,omitempty" json:"-"` // sensitive: provider credential, plaintext at rest
	OrganizationID string    `bson:"organizationId" json:"organizationId"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
