package models

import "time"

// Organization is the tenancy boundary: every user and secret belongs to
// exactly one organization.
type Organization struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Team is an optional grouping of users inside one organization. Membership
// is kept as an adjacency set of user ids.
type Team struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Name           string    `bson:"name" json:"name"`
	OrganizationID string    `bson:"organizationId" json:"organizationId"`
	MemberIDs      []string  `bson:"memberIds,omitempty" json:"memberIds,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
