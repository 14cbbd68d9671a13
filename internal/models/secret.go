package models

import "time"

// Secret is an org-scoped key/value record. Values are opaque strings and are
// stored as-is (no encryption at rest yet; the field is marked sensitive so a
// future encryption pass only has to touch this one spot).
//
// GrantedUserIDs/GrantedTeamIDs record who may see the secret. They are kept
// current by the grant operations but are not consulted on the read path:
// visibility is organization-wide. Enforcing the grants would be a separate,
// explicitly validated change.
type Secret struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Key            string    `bson:"key" json:"key"`
	Value          string    `bson:"value" json:"value"` // sensitive: plaintext at rest
	OrganizationID string    `bson:"organizationId" json:"organizationId"`
	GrantedUserIDs []string  `bson:"grantedUserIds,omitempty" json:"grantedUserIds,omitempty"`
	GrantedTeamIDs []string  `bson:"grantedTeamIds,omitempty" json:"grantedTeamIds,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
