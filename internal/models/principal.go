package models

// Principal is the normalized authenticated-caller identity used by the
// secret store regardless of how the request authenticated (CLI bridge token
// or browser cookie session). It is only constructed by the two auth
// adapters; handlers must never hand-assemble one.
type Principal struct {
	UserID         string `json:"userId"`
	OrganizationID string `json:"organizationId"`
	Username       string `json:"username"`
}

// Authenticated reports whether the principal carries an organization scope.
// A principal without an organization must never reach the secret store.
func (p Principal) Authenticated() bool {
	return p.UserID != "" && p.OrganizationID != ""
}

// ExternalIdentity is the verified identity returned by an identity provider
// adapter after a completed OAuth exchange.
type ExternalIdentity struct {
	ProviderID  string // stable id at the provider (e.g. numeric GitHub id)
	Username    string
	AccessToken string // provider credential, stored on the user record
}
