package client

import "context"

// Identity is the server's answer for a resolved bridge token.
type Identity struct {
	Token          string `json:"token"`
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	OrganizationID string `json:"organizationId"`
}

// ResolveToken asks the server who a pasted bridge token belongs to. A 404
// means the token is unknown or has expired.
func (c *Client) ResolveToken(ctx context.Context, token string) (*Identity, error) {
	var out Identity
	if err := c.do(ctx, "GET", "/cli-token/"+token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
