package client

import (
	"context"
	"time"
)

// Secret mirrors the server's secret resource.
type Secret struct {
	ID             string    `json:"id"`
	Key            string    `json:"key"`
	Value          string    `json:"value"`
	OrganizationID string    `json:"organizationId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ListSecrets returns the caller's organization secrets, oldest first.
func (c *Client) ListSecrets(ctx context.Context) ([]Secret, error) {
	var out []Secret
	if err := c.do(ctx, "GET", "/secrets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSecret stores a new key/value secret in the caller's organization.
func (c *Client) CreateSecret(ctx context.Context, key, value string) (*Secret, error) {
	req := map[string]string{"key": key, "value": value}
	var out Secret
	if err := c.do(ctx, "POST", "/secrets", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
