package client

import (
	"context"
	"net/http"
)

// Health checks the health of the identity provider
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Ping is a simple connectivity test
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Health(ctx)
	return err
}
