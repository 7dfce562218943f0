package client

import (
	"context"
	"net/http"
)

// ProfileUpdate carries a partial profile update; nil fields are left
// unchanged by the server.
type ProfileUpdate struct {
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	BusinessType *string `json:"businessType,omitempty"`
	Language     *string `json:"language,omitempty"`
}

// Profile fetches the business profile
func (c *Client) Profile(ctx context.Context) (*Business, error) {
	var out Business
	if err := c.do(ctx, http.MethodGet, "/api/business/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial profile update
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Business, error) {
	var out Business
	if err := c.do(ctx, http.MethodPut, "/api/business/profile", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateHours replaces the opening hours
func (c *Client) UpdateHours(ctx context.Context, hours OpeningHours) (OpeningHours, error) {
	body := map[string]OpeningHours{"openingHours": hours}
	var out struct {
		OpeningHours OpeningHours `json:"openingHours"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/business/hours", body, &out); err != nil {
		return nil, err
	}
	return out.OpeningHours, nil
}

// SendPhoneCode asks the server to issue a phone verification code
func (c *Client) SendPhoneCode(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/business/phone/send-code", nil, nil)
}

// VerifyPhoneCode submits a verification code
func (c *Client) VerifyPhoneCode(ctx context.Context, code string) error {
	body := map[string]string{"code": code}
	return c.do(ctx, http.MethodPost, "/api/business/phone/verify", body, nil)
}

// AgentUpdate carries a partial agent update
type AgentUpdate struct {
	Name         *string `json:"name,omitempty"`
	SystemPrompt *string `json:"systemPrompt,omitempty"`
	Greeting     *string `json:"greeting,omitempty"`
	Language     *string `json:"language,omitempty"`
}

// Agent fetches the receptionist agent configuration
func (c *Client) Agent(ctx context.Context) (*Agent, error) {
	var out Agent
	if err := c.do(ctx, http.MethodGet, "/api/agent", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAgent applies a partial agent update
func (c *Client) UpdateAgent(ctx context.Context, update AgentUpdate) (*Agent, error) {
	var out Agent
	if err := c.do(ctx, http.MethodPut, "/api/agent", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AgentCreate carries the fields of a new agent
type AgentCreate struct {
	Name         string `json:"name"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
	Greeting     string `json:"greeting,omitempty"`
	Language     string `json:"language,omitempty"`
}

// CreateAgent adds another agent beyond the one provisioned at signup
func (c *Client) CreateAgent(ctx context.Context, create AgentCreate) (*Agent, error) {
	var out Agent
	if err := c.do(ctx, http.MethodPost, "/api/agents", create, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Agents lists the business's agents. Failures are swallowed to an
// empty list with a logged diagnostic, matching the dashboard's
// behavior for non-critical listings.
func (c *Client) Agents(ctx context.Context) []*Agent {
	var out []*Agent
	if err := c.do(ctx, http.MethodGet, "/api/agents", nil, &out); err != nil {
		c.logger.Warn("agents list failed", "error", err.Error())
		return []*Agent{}
	}
	return out
}
