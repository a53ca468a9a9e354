package ghapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// NewAuthorization describes the application authorization to create or reuse.
type NewAuthorization struct {
	Scopes      []string `json:"scopes,omitempty"`
	Note        string   `json:"note,omitempty"`
	Fingerprint string   `json:"fingerprint,omitempty"`
}

// Authorization is an application authorization. Token is empty when the host
// returned an existing authorization whose token it no longer reveals.
type Authorization struct {
	ID             int64    `json:"id"`
	Token          string   `json:"token"`
	TokenLastEight string   `json:"token_last_eight,omitempty"`
	Note           string   `json:"note,omitempty"`
	Fingerprint    string   `json:"fingerprint,omitempty"`
	Scopes         []string `json:"scopes,omitempty"`
}

type authorizationRequest struct {
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes,omitempty"`
	Note         string   `json:"note,omitempty"`
}

// GetOrCreateAuthorization calls PUT /authorizations/clients/{client_id}[/{fingerprint}].
// otp is the second-factor code, empty when none is known yet.
func (c *Client) GetOrCreateAuthorization(ctx context.Context, clientID, clientSecret string, req NewAuthorization, otp string) (*Authorization, error) {
	endpoint := fmt.Sprintf("authorizations/clients/%s", url.PathEscape(clientID))
	if req.Fingerprint != "" {
		endpoint = fmt.Sprintf("%s/%s", endpoint, url.PathEscape(req.Fingerprint))
	}
	payload := authorizationRequest{
		ClientSecret: clientSecret,
		Scopes:       req.Scopes,
		Note:         req.Note,
	}
	var auth Authorization
	if _, err := c.do(ctx, http.MethodPut, endpoint, otp, payload, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// DeleteAuthorization calls DELETE /authorizations/{id}.
func (c *Client) DeleteAuthorization(ctx context.Context, id int64, otp string) error {
	endpoint := fmt.Sprintf("authorizations/%d", id)
	_, err := c.do(ctx, http.MethodDelete, endpoint, otp, nil, nil)
	return err
}
