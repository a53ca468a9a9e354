package ghapi

import (
	"context"
	"net/http"
	"strings"
)

const scopesHeader = "X-OAuth-Scopes"

type User struct {
	Login     string `json:"login" yaml:"login"`
	ID        int64  `json:"id" yaml:"id"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty" yaml:"avatarURL,omitempty"`
	HTMLURL   string `json:"html_url,omitempty" yaml:"htmlURL,omitempty"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	SiteAdmin bool   `json:"site_admin,omitempty" yaml:"siteAdmin,omitempty"`
}

// AuthenticatedUser is the /user response together with the OAuth scopes the
// host reported for the credentials used.
type AuthenticatedUser struct {
	User User
	// Scopes is nil when ScopesReported is false
	Scopes         []string
	ScopesReported bool
}

// CurrentUser calls GET /user.
func (c *Client) CurrentUser(ctx context.Context) (*AuthenticatedUser, error) {
	var user User
	resp, err := c.do(ctx, http.MethodGet, "user", "", nil, &user)
	if err != nil {
		return nil, err
	}
	result := &AuthenticatedUser{User: user}
	if values, ok := resp.Header()[http.CanonicalHeaderKey(scopesHeader)]; ok {
		result.ScopesReported = true
		result.Scopes = parseScopes(strings.Join(values, ","))
	}
	return result, nil
}

func parseScopes(header string) []string {
	scopes := []string{}
	for _, part := range strings.Split(header, ",") {
		if scope := strings.TrimSpace(part); scope != "" {
			scopes = append(scopes, scope)
		}
	}
	return scopes
}
