package trilium

import (
	"context"
	"net/http"
)

type loginParams struct {
	Password string `json:"password"`
}

type loginResponse struct {
	AuthToken string `json:"authToken"`
}

// Login exchanges a password for an ETAPI token and stores the token on the
// client for subsequent requests. With an empty password argument the
// password from the Config is used.
//
// Tokens obtained this way are revoked by Logout; tokens created in the
// Trilium UI outlive the session.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	if password == "" {
		password = c.password
	}

	var result loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginParams{Password: password}, &result); err != nil {
		return "", err
	}

	c.setToken(result.AuthToken)

	return result.AuthToken, nil
}

// Logout revokes the token the client currently holds. The client is
// unusable afterwards until a new Login.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
		return err
	}

	c.setToken("")

	return nil
}
