package api

import (
	"context"
	"net/http"
	"net/url"
)

// StatusResponse — ответ /status.
type StatusResponse struct {
	Okay          bool   `json:"okay"`
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email"`
	FullName      string `json:"fullname"`
	APIVersion    string `json:"apiVersion"`
}

// Authenticate logs in, stores the session cookie and resolves the user's display name.
func (c *Client) Authenticate(ctx context.Context, email, password string) error {
	q := url.Values{"email": {email}, "password": {password}}
	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint("/login", q), nil, "application/json")
	if err != nil {
		return err
	}
	resp, _, err := c.send(req)
	if err != nil {
		return err
	}
	session := ""
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookie && ck.Value != "" {
			session = ck.Value
		}
	}
	if session == "" {
		return ErrNoSession
	}
	c.sessionID = session

	st, err := c.Status(ctx)
	if err != nil {
		c.sessionID = ""
		return err
	}
	c.userFullName = st.FullName
	c.logger.Infow("Authenticated", "url", c.baseURL, "user", c.userFullName)
	return nil
}

// Status returns the session status as reported by the server.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var st StatusResponse
	if err := c.doJSON(ctx, http.MethodGet, c.endpoint("/status", nil), nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Logout ends the server session and forgets the local cookie.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("/logout", nil), nil, nil); err != nil {
		return err
	}
	c.sessionID = ""
	c.userFullName = ""
	return nil
}
