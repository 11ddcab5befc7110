// Package twitter implements the X OAuth 2.0 identity provider client: the
// authorization redirect, the code-for-token exchange, and the profile fetch.
// The rest of the system only ever sees the resulting session claims.
package twitter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trust-ethos/ethos-anonymous-reviews/config"
	"github.com/trust-ethos/ethos-anonymous-reviews/internal/domain/session"
	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
)

const (
	authorizeURL = "https://twitter.com/i/oauth2/authorize"
	tokenURL     = "https://api.twitter.com/2/oauth2/token"
	profileURL   = "https://api.twitter.com/2/users/me?user.fields=profile_image_url"
)

// Token is the result of a successful code exchange.
type Token struct {
	AccessToken string
	ExpiresIn   int
}

// Client talks to the X OAuth 2.0 endpoints.
type Client struct {
	cfg  *config.TwitterConfig
	http *http.Client
}

// NewClient creates a Twitter OAuth client.
func NewClient(cfg *config.TwitterConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// AuthorizeURL builds the authorization redirect URL with PKCE S256.
func (c *Client) AuthorizeURL(state, codeChallenge string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.cfg.ClientID)
	q.Set("redirect_uri", c.cfg.RedirectURI)
	q.Set("scope", "tweet.read users.read")
	q.Set("state", state)
	q.Set("code_challenge", codeChallenge)
	q.Set("code_challenge_method", "S256")
	return authorizeURL + "?" + q.Encode()
}

// Exchange swaps an authorization code for an access token.
func (c *Client) Exchange(ctx context.Context, code, codeVerifier string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURI)
	form.Set("code_verifier", codeVerifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	basic := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "token exchange request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange failed: %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode token response")
	}

	return &Token{AccessToken: body.AccessToken, ExpiresIn: body.ExpiresIn}, nil
}

// Profile fetches the authenticated user's identity claims.
func (c *Client) Profile(ctx context.Context, accessToken string) (*session.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build profile request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "profile request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile fetch failed: %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			ID              string `json:"id"`
			Name            string `json:"name"`
			Username        string `json:"username"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode profile response")
	}

	return &session.User{
		ID:        body.Data.ID,
		Name:      body.Data.Name,
		Handle:    body.Data.Username,
		AvatarURL: body.Data.ProfileImageURL,
	}, nil
}
