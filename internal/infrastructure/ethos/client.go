// Package ethos implements the reputation oracle client. It looks up a
// profile's credibility score by X handle and resolves the numeric X account
// id that identifies a review subject on chain.
package ethos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/trust-ethos/ethos-anonymous-reviews/config"
	apperrors "github.com/trust-ethos/ethos-anonymous-reviews/pkg/errors"
)

// xUserKeyPrefix marks a userkey that binds a profile to an X account id.
const xUserKeyPrefix = "service:x.com:"

// Profile is the subset of an Ethos profile the service needs.
type Profile struct {
	ID          int64    `json:"id"`
	ProfileID   int64    `json:"profileId"`
	DisplayName string   `json:"displayName"`
	Username    string   `json:"username"`
	AvatarURL   string   `json:"avatarUrl"`
	Score       int      `json:"score"`
	UserKeys    []string `json:"userkeys"`
}

// Client queries the Ethos API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an Ethos API client.
func NewClient(cfg *config.EthosConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// UserByHandle fetches the profile behind an X handle. A 404 maps to
// ErrProfileNotFound; any other failure surfaces as an oracle fault.
func (c *Client) UserByHandle(ctx context.Context, handle string) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/api/v2/users/by/x/%s", c.baseURL, url.PathEscape(handle))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build user lookup request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrOracleUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, apperrors.ErrProfileNotFound
	default:
		return nil, apperrors.Wrap(apperrors.ErrOracleUnavailable, fmt.Sprintf("status %d", resp.StatusCode))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode user lookup response")
	}
	return &profile, nil
}

// ResolveXAccountID resolves the numeric X account id for a handle. It tries
// the profile's userkeys first, then the Ethos twitter lookup endpoint. If
// neither source yields an id the resolution fails hard; the caller must not
// fall back to the raw handle.
func (c *Client) ResolveXAccountID(ctx context.Context, handle string, profile *Profile) (string, error) {
	if profile != nil {
		for _, key := range profile.UserKeys {
			if id, ok := strings.CutPrefix(key, xUserKeyPrefix); ok && id != "" {
				return id, nil
			}
		}
	}

	if id, err := c.twitterUserID(ctx, handle); err == nil && id != "" {
		return id, nil
	}

	return "", &apperrors.ResolutionError{Handle: handle}
}

// twitterUserID is the fallback lookup against the Ethos twitter endpoint.
func (c *Client) twitterUserID(ctx context.Context, handle string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/twitter/user?username=%s", c.baseURL, url.QueryEscape(handle))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("twitter lookup failed: %d", resp.StatusCode)
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.ID, nil
}
