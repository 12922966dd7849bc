package izettle

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/hako/durafmt"
	"github.com/pkg/errors"
)

// ErrorTypeAccessTokenExpired is the structured error type the platform
// returns on a 401 response to mean "your token is expired"
// (as opposed to any other cause of a 401).
// Only this value triggers the single re-authenticate-and-retry
const ErrorTypeAccessTokenExpired = "ACCESS_TOKEN_EXPIRED"

// expiryMargin is subtracted from the server-declared token lifetime
// so that a token nearing expiry is refreshed before it is used
const expiryMargin = 60 * time.Second

// Authenticate obtains a new OAuth session with the iZettle API,
// replacing the stored token state.
//
// Uses a refresh grant when a refresh token is held from a previous grant,
// and a password grant otherwise.
// Called automatically at construction and whenever a call
// detects an expired or rejected token,
// so most users never need to call this directly
func (c *Client) Authenticate() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.authenticate()
}

// authenticate performs the token grant.
// Callers must hold the mutex
func (c *Client) authenticate() error {
	form := url.Values{}
	if c.refreshToken != "" {
		form.Set("grant_type", "refresh_token")
		form.Set("refresh_token", c.refreshToken)
	} else {
		form.Set("grant_type", "password")
		form.Set("username", c.username)
		form.Set("password", c.password)
	}

	// Both grant types carry the client credentials
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	res, err := c.httpClient.PostForm(c.oauthURL, form)
	if err != nil {
		return errors.Wrap(err, "could not reach the OAuth token endpoint")
	}
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "could not read the OAuth token response")
	}

	if res.StatusCode != http.StatusOK {
		return NewAuthenticationError(res.StatusCode, body)
	}

	tokens := tokenResponse{}
	if err := json.Unmarshal(body, &tokens); err != nil {
		return NewAuthenticationError(res.StatusCode, body)
	}
	if tokens.AccessToken == "" {
		return NewAuthenticationError(res.StatusCode, body)
	}

	// Replace the stored token state in one step
	// so that no partial update is ever visible to a caller
	lifetime := time.Duration(tokens.ExpiresIn)*time.Second - expiryMargin
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	c.validUntil = time.Now().Add(lifetime)

	c.logger.Info().
		Str("valid_for", durafmt.Parse(lifetime).LimitFirstN(2).String()).
		Msg("authenticated iZettle session")

	return nil
}

// ExpireSession marks the held session as expired,
// forcing a re-authentication before the next call proceeds.
// Useful when the token is known to be stale ahead of time,
// since it saves the next call a rejected round trip
func (c *Client) ExpireSession() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.validUntil = time.Time{}
}

// SessionValidUntil returns the instant at which the current session
// is considered expired and will be refreshed before the next call.
// Returns the zero time if the client has never authenticated
func (c *Client) SessionValidUntil() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.validUntil
}
