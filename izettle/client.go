package izettle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

// Default service URLs for the public iZettle platform.
// Each can be overridden per-client (used to point at a test double)
const (
	DefaultOAuthURL    = "https://oauth.izettle.net/token"
	DefaultProductURL  = "https://products.izettle.com/organizations/self"
	DefaultPurchaseURL = "https://purchase.izettle.com"
	DefaultImageURL    = "https://image.izettle.com/v2/images/organizations/self/products"
)

// DefaultTimeout bounds every outbound request, including the token grant
const DefaultTimeout = 30 * time.Second

// Config contains everything needed to construct a Client.
// The four credential fields are required;
// everything else has a sensible default
type Config struct {
	// ClientID is the partner ID used to access the iZettle API
	ClientID string
	// ClientSecret is the partner shared secret
	ClientSecret string
	// Username is the same user name used to access my.izettle.com
	Username string
	// Password is the same password used to access my.izettle.com
	Password string

	// OAuthURL overrides the OAuth token endpoint URL
	OAuthURL string
	// ProductURL overrides the product service base URL
	ProductURL string
	// PurchaseURL overrides the purchase service base URL
	PurchaseURL string
	// ImageURL overrides the image service URL
	ImageURL string

	// Timeout overrides the per-request timeout
	// (ignored when HTTPClient is given)
	Timeout time.Duration
	// HTTPClient overrides the underlying HTTP client
	HTTPClient *http.Client
	// Logger receives structured request/session logs
	// (defaults to a no-op logger)
	Logger *zerolog.Logger
}

// Client holds an authenticated session with the iZettle API
// and provides thin typed wrappers around its REST endpoints.
//
// Safe for use from multiple goroutines:
// access to the session state is serialized,
// so at most one request is in flight at a time
type Client struct {
	oauthURL    string
	productURL  string
	purchaseURL string
	imageURL    string

	clientID     string
	clientSecret string
	username     string
	password     string

	httpClient *http.Client
	logger     zerolog.Logger

	// Guards the token state below
	// (the check-refresh-dispatch sequence is a single critical section)
	mutex        sync.Mutex
	accessToken  string
	refreshToken string
	validUntil   time.Time
}

// NewClient constructs a Client and authenticates the session immediately
// using a password grant.
// If the first grant fails, construction fails with an *AuthenticationError
func NewClient(config Config) (*Client, error) {
	client := &Client{
		oauthURL:    config.OAuthURL,
		productURL:  config.ProductURL,
		purchaseURL: config.PurchaseURL,
		imageURL:    config.ImageURL,

		clientID:     config.ClientID,
		clientSecret: config.ClientSecret,
		username:     config.Username,
		password:     config.Password,

		httpClient: config.HTTPClient,
		logger:     zerolog.Nop(),
	}

	if client.oauthURL == "" {
		client.oauthURL = DefaultOAuthURL
	}
	if client.productURL == "" {
		client.productURL = DefaultProductURL
	}
	if client.purchaseURL == "" {
		client.purchaseURL = DefaultPurchaseURL
	}
	if client.imageURL == "" {
		client.imageURL = DefaultImageURL
	}

	if client.httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		client.httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	if config.Logger != nil {
		client.logger = *config.Logger
	}

	// Authenticate eagerly so that a client that constructed successfully
	// is known to hold working credentials
	if err := client.Authenticate(); err != nil {
		return nil, err
	}

	return client, nil
}

// do runs the full request pipeline for a single authenticated call:
// ensure a fresh token, dispatch, retry once if the platform reports
// an expired access token, then decode the response into result.
//
// A nil result discards any response body.
// 2xx with an empty body is a successful empty result
func (c *Client) do(spec RequestSpec, result interface{}) error {
	res, body, err := c.dispatchAuthenticated(spec)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return NewRequestError(res.StatusCode, body)
	}

	if result == nil || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, result); err != nil {
		return NewDecodeError(spec.Method, spec.URL, err)
	}

	return nil
}

// dispatchAuthenticated dispatches the request with a fresh token,
// re-authenticating and re-dispatching exactly once
// if the platform rejects the token as expired mid-call.
// The second attempt's outcome (of any kind) is final.
//
// A 401 with any other error type is returned as-is,
// and transport failures are never retried
func (c *Client) dispatchAuthenticated(spec RequestSpec) (*http.Response, []byte, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Refresh proactively if the token is missing or past its expiry instant
	if c.accessToken == "" || !time.Now().Before(c.validUntil) {
		c.logger.Info().Msg("session expired; re-authenticating")
		if err := c.authenticate(); err != nil {
			return nil, nil, err
		}
	}

	res, body, err := c.dispatch(spec)
	if err != nil {
		return nil, nil, err
	}

	// The token can still lapse between our expiry check and the platform's.
	// Absorb that one race by re-authenticating and retrying the same request
	if res.StatusCode == http.StatusUnauthorized && errorType(body) == ErrorTypeAccessTokenExpired {
		c.logger.Info().Msg("access token rejected as expired; re-authenticating and retrying once")
		if err := c.authenticate(); err != nil {
			return nil, nil, err
		}

		return c.dispatch(spec)
	}

	return res, body, nil
}

// dispatch performs a single HTTP exchange for the given request spec,
// attaching the bearer authorization and content type headers.
// Callers must hold the mutex
func (c *Client) dispatch(spec RequestSpec) (*http.Response, []byte, error) {
	requestURL := spec.URL
	if len(spec.Query) > 0 {
		requestURL = fmt.Sprintf("%s?%s", requestURL, spec.Query.Encode())
	}

	var payload io.Reader
	if spec.Body != nil {
		encoded, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, nil, errors.Wrap(err, "could not encode the request body as JSON")
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(spec.Method, requestURL, payload)
	if err != nil {
		return nil, nil, err
	}

	// Attach a unique ID to each outbound request
	// so that its log lines can be correlated
	requestID := ksuid.New().String()
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", spec.Method).
		Str("url", requestURL).
		Msg("dispatching iZettle API request")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "request to %s failed", requestURL)
	}
	defer res.Body.Close()

	body, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not read the response from %s", requestURL)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Int("status", res.StatusCode).
		Msg("received iZettle API response")

	return res, body, nil
}
