package izettle_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jd-116/izettle-go/izettle"
	"github.com/jd-116/izettle-go/izettletest"
)

const (
	testClientID     = "test-client-id"
	testClientSecret = "test-client-secret"
	testUsername     = "merchant@example.com"
	testPassword     = "test-password"
)

// newFixture starts a fake platform on an httptest server
// and returns it along with a client config pointing at it
func newFixture(t *testing.T, fakeConfig izettletest.Config) (*izettletest.Server, izettle.Config) {
	fakeConfig.ClientID = testClientID
	fakeConfig.ClientSecret = testClientSecret
	fakeConfig.Username = testUsername
	fakeConfig.Password = testPassword

	fake := izettletest.New(fakeConfig)
	server := httptest.NewServer(fake.Router())
	t.Cleanup(server.Close)

	return fake, izettle.Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Username:     testUsername,
		Password:     testPassword,

		OAuthURL:    server.URL + "/token",
		ProductURL:  server.URL + "/organizations/self",
		PurchaseURL: server.URL,
		ImageURL:    server.URL + "/v2/images/organizations/self/products",
	}
}

func TestNewClientAuthenticates(t *testing.T) {
	fake, config := newFixture(t, izettletest.Config{})

	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	password, refresh := fake.GrantCounts()
	assert.Equal(t, 1, password)
	assert.Equal(t, 0, refresh)

	// The expiry instant is the declared lifetime minus the safety margin
	expected := time.Now().Add(izettletest.DefaultTokenLifetime - 60*time.Second)
	assert.WithinDuration(t, expected, client.SessionValidUntil(), 2*time.Second)
}

func TestNewClientInvalidClientID(t *testing.T) {
	_, config := newFixture(t, izettletest.Config{})
	config.ClientID = "invalid"

	client, err := izettle.NewClient(config)
	assert.Nil(t, client)
	require.Error(t, err)

	authErr, ok := err.(*izettle.AuthenticationError)
	require.True(t, ok, "expected an *AuthenticationError, got %T", err)
	assert.Equal(t, http.StatusBadRequest, authErr.Status)
	assert.Equal(t, "Unknown client credentials", authErr.Diagnostic)
}

func TestNewClientInvalidPassword(t *testing.T) {
	_, config := newFixture(t, izettletest.Config{})
	config.Password = "wrong"

	_, err := izettle.NewClient(config)
	require.Error(t, err)

	authErr, ok := err.(*izettle.AuthenticationError)
	require.True(t, ok, "expected an *AuthenticationError, got %T", err)
	assert.Equal(t, http.StatusBadRequest, authErr.Status)
	assert.Equal(t, "Invalid username or password", authErr.Diagnostic)
}

func TestFreshSessionIsNotReauthenticated(t *testing.T) {
	fake, config := newFixture(t, izettletest.Config{})

	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	// Several calls before the expiry instant
	// must not issue any additional token grant
	for i := 0; i < 3; i++ {
		_, err := client.GetAllProducts()
		require.NoError(t, err)
	}

	password, refresh := fake.GrantCounts()
	assert.Equal(t, 1, password)
	assert.Equal(t, 0, refresh)
}

func TestExpiredSessionRefreshesBeforeCall(t *testing.T) {
	fake, config := newFixture(t, izettletest.Config{})

	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	// Force the stored expiry instant into the past;
	// the next call must perform exactly one refresh grant
	// before the resource call reaches the platform
	client.ExpireSession()

	_, err = client.GetAllProducts()
	require.NoError(t, err)

	password, refresh := fake.GrantCounts()
	assert.Equal(t, 1, password)
	assert.Equal(t, 1, refresh)
}

func TestRefreshTokenRotatesAcrossRefreshes(t *testing.T) {
	fake, config := newFixture(t, izettletest.Config{})

	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	// Each refresh rotates the refresh token;
	// a second forced expiry must still refresh cleanly
	for i := 0; i < 2; i++ {
		client.ExpireSession()
		_, err := client.GetAllProducts()
		require.NoError(t, err)
	}

	password, refresh := fake.GrantCounts()
	assert.Equal(t, 1, password)
	assert.Equal(t, 2, refresh)
}

func TestRefreshUpdatesExpiryInstant(t *testing.T) {
	_, config := newFixture(t, izettletest.Config{TokenLifetime: 300 * time.Second})

	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	client.ExpireSession()
	assert.True(t, client.SessionValidUntil().IsZero())

	_, err = client.GetAllProducts()
	require.NoError(t, err)

	// The new expiry instant is call time plus the declared lifetime
	// minus the safety margin, strictly in the future
	validUntil := client.SessionValidUntil()
	assert.True(t, validUntil.After(time.Now()))
	assert.WithinDuration(t, time.Now().Add(240*time.Second), validUntil, 2*time.Second)
}

func TestRejectedTokenRetriesExactlyOnce(t *testing.T) {
	fake, config := newFixture(t, izettletest.Config{})

	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	// The platform rejects the token as expired
	// even though the client still considers it fresh.
	// The client must absorb the 401 with one re-authentication
	// and one re-dispatch of the identical request
	fake.ExpireAccessTokens()

	_, err = client.GetAllProducts()
	require.NoError(t, err)

	password, refresh := fake.GrantCounts()
	assert.Equal(t, 1, password)
	assert.Equal(t, 1, refresh)
}

func TestRejectedTokenRetrySurfacesSecondFailure(t *testing.T) {
	fake, config := newFixture(t, izettletest.Config{})

	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	fake.ExpireAccessTokens()

	// The first attempt fails with the expiry sentinel
	// and the retried attempt fails with a 404;
	// the caller must see the 404, not the 401
	_, err = client.GetProduct("00000000-0000-0000-0000-000000000000")
	require.Error(t, err)

	requestErr, ok := err.(*izettle.RequestError)
	require.True(t, ok, "expected a *RequestError, got %T", err)
	assert.Equal(t, http.StatusNotFound, requestErr.Status)

	password, refresh := fake.GrantCounts()
	assert.Equal(t, 1, password)
	assert.Equal(t, 1, refresh)
}

func TestNonExpiry401IsNotRetried(t *testing.T) {
	fake, config := newFixture(t, izettletest.Config{})

	client, err := izettle.NewClient(config)
	require.NoError(t, err)

	// A 401 with any error type other than the expiry sentinel
	// must surface immediately with no re-authentication
	fake.RevokeAccessTokens()

	_, err = client.GetAllProducts()
	require.Error(t, err)

	requestErr, ok := err.(*izettle.RequestError)
	require.True(t, ok, "expected a *RequestError, got %T", err)
	assert.Equal(t, http.StatusUnauthorized, requestErr.Status)
	assert.Equal(t, "The provided access token has been revoked", requestErr.Diagnostic)

	password, refresh := fake.GrantCounts()
	assert.Equal(t, 1, password)
	assert.Equal(t, 0, refresh)
}

func TestUndecodableSuccessResponse(t *testing.T) {
	// A platform that reports success but returns a body
	// that is not JSON is a contract violation for that call,
	// surfaced as a decode failure rather than a RequestError
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "token", "refresh_token": "refresh", "expires_in": 7200}`))
	})
	mux.HandleFunc("/organizations/self/products", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := izettle.NewClient(izettle.Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Username:     testUsername,
		Password:     testPassword,
		OAuthURL:     server.URL + "/token",
		ProductURL:   server.URL + "/organizations/self",
	})
	require.NoError(t, err)

	_, err = client.GetAllProducts()
	require.Error(t, err)

	_, ok := err.(*izettle.DecodeError)
	require.True(t, ok, "expected a *DecodeError, got %T", err)
}

func TestTransportFailurePropagates(t *testing.T) {
	fake := izettletest.New(izettletest.Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Username:     testUsername,
		Password:     testPassword,
	})
	server := httptest.NewServer(fake.Router())

	client, err := izettle.NewClient(izettle.Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Username:     testUsername,
		Password:     testPassword,
		OAuthURL:     server.URL + "/token",
		ProductURL:   server.URL + "/organizations/self",
	})
	require.NoError(t, err)

	// With the platform gone, a call fails at the transport level.
	// That failure propagates as-is: it is neither of the two
	// structured API error kinds and triggers no re-authentication
	server.Close()

	_, err = client.GetAllProducts()
	require.Error(t, err)

	_, isAuthErr := err.(*izettle.AuthenticationError)
	assert.False(t, isAuthErr, "a transport failure is not an AuthenticationError")
	_, isRequestErr := err.(*izettle.RequestError)
	assert.False(t, isRequestErr, "a transport failure is not a RequestError")

	password, refresh := fake.GrantCounts()
	assert.Equal(t, 1, password)
	assert.Equal(t, 0, refresh)
}
