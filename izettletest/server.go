// Package izettletest implements an in-process fake of the iZettle platform
// (OAuth token endpoint plus the product, purchase, and image services)
// for use in tests and local development.
//
// The fake mints real signed JWTs as access tokens,
// enforces them on every resource route,
// and can expire or revoke outstanding tokens on demand
// so that clients' refresh behavior can be exercised deterministically
package izettletest

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/ironstar-io/chizerolog"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/jd-116/izettle-go/izettle"
)

// DefaultTokenLifetime matches the real platform's session length
const DefaultTokenLifetime = 7200 * time.Second

// Config contains the settings for the fake platform.
// The four credential fields are what the fake will accept
// on password grants; everything else has a default
type Config struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string

	// TokenLifetime is the expires_in value declared on every grant
	TokenLifetime time.Duration
	// Secret signs the minted JWT access tokens
	Secret []byte
	// Logger receives request logs (defaults to a no-op logger)
	Logger *zerolog.Logger
}

// Server is a fake iZettle platform.
// Mount its Router on an httptest.Server (or serve it directly)
// and point a client's URL overrides at it
type Server struct {
	clientID      string
	clientSecret  string
	username      string
	password      string
	tokenLifetime time.Duration
	secret        []byte
	auth          *jwtauth.JWTAuth
	logger        zerolog.Logger

	// Store holds the resource state and can be seeded directly by tests
	Store *Store

	// Guards the grant bookkeeping below
	mutex          sync.Mutex
	refreshTokens  map[string]bool
	liveTokens     map[string]bool
	expiredTokens  map[string]bool
	revokedTokens  map[string]bool
	passwordGrants int
	refreshGrants  int
}

// New creates a fake platform with the given settings
func New(config Config) *Server {
	tokenLifetime := config.TokenLifetime
	if tokenLifetime == 0 {
		tokenLifetime = DefaultTokenLifetime
	}

	secret := config.Secret
	if len(secret) == 0 {
		secret = []byte("izettle-fake-platform-signing-secret")
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Server{
		clientID:      config.ClientID,
		clientSecret:  config.ClientSecret,
		username:      config.Username,
		password:      config.Password,
		tokenLifetime: tokenLifetime,
		secret:        secret,
		auth:          jwtauth.New("HS256", secret, nil),
		logger:        logger,

		Store: NewStore(),

		refreshTokens: make(map[string]bool),
		liveTokens:    make(map[string]bool),
		expiredTokens: make(map[string]bool),
		revokedTokens: make(map[string]bool),
	}
}

// Router creates a new chi router with the token endpoint
// and all resource routes behind bearer authentication
func (s *Server) Router() *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer,                          // Recover from panics without crashing the server
		chizerolog.LoggerMiddleware(&s.logger),        // Log API request calls
		middleware.RedirectSlashes,                    // Redirect slashes to no slash URL versions
		render.SetContentType(render.ContentTypeJSON), // Set content-type headers to application/json
		s.corsMiddleware(),                            // Allow browser-based tools to talk to the fake
	)

	router.Post("/token", s.handleToken)

	// Resource routes require a valid bearer token
	router.Group(func(r chi.Router) {
		r.Use(jwtauth.Verify(s.auth, jwtauth.TokenFromHeader))
		r.Use(s.authenticator)

		r.Route("/organizations/self", func(r chi.Router) {
			r.Route("/products", func(r chi.Router) {
				r.Get("/", s.handleGetAllProducts)
				r.Post("/", s.handleCreateProduct)
				r.Delete("/", s.handleDeleteProducts)
				r.Get("/{uuid}", s.handleGetProduct)
				r.Delete("/{uuid}", s.handleDeleteProduct)
				r.Put("/v2/{uuid}", s.handleUpdateProduct)
				r.Post("/{uuid}/variants", s.handleCreateVariant)
				r.Put("/{uuid}/variants/{variantUUID}", s.handleUpdateVariant)
				r.Delete("/{uuid}/variants/{variantUUID}", s.handleDeleteVariant)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", s.handleGetAllCategories)
				r.Post("/", s.handleCreateCategory)
				r.Get("/{uuid}", s.handleGetCategory)
			})

			r.Route("/discounts", func(r chi.Router) {
				r.Get("/", s.handleGetAllDiscounts)
				r.Post("/", s.handleCreateDiscount)
				r.Get("/{uuid}", s.handleGetDiscount)
				r.Put("/{uuid}", s.handleUpdateDiscount)
				r.Delete("/{uuid}", s.handleDeleteDiscount)
			})
		})

		r.Get("/purchases/v2", s.handleListPurchases)
		r.Get("/purchase/v2/{uuid}", s.handleGetPurchase)

		r.Post("/v2/images/organizations/self/products", s.handleCreateImage)
	})

	return router
}

func (s *Server) corsMiddleware() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// GrantCounts returns how many password and refresh grants
// the token endpoint has served so far
func (s *Server) GrantCounts() (password int, refresh int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.passwordGrants, s.refreshGrants
}

// ExpireAccessTokens marks every outstanding access token as expired,
// so that the next call presenting one receives a 401
// with the ACCESS_TOKEN_EXPIRED error type.
// Tokens minted afterwards are unaffected
func (s *Server) ExpireAccessTokens() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for id := range s.liveTokens {
		s.expiredTokens[id] = true
	}
	s.liveTokens = make(map[string]bool)
}

// RevokeAccessTokens marks every outstanding access token as revoked,
// so that the next call presenting one receives a 401
// with an error type other than the expiry sentinel.
// Tokens minted afterwards are unaffected
func (s *Server) RevokeAccessTokens() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for id := range s.liveTokens {
		s.revokedTokens[id] = true
	}
	s.liveTokens = make(map[string]bool)
}

// handleToken implements the OAuth token endpoint
// for the password and refresh_token grant types
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.oauthError(w, "invalid_request", "The request body could not be parsed as a form")
		return
	}

	if r.PostFormValue("client_id") != s.clientID ||
		r.PostFormValue("client_secret") != s.clientSecret {
		s.oauthError(w, "invalid_client", "Unknown client credentials")
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch r.PostFormValue("grant_type") {
	case "password":
		if r.PostFormValue("username") != s.username ||
			r.PostFormValue("password") != s.password {
			s.oauthError(w, "invalid_grant", "Invalid username or password")
			return
		}
		s.passwordGrants++
	case "refresh_token":
		refreshToken := r.PostFormValue("refresh_token")
		if !s.refreshTokens[refreshToken] {
			s.oauthError(w, "invalid_grant", "Unknown or already-rotated refresh token")
			return
		}
		// Rotate: the presented refresh token is single-use
		delete(s.refreshTokens, refreshToken)
		s.refreshGrants++
	default:
		s.oauthError(w, "unsupported_grant_type",
			"Only the password and refresh_token grant types are supported")
		return
	}

	accessToken, err := s.mintAccessToken()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	refreshToken := ksuid.New().String()
	s.refreshTokens[refreshToken] = true

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int64(s.tokenLifetime / time.Second),
	})
}

// mintAccessToken signs a new JWT access token
// and registers its ID as live.
// Callers must hold the mutex
func (s *Server) mintAccessToken() (string, error) {
	now := time.Now()
	tokenID := ksuid.New().String()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": s.username,
		"jti": tokenID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenLifetime).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	s.liveTokens[tokenID] = true
	return signed, nil
}

// authenticator checks the verified bearer token from the request context,
// answering expired tokens with the platform's expiry sentinel error type
// and every other failure with a different one
func (s *Server) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token, _ := ctx.Value(jwtauth.TokenCtxKey).(*jwt.Token)
		err, _ := ctx.Value(jwtauth.ErrorCtxKey).(error)

		if err == jwtauth.ErrExpired {
			s.unauthorized(w, izettle.ErrorTypeAccessTokenExpired,
				"The provided access token has expired")
			return
		}

		if err != nil || token == nil || !token.Valid {
			s.unauthorized(w, "INVALID_ACCESS_TOKEN",
				"The provided access token could not be verified")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			s.unauthorized(w, "INVALID_ACCESS_TOKEN",
				"The provided access token carries no claims")
			return
		}
		tokenID, _ := claims["jti"].(string)

		s.mutex.Lock()
		expired := s.expiredTokens[tokenID]
		revoked := s.revokedTokens[tokenID]
		s.mutex.Unlock()

		if revoked {
			s.unauthorized(w, "ACCESS_TOKEN_REVOKED",
				"The provided access token has been revoked")
			return
		}

		if expired {
			s.unauthorized(w, izettle.ErrorTypeAccessTokenExpired,
				"The provided access token has expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// oauthError writes an OAuth-style error response
func (s *Server) oauthError(w http.ResponseWriter, code string, description string) {
	jsonResponse(w, http.StatusBadRequest, map[string]interface{}{
		"error":             code,
		"error_description": description,
	})
}

// unauthorized writes the platform's structured 401 response shape
func (s *Server) unauthorized(w http.ResponseWriter, errorType string, message string) {
	jsonResponse(w, http.StatusUnauthorized, map[string]interface{}{
		"errorType":        errorType,
		"developerMessage": message,
	})
}

// jsonResponse writes an arbitrary value as a JSON response body
func jsonResponse(w http.ResponseWriter, statusCode int, value interface{}) {
	encoded, err := json.Marshal(value)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(encoded)
}
