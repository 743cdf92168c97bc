package superset

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// GuestResource identifies one embeddable resource covered by a guest token,
// e.g. {Type: "dashboard", ID: "<embed uuid>"}. Resources are passed as a
// slice so the request preserves caller order.
type GuestResource struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// AuthService manages the three bearer-token slots (access, CSRF, guest) and
// registers their header side effects on the transport. Tokens are
// last-write-wins and never expire from the client's point of view.
type AuthService struct {
	transport Transport
	urls      *URLBuilder
	logger    zerolog.Logger

	accessToken string
	csrfToken   string
	guestToken  string
}

// NewAuthService returns an unauthenticated service bound to transport and
// urls.
func NewAuthService(transport Transport, urls *URLBuilder, logger zerolog.Logger) *AuthService {
	return &AuthService{transport: transport, urls: urls, logger: logger}
}

// Authenticate logs in against security/login with the db provider and
// stores the returned access token. On success the Authorization default
// header is registered on the transport.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) error {
	response, err := s.transport.Post(ctx, s.urls.Build("security/login"), map[string]any{
		"username": username,
		"password": password,
		"provider": "db",
		"refresh":  true,
	}, s.refererHeader())
	if err != nil {
		return err
	}

	token, err := s.extractToken(response, "access_token")
	if err != nil {
		return err
	}
	s.SetAccessToken(token)
	return nil
}

// SetAccessToken stores token directly and registers the Authorization
// default header. It returns the service for chaining.
func (s *AuthService) SetAccessToken(token string) *AuthService {
	s.accessToken = token
	s.transport.AddDefaultHeader("Authorization", "Bearer "+token)
	return s
}

// AccessToken returns the current access token, or "" when not
// authenticated.
func (s *AuthService) AccessToken() string {
	return s.accessToken
}

// RequestCSRFToken fetches an anti-forgery token from security/csrf_token/
// and registers the X-CSRFToken default header.
func (s *AuthService) RequestCSRFToken(ctx context.Context) (string, error) {
	response, err := s.transport.Get(ctx, s.urls.Build("security/csrf_token/"), nil, s.refererHeader())
	if err != nil {
		return "", err
	}

	token, ok := response["result"].(string)
	if !ok {
		return "", newError(s.logger, KindAuthentication, "Failed to get CSRF token", 401, nil,
			map[string]any{"response": response})
	}

	s.csrfToken = token
	s.transport.AddDefaultHeader("X-CSRFToken", token)
	return token, nil
}

// CSRFToken returns the CSRF token if previously requested, or "".
func (s *AuthService) CSRFToken() string {
	return s.csrfToken
}

// CreateGuestToken requests a scoped embed token for the given resources.
// The rls clauses are passed through opaquely; nil means no row-level
// security. The returned token is stored but never auto-injected as a
// header, since guest tokens are consumed by embedding frontends rather
// than by this client.
func (s *AuthService) CreateGuestToken(ctx context.Context, user GuestUserConfig, resources []GuestResource, rls []map[string]any) (string, error) {
	wireResources := make([]map[string]any, 0, len(resources))
	for _, r := range resources {
		wireResources = append(wireResources, map[string]any{"type": r.Type, "id": r.ID})
	}
	if rls == nil {
		rls = []map[string]any{}
	}

	response, err := s.transport.Post(ctx, s.urls.Build("security/guest_token"), map[string]any{
		"resources": wireResources,
		"user":      user.Attributes(),
		"rls":       rls,
	}, s.refererHeader())
	if err != nil {
		return "", err
	}

	token, err := s.extractToken(response, "token")
	if err != nil {
		return "", err
	}
	s.guestToken = token
	return token, nil
}

// GuestToken returns the guest token if previously created, or "".
func (s *AuthService) GuestToken() string {
	return s.guestToken
}

// IsAuthenticated reports whether an access token is set.
func (s *AuthService) IsAuthenticated() bool {
	return s.accessToken != ""
}

func (s *AuthService) refererHeader() map[string]string {
	return map[string]string{"Referer": s.urls.BaseURL()}
}

func (s *AuthService) extractToken(response map[string]any, key string) (string, error) {
	token, ok := response[key].(string)
	if !ok {
		return "", newError(s.logger, KindAuthentication,
			fmt.Sprintf("Authentication failed: No %s received", key), 401, nil,
			map[string]any{"response": response})
	}
	return token, nil
}
