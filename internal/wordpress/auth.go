package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	// fallbackTokenLifetime applies when a token carries no readable expiry.
	fallbackTokenLifetime = 55 * time.Minute
	// tokenRefreshMargin renews tokens this long before they expire.
	tokenRefreshMargin = 5 * time.Minute
)

const loginMutation = `
  mutation LoginUser($username: String!, $password: String!) {
    login(input: { username: $username, password: $password }) {
      authToken
      refreshToken
      user {
        id
        name
      }
    }
  }
`

type loginResponse struct {
	Login *struct {
		AuthToken    string `json:"authToken"`
		RefreshToken string `json:"refreshToken"`
	} `json:"login"`
}

// Authenticator obtains and caches a JWT for authenticated queries.
type Authenticator struct {
	endpoint   string
	username   string
	password   string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewAuthenticator returns an Authenticator for endpoint. Without both
// credentials it never attempts a login.
func NewAuthenticator(endpoint, username, password string, httpClient *http.Client, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{
		endpoint:   endpoint,
		username:   username,
		password:   password,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// Token returns a valid token, logging in again when none is cached or the
// cached one has reached its refresh time. It returns "" when credentials
// are missing or the login fails.
func (a *Authenticator) Token(ctx context.Context) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && a.now().Before(a.expiry) {
		return a.token
	}
	if a.username == "" || a.password == "" {
		return ""
	}

	token, err := a.login(ctx)
	if err != nil {
		a.logger.Warn("wordpress login failed", zap.Error(err))
		return ""
	}
	a.token = token
	a.expiry = a.expiryFor(token)
	a.logger.Debug("wordpress token refreshed", zap.Time("expires", a.expiry))
	return token
}

func (a *Authenticator) login(ctx context.Context) (string, error) {
	data, err := postGraphQL(ctx, a.httpClient, a.endpoint, nil, loginMutation, map[string]any{
		"username": a.username,
		"password": a.password,
	})
	if err != nil {
		return "", err
	}

	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}
	if resp.Login == nil || resp.Login.AuthToken == "" {
		return "", errors.New("login returned no auth token")
	}
	return resp.Login.AuthToken, nil
}

// expiryFor reads the exp claim without verifying the signature and
// schedules a refresh ahead of it.
func (a *Authenticator) expiryFor(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time.Add(-tokenRefreshMargin)
		}
	}
	return a.now().Add(fallbackTokenLifetime)
}
