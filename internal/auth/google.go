// Package auth implements Google sign-in. A successful callback provisions
// the user's profile and hands the frontend a signed session token.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"career-backend/internal/profiles"
	sharedauth "career-backend/internal/shared/auth"
	"career-backend/internal/shared/server/respond"
	"career-backend/internal/shared/telemetry"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// IdentityStore provisions the profile for a signed-in identity.
type IdentityStore interface {
	EnsureFromIdentity(ctx context.Context, ident profiles.Identity) (profiles.Profile, error)
}

// GoogleService handles the Google OAuth code flow.
type GoogleService struct {
	oauthConfig *oauth2.Config
	profiles    IdentityStore
	frontendURL string
	userInfoURL string
	stateTTL    time.Duration
	states      *stateStore
}

func NewGoogleService(clientID, clientSecret, redirectURL, frontendURL string, store IdentityStore) *GoogleService {
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		profiles:    store,
		frontendURL: frontendURL,
		userInfoURL: defaultUserInfoURL,
		stateTTL:    5 * time.Minute,
		states:      newStateStore(),
	}
}

// Configured reports whether client credentials are present.
func (s *GoogleService) Configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.Configured() {
		respond.Error(c, http.StatusServiceUnavailable, "auth_not_configured", "Google auth not configured", nil)
		return
	}
	state := uuid.NewString()
	s.states.put(state, time.Now().Add(s.stateTTL))
	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state))
}

func (s *GoogleService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}
	if !s.states.consume(state, time.Now()) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		telemetry.Warn("auth.google.exchange_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil || info.Sub == "" || info.Email == "" {
		telemetry.Warn("auth.google.userinfo_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}

	profile, err := s.profiles.EnsureFromIdentity(ctx, profiles.Identity{
		Subject: "google:" + info.Sub,
		Email:   info.Email,
		Name:    info.Name,
	})
	if err != nil {
		respond.Internal(c, "failed to load profile", err)
		return
	}

	jwt, err := sharedauth.SignJWT(sharedauth.Claims{
		Sub:     profile.ID,
		Email:   profile.Email,
		Name:    profile.Name,
		Picture: info.Picture,
		Role:    profile.Role,
	})
	if err != nil {
		respond.Internal(c, "failed to issue token", err)
		return
	}

	target, err := callbackURL(s.frontendURL, jwt)
	if err != nil {
		respond.Internal(c, "failed to redirect", err)
		return
	}
	telemetry.Info("auth.google.signed_in", map[string]any{"user_id": profile.ID})
	c.Redirect(http.StatusFound, target)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	resp, err := s.oauthConfig.Client(ctx, token).Get(s.userInfoURL)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	// v2 userinfo returns "id"
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return info, nil
}

type stateStore struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]time.Time)}
}

func (s *stateStore) put(state string, exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, v := range s.items {
		if now.After(v) {
			delete(s.items, k)
		}
	}
	s.items[state] = exp
}

// consume is single use: a state is removed whether or not it has expired.
func (s *stateStore) consume(state string, now time.Time) bool {
	s.mu.Lock()
	exp, ok := s.items[state]
	delete(s.items, state)
	s.mu.Unlock()
	return ok && !now.After(exp)
}

func callbackURL(frontendURL, token string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(frontendURL), "/")
	if base == "" {
		return "", errors.New("frontend url required")
	}
	u, err := url.Parse(base + "/auth/callback")
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
