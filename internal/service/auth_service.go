package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/idealab-pce/idealab-api/internal/authz"
	"github.com/idealab-pce/idealab-api/internal/models"
	appErrors "github.com/idealab-pce/idealab-api/pkg/errors"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type overlordLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.Overlord, error)
}

type stateStore interface {
	Put(ctx context.Context, state string, ttl time.Duration) error
	Consume(ctx context.Context, state string) (bool, error)
}

// AuthConfig carries the sign-in policy knobs for AuthService.
type AuthConfig struct {
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	StateTTL      time.Duration
	SessionSecret string
	SessionExpiry time.Duration
	AllowedDomain string
}

// AuthService resolves Google sign-ins to local users and manages the
// session tokens that every authenticated request carries.
type AuthService struct {
	users       authUserRepository
	overlords   overlordLookup
	states      stateStore
	authority   *authz.Authority
	oauth       *oauth2.Config
	userInfoURL string
	cfg         AuthConfig
	logger      *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users authUserRepository, overlords overlordLookup, states stateStore, authority *authz.Authority, cfg AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
	return &AuthService{
		users:       users,
		overlords:   overlords,
		states:      states,
		authority:   authority,
		oauth:       oauthCfg,
		userInfoURL: googleUserInfoURL,
		cfg:         cfg,
		logger:      logger,
	}
}

// LoginURL issues a one-time state nonce and returns the provider consent URL.
func (s *AuthService) LoginURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	ttl := s.cfg.StateTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if err := s.states.Put(ctx, state, ttl); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store sign-in state")
	}
	return s.oauth.AuthCodeURL(state), nil
}

// HandleCallback validates the state nonce, exchanges the authorization code
// and resolves the provider identity to a local user plus a session token.
func (s *AuthService) HandleCallback(ctx context.Context, state, code string) (*models.User, string, error) {
	if state == "" || code == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "state and code are required")
	}
	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify sign-in state")
	}
	if !ok {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired sign-in state")
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("oauth code exchange failed", zap.Error(err))
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "authorization code could not be exchanged")
	}

	email, name, err := s.fetchIdentity(ctx, token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch provider identity")
	}

	user, err := s.ResolveSignIn(ctx, email, name)
	if err != nil {
		return nil, "", err
	}

	session, err := s.IssueSession(user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, session, nil
}

// ResolveSignIn applies the access policy to a verified provider email and
// returns the matching user, creating it on first sign-in.
func (s *AuthService) ResolveSignIn(ctx context.Context, email, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrAccessDenied, "")
	}

	allowed := strings.HasSuffix(email, "@"+s.cfg.AllowedDomain) || s.authority.IsBypassEmail(email)
	if !allowed {
		if _, err := s.overlords.FindByEmail(ctx, email); err == nil {
			allowed = true
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check sign-in allowlist")
		}
	}
	if !allowed {
		s.logger.Info("sign-in rejected", zap.String("email", email))
		return nil, appErrors.Clone(appErrors.ErrAccessDenied, "")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	user = &models.User{
		Email:    email,
		FullName: strings.TrimSpace(name),
		RegID:    regIDFromEmail(email),
		Role:     models.RoleStudent,
	}
	if user.FullName == "" {
		user.FullName = user.RegID
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	s.logger.Info("created user on first sign-in", zap.String("email", email))
	return user, nil
}

// IssueSession signs a session token that carries only the user's email. The
// role is never embedded so promotions and demotions take effect on the very
// next request.
func (s *AuthService) IssueSession(email string) (string, error) {
	expiry := s.cfg.SessionExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	now := time.Now()
	claims := models.SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}
	return signed, nil
}

// ValidateSession parses and verifies a session token.
func (s *AuthService) ValidateSession(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.SessionSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
	}
	return claims, nil
}

// CurrentUser re-reads the session subject from the database.
func (s *AuthService) CurrentUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session subject no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session user")
	}
	return user, nil
}

func (s *AuthService) fetchIdentity(ctx context.Context, token *oauth2.Token) (string, string, error) {
	client := s.oauth.Client(ctx, token)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return "", "", fmt.Errorf("request userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var payload struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", fmt.Errorf("decode userinfo: %w", err)
	}
	return payload.Email, payload.Name, nil
}

func regIDFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
