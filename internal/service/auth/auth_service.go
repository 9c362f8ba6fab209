package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"busfee/internal/pkg/apperrors"
	"busfee/internal/pkg/config"
	"busfee/internal/pkg/log_messages"
	"busfee/internal/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "busfee"

type Claims struct {
	jwt.RegisteredClaims
}

type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	ValidateToken(token string) (*Claims, error)
	SessionTTL() time.Duration
}

// AuthService checks the single admin account and issues HS256 session tokens.
type AuthService struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

var _ AuthServiceInterface = (*AuthService)(nil)

// NewAuthService hashes cfg.Password when no hash is configured.
func NewAuthService(cfg config.AuthConfig) (*AuthService, error) {
	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 {
		generated, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", log_messages.ErrorHashingPassword, err)
		}
		hash = generated
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthService{
		username:     cfg.Username,
		passwordHash: hash,
		secret:       []byte(cfg.JWTSecret),
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

func (a *AuthService) SessionTTL() time.Duration {
	return a.ttl
}

func (a *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		logger.CtxWarn(ctx, log_messages.LoginFailed, slog.String("username", username))
		return nil, apperrors.ErrUnauthorized
	}

	now := a.now()
	expires := now.Add(a.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.username,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, log_messages.LoginSucceeded, slog.String("username", username))
	return &Session{Token: token, Username: a.username, ExpiresAt: expires}, nil
}

func (a *AuthService) ValidateToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject != a.username {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}
