package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Config struct {
	Secret        string        `env:"TOKEN_SECRET,required"`
	RefreshSecret string        `env:"TOKEN_REFRESH_SECRET,required"`
	Issuer        string        `env:"TOKEN_ISSUER" envDefault:"storefront"`
	AccessTTL     time.Duration `env:"TOKEN_ACCESS_TTL" envDefault:"1h"`
	RefreshTTL    time.Duration `env:"TOKEN_REFRESH_TTL" envDefault:"216h"`
}

// Tokens is the pair handed to the client. ExpiresAt belongs to the access token.
type Tokens struct {
	Access    string    `json:"access_token"`
	Refresh   string    `json:"refresh_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type JWTAuthenticator struct {
	cfg Config
	now func() time.Time
}

func NewJWTAuthenticator(cfg Config) *JWTAuthenticator {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = time.Hour * 24 * 9
	}
	return &JWTAuthenticator{cfg: cfg, now: time.Now}
}

// GenerateTokens generates both access and refresh tokens. Each token carries
// its own jti so two pairs issued in the same second differ.
func (a *JWTAuthenticator) GenerateTokens(subject, email string) (Tokens, error) {
	now := a.now()
	exp := now.Add(a.cfg.AccessTTL)

	accessClaims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"jti":   uuid.NewString(),
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"iss":   a.cfg.Issuer,
		"aud":   a.cfg.Issuer,
	}

	refreshClaims := jwt.MapClaims{
		"sub": subject,
		"jti": uuid.NewString(),
		"exp": now.Add(a.cfg.RefreshTTL).Unix(),
		"iat": now.Unix(),
		"iss": a.cfg.Issuer,
	}

	access, err := a.generateTokenWithClaims(accessClaims, a.cfg.Secret)
	if err != nil {
		return Tokens{}, err
	}

	refresh, err := a.generateTokenWithClaims(refreshClaims, a.cfg.RefreshSecret)
	if err != nil {
		return Tokens{}, err
	}

	return Tokens{Access: access, Refresh: refresh, ExpiresAt: time.Unix(exp.Unix(), 0)}, nil
}

func (a *JWTAuthenticator) generateTokenWithClaims(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken validates the access token
func (a *JWTAuthenticator) ValidateAccessToken(token string) (*jwt.Token, error) {
	return a.parse(token, a.cfg.Secret, jwt.WithAudience(a.cfg.Issuer))
}

// ValidateRefreshToken validates the refresh token
func (a *JWTAuthenticator) ValidateRefreshToken(token string) (*jwt.Token, error) {
	return a.parse(token, a.cfg.RefreshSecret)
}

func (a *JWTAuthenticator) parse(token, secret string, opts ...jwt.ParserOption) (*jwt.Token, error) {
	opts = append(opts,
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(a.cfg.Issuer),
		jwt.WithTimeFunc(a.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	return jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
}

// claimString reads a string claim from a validated token.
func claimString(token *jwt.Token, name string) (string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected claims type")
	}
	v, ok := claims[name].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("missing %s claim", name)
	}
	return v, nil
}

func claimExpiry(token *jwt.Token) time.Time {
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
