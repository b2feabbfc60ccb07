package auth

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/admins"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Session is an authenticated admin.
type Session struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
	Tokens  Tokens `json:"-"`
}

// Admins is the part of the admin store the service reads.
type Admins interface {
	GetByEmail(ctx context.Context, email string) (*admins.Admin, error)
	GetByID(ctx context.Context, id string) (*admins.Admin, error)
}

// Service is the identity service behind the admin login.
type Service struct {
	tokens  *JWTAuthenticator
	refresh RefreshStore
	admins  Admins
	logger  *zap.SugaredLogger
}

func NewService(tokens *JWTAuthenticator, refresh RefreshStore, store Admins, logger *zap.SugaredLogger) *Service {
	return &Service{tokens: tokens, refresh: refresh, admins: store, logger: logger}
}

// SignInWithPassword checks the credentials and opens a session. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, admins.ErrNotFound) {
			s.logger.Errorw("admin lookup failed", "error", err)
		}
		return nil, ErrInvalidCredentials
	}
	if err := admin.Password.Compare(password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, admin.ID, admin.Email)
}

// GetSession resolves the tokens a client presented. A valid access token is
// accepted as is. Otherwise the refresh token is rotated: it must still be
// stored, it is revoked and a new pair is issued. refreshed reports rotation.
// ErrNoSession means the tokens are no good; any other error is a backend failure.
func (s *Service) GetSession(ctx context.Context, tokens Tokens) (sess *Session, refreshed bool, err error) {
	if tokens.Access != "" {
		if tok, err := s.tokens.ValidateAccessToken(tokens.Access); err == nil {
			sub, errSub := claimString(tok, "sub")
			email, errEmail := claimString(tok, "email")
			if errSub == nil && errEmail == nil {
				tokens.ExpiresAt = claimExpiry(tok)
				return &Session{AdminID: sub, Email: email, Tokens: tokens}, false, nil
			}
		}
	}
	if tokens.Refresh == "" {
		return nil, false, ErrNoSession
	}

	tok, err := s.tokens.ValidateRefreshToken(tokens.Refresh)
	if err != nil {
		return nil, false, ErrNoSession
	}
	jti, sub, err := refreshIdentity(tok)
	if err != nil {
		return nil, false, ErrNoSession
	}

	stored, err := s.refresh.Take(ctx, jti)
	if err != nil {
		if errors.Is(err, ErrRefreshRevoked) {
			return nil, false, ErrNoSession
		}
		return nil, false, err
	}
	if stored != sub {
		return nil, false, ErrNoSession
	}

	admin, err := s.admins.GetByID(ctx, sub)
	if err != nil {
		if errors.Is(err, admins.ErrNotFound) {
			return nil, false, ErrNoSession
		}
		return nil, false, fmt.Errorf("load admin: %w", err)
	}

	sess, err = s.issue(ctx, admin.ID, admin.Email)
	if err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

// SignOut revokes the session's refresh token. A token that is already gone is not an error.
func (s *Service) SignOut(ctx context.Context, sess *Session) error {
	if sess == nil || sess.Tokens.Refresh == "" {
		return nil
	}
	tok, err := s.tokens.ValidateRefreshToken(sess.Tokens.Refresh)
	if err != nil {
		return nil
	}
	jti, _, err := refreshIdentity(tok)
	if err != nil {
		return nil
	}
	return s.refresh.Delete(ctx, jti)
}

func (s *Service) issue(ctx context.Context, id, email string) (*Session, error) {
	pair, err := s.tokens.GenerateTokens(id, email)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}
	tok, err := s.tokens.ValidateRefreshToken(pair.Refresh)
	if err != nil {
		return nil, fmt.Errorf("read refresh token: %w", err)
	}
	jti, _, err := refreshIdentity(tok)
	if err != nil {
		return nil, err
	}
	if err := s.refresh.Save(ctx, jti, id, s.tokens.cfg.RefreshTTL); err != nil {
		return nil, err
	}
	return &Session{AdminID: id, Email: email, Tokens: pair}, nil
}

func refreshIdentity(tok *jwt.Token) (jti, sub string, err error) {
	if jti, err = claimString(tok, "jti"); err != nil {
		return "", "", err
	}
	if sub, err = claimString(tok, "sub"); err != nil {
		return "", "", err
	}
	return jti, sub, nil
}
