package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/okr-dashboard/internal"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
	"github.com/frahmantamala/okr-dashboard/internal/permission"
)

// Service signs actors in against the static credential table and resolves
// session tokens back to directory users.
type Service struct {
	credentials CredentialVerifier
	tokens      TokenGenerator
	directory   DirectorySource
	checker     permission.Checker
	logger      *slog.Logger

	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewService(credentials CredentialVerifier, tokens TokenGenerator, directory DirectorySource, checker permission.Checker, logger *slog.Logger) *Service {
	return &Service{
		credentials: credentials,
		tokens:      tokens,
		directory:   directory,
		checker:     checker,
		logger:      logger,
		revoked:     make(map[string]time.Time),
		now:         time.Now,
	}
}

var _ ServiceAPI = (*Service)(nil)

// Login verifies credentials and issues a session for a user that exists in
// the current directory.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	userID, err := s.credentials.Verify(dto.Email, dto.Password)
	if err != nil {
		s.logger.InfoContext(ctx, "login rejected", "email", dto.Email)
		return nil, err
	}

	user, ok := s.directory.Snapshot().FindUser(userID)
	if !ok {
		s.logger.WarnContext(ctx, "login for user missing from directory", "user_id", userID)
		return nil, internal.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, internal.NewInternalError("Failed to issue session", err)
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID, "role", user.Role)
	return &Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        user,
	}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.validate(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.revoked[claims.ID] = claims.ExpiresAt.Time

	s.logger.InfoContext(ctx, "user logged out", "user_id", claims.UserID)
	return nil
}

// Authenticate resolves token to the directory user it was issued for. The
// user is looked up on every call so directory changes apply immediately.
func (s *Service) Authenticate(ctx context.Context, token string) (*org.User, error) {
	claims, err := s.validate(token)
	if err != nil {
		return nil, err
	}

	user, ok := s.directory.Snapshot().FindUser(claims.UserID)
	if !ok {
		s.logger.WarnContext(ctx, "token subject missing from directory", "user_id", claims.UserID)
		return nil, internal.ErrInvalidToken
	}
	return &user, nil
}

func (s *Service) Capabilities(actor *org.User) permission.Capabilities {
	return permission.CapabilitiesOf(s.checker, actor)
}

func (s *Service) validate(token string) (*Claims, error) {
	if token == "" {
		return nil, errMissingToken
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) pruneLocked() {
	now := s.now()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
}
