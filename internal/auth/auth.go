package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/okr-dashboard/internal/core/org"
	"github.com/frahmantamala/okr-dashboard/internal/permission"
)

// DirectorySource yields the current org directory snapshot. The
// organization service implements it.
type DirectorySource interface {
	Snapshot() *org.Directory
}

// CredentialVerifier resolves a login to a directory user id.
type CredentialVerifier interface {
	Verify(email, password string) (userID string, err error)
}

// TokenGenerator issues and validates session tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID string) (token string, claims *Claims, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// ServiceAPI is what the handler and middleware need from the service.
type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*org.User, error)
	Capabilities(actor *org.User) permission.Capabilities
}

// Claims are the JWT claims of a session. The subject is the directory user
// id and the token id is used for revocation.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret         []byte
	Issuer         string
	AccessTokenTTL time.Duration
}

type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        org.User  `json:"user"`
}
