package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/okr-dashboard/internal"
)

// StaticCredentials is the demo login table: a fixed email to user id map
// sharing one bcrypt-hashed password. An empty password accepts any input.
type StaticCredentials struct {
	users        map[string]string
	passwordHash []byte
}

func NewStaticCredentials(emails map[string]string, demoPassword string, cost int) (*StaticCredentials, error) {
	users := make(map[string]string, len(emails))
	for email, id := range emails {
		users[normalizeEmail(email)] = id
	}

	sc := &StaticCredentials{users: users}
	if demoPassword == "" {
		return sc, nil
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	sc.passwordHash = hash
	return sc, nil
}

func (sc *StaticCredentials) Verify(email, password string) (string, error) {
	userID, ok := sc.users[normalizeEmail(email)]
	if !ok {
		return "", internal.ErrInvalidCredentials
	}
	if sc.passwordHash != nil {
		if err := bcrypt.CompareHashAndPassword(sc.passwordHash, []byte(password)); err != nil {
			return "", internal.ErrInvalidCredentials
		}
	}
	return userID, nil
}

// Emails lists the accepted logins.
func (sc *StaticCredentials) Emails() []string {
	out := make([]string, 0, len(sc.users))
	for email := range sc.users {
		out = append(out, email)
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
