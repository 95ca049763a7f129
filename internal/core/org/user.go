package org

import "fmt"

type Role string

const (
	RoleCEO     Role = "ceo"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
	RoleHR      Role = "hr"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCEO, RoleManager, RoleUser, RoleHR:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// User is a member of the organization directory. ManagerID is empty for the
// root of the reporting hierarchy. IsAdmin is independent of Role.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Role       Role   `json:"role"`
	ManagerID  string `json:"manager_id,omitempty"`
	IsAdmin    bool   `json:"is_admin"`
	Department string `json:"department,omitempty"`
}

func (u User) HasManager() bool {
	return u.ManagerID != ""
}
