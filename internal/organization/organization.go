package organization

import (
	"context"

	"github.com/frahmantamala/okr-dashboard/internal/core/org"
)

// Repository persists directory entries.
type Repository interface {
	ListUsers(ctx context.Context) ([]org.User, error)
	UpdateManager(ctx context.Context, memberID, managerID string) error
}

// UserView is one directory entry with its immediate reporting lines.
type UserView struct {
	org.User
	Manager       *org.User  `json:"manager,omitempty"`
	DirectReports []org.User `json:"direct_reports"`
}

type ChartResponse struct {
	View    org.View   `json:"view"`
	RootID  string     `json:"root_id,omitempty"`
	Members []org.User `json:"members"`
}

type AncestorsResponse struct {
	UserID    string     `json:"user_id"`
	Ancestors []org.User `json:"ancestors"`
}

type ReparentDTO struct {
	ManagerID string `json:"manager_id"`
}
