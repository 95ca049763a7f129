package auth

import (
	"github.com/frahmantamala/okr-dashboard/internal"
	"github.com/frahmantamala/okr-dashboard/internal/core/common/validation"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
	"github.com/frahmantamala/okr-dashboard/internal/permission"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().MaxLength(255)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type MeResponse struct {
	User         org.User                `json:"user"`
	Manager      *org.User               `json:"manager,omitempty"`
	Capabilities permission.Capabilities `json:"capabilities"`
}

type PermissionsResponse struct {
	UserID       string                  `json:"user_id"`
	Capabilities permission.Capabilities `json:"capabilities"`
}

var errMissingToken = internal.NewUnauthorizedError("Missing authorization token", internal.ErrCodeInvalidToken)
