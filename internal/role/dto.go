package role

import (
	errors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/designation"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/user"
)

// UpdateRolesDTO is the PUT /users/roles body. Roles is nil when the key is absent,
// which is an error; an empty list removes every held role.
type UpdateRolesDTO struct {
	Email string      `json:"email"`
	Roles []RoleInput `json:"roles"`
}

func (dto UpdateRolesDTO) Validate() *errors.AppError {
	if dto.Email == "" || dto.Roles == nil {
		return errors.NewMissingFieldError("Email and roles are required.")
	}
	return nil
}

type UserRolesResponse struct {
	User  *user.User                `json:"user"`
	Roles []*designation.Designation `json:"roles"`
}

// UpdateRolesResponse reports what the reconciliation changed.
type UpdateRolesResponse struct {
	Message string   `json:"message"`
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}
