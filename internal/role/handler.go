package role

import (
	"context"
	"net/http"

	"github.com/idlidosa1206/Fusion-System-Administrator/internal/transport"
)

type ServiceAPI interface {
	GetUserRoles(ctx context.Context, email string) (*UserRolesResponse, error)
	UpdateUserRoles(ctx context.Context, dto UpdateRolesDTO) (*UpdateRolesResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetUserRoles handles GET /users/roles?email=
func (h *Handler) GetUserRoles(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.GetUserRoles(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// UpdateUserRoles handles PUT /users/roles
func (h *Handler) UpdateUserRoles(w http.ResponseWriter, r *http.Request) {
	var dto UpdateRolesDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp, err := h.Service.UpdateUserRoles(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.Logger.Info("UpdateUserRoles: roles reconciled", "email", dto.Email, "added", len(resp.Added), "removed", len(resp.Removed))
	h.WriteJSON(w, http.StatusOK, resp)
}
