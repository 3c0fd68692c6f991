package designation

import (
	"context"
	"net/http"

	"github.com/idlidosa1206/Fusion-System-Administrator/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListDesignations(ctx context.Context) ([]*Designation, error)
	GetDesignation(ctx context.Context, name string) (*Designation, error)
	CreateDesignation(ctx context.Context, dto CreateDesignationDTO) (*CreatedDesignationResponse, error)
	UpdateDesignation(ctx context.Context, dto UpdateDesignationDTO, partial bool) (*Designation, error)
	DeleteDesignation(ctx context.Context, name string) (*MessageResponse, error)
	GetModuleAccess(ctx context.Context, name string) (*ModuleAccess, error)
	UpdateModuleAccess(ctx context.Context, dto UpdateModuleAccessDTO) (*ModuleAccess, error)
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

// ListDesignations handles GET /designations
func (h *Handler) ListDesignations(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Service.ListDesignations(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ds)
}

// GetDesignation handles GET /designations/{name}
func (h *Handler) GetDesignation(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.GetDesignation(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, d)
}

// CreateDesignation handles POST /designations
func (h *Handler) CreateDesignation(w http.ResponseWriter, r *http.Request) {
	var dto CreateDesignationDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	created, err := h.Service.CreateDesignation(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

// UpdateDesignation handles PUT and PATCH /designations with the name in the body.
func (h *Handler) UpdateDesignation(w http.ResponseWriter, r *http.Request) {
	var dto UpdateDesignationDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	d, err := h.Service.UpdateDesignation(r.Context(), dto, r.Method == http.MethodPatch)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, d)
}

// DeleteDesignation handles DELETE /designations with the name in the body.
func (h *Handler) DeleteDesignation(w http.ResponseWriter, r *http.Request) {
	var dto DeleteDesignationDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp, err := h.Service.DeleteDesignation(r.Context(), dto.Name)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// GetModuleAccess handles GET /module-access?designation=
func (h *Handler) GetModuleAccess(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.GetModuleAccess(r.Context(), r.URL.Query().Get("designation"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}

// UpdateModuleAccess handles PUT /module-access
func (h *Handler) UpdateModuleAccess(w http.ResponseWriter, r *http.Request) {
	var dto UpdateModuleAccessDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	m, err := h.Service.UpdateModuleAccess(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}
