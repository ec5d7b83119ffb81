package rbac

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gatehouse-io/gatehouse/internal/platform/httpx"
	"github.com/gatehouse-io/gatehouse/internal/shared"
)

// superadminRole mirrors users.RoleSuperadmin without importing the package.
const superadminRole = "superadmin"

// PermissionsHandler exposes the elevated-only assignment surface.
type PermissionsHandler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewPermissionsHandler builds a PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, service *Service) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers assignment routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Post("/assign", h.assign)
}

type assignRequest struct {
	UserID       int64  `json:"user_id" validate:"required"`
	ResourceName string `json:"resource_name" validate:"required"`
	Permissions  string `json:"permissions" validate:"required"`
}

func (h *PermissionsHandler) assign(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil || !strings.EqualFold(identity.Role, superadminRole) {
		httpx.RespondError(w, shared.ErrForbidden)
		return
	}
	var req assignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if _, err := ParseActions(req.Permissions); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	record, err := h.service.Assign(r.Context(), req.UserID, req.ResourceName, req.Permissions)
	if err != nil {
		h.logger.Error("assign permissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}
