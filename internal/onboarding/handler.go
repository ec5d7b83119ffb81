package onboarding

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gatehouse-io/gatehouse/internal/platform/httpx"
	"github.com/gatehouse-io/gatehouse/internal/rbac"
	"github.com/gatehouse-io/gatehouse/internal/shared"
)

// Handler exposes the superadmin approval endpoint.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers onboarding routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/approve-and-assign", h.approveAndAssign)
}

type approveRequest struct {
	UserID         int64   `json:"user_id" validate:"required"`
	Role           string  `json:"role" validate:"required"`
	ApprovalSecret string  `json:"approval_secret" validate:"required"`
	Resources      []Grant `json:"resources" validate:"dive"`
}

type approveResponse struct {
	Message   string  `json:"message"`
	Role      string  `json:"role"`
	IsActive  bool    `json:"is_active"`
	Resources []Grant `json:"resources"`
}

func (h *Handler) approveAndAssign(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	for _, grant := range req.Resources {
		if _, err := rbac.ParseActions(grant.Permissions); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
	}
	caller := shared.IdentityFromContext(r.Context())
	target, err := h.service.ApproveAndAssign(r.Context(), caller, req.UserID, req.Role, req.ApprovalSecret, req.Resources)
	if err != nil {
		h.logger.Warn("approve and assign", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, approveResponse{
		Message:   "User " + target.Email + " approved, activated, and resources assigned",
		Role:      target.Role,
		IsActive:  target.IsActive,
		Resources: req.Resources,
	})
}
