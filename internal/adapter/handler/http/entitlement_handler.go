package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
	"github.com/uxauditpro/backend/internal/middleware/auth"
	"github.com/uxauditpro/backend/internal/usecase"
)

type EntitlementHandler struct {
	entitlementService *usecase.EntitlementService
	logger             *zap.Logger
}

func NewEntitlementHandler(entitlementService *usecase.EntitlementService, logger *zap.Logger) *EntitlementHandler {
	return &EntitlementHandler{
		entitlementService: entitlementService,
		logger:             logger,
	}
}

type entitlementResponse struct {
	AccountID   string    `json:"account_id"`
	Plan        string    `json:"plan"`
	Role        string    `json:"role"`
	LastOrderID *string   `json:"last_order_id,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toEntitlementResponse(ent *model.Entitlement) entitlementResponse {
	resp := entitlementResponse{
		AccountID: ent.AccountID.String(),
		Plan:      string(ent.Plan),
		Role:      string(ent.Role),
		UpdatedAt: ent.UpdatedAt,
	}
	if ent.LastOrderID != nil {
		id := ent.LastOrderID.String()
		resp.LastOrderID = &id
	}
	return resp
}

// Get handles GET /api/v1/entitlements/:accountId. An account can read its
// own entitlement; admins can read any. The response is a display hint, so
// the cached read path is fine here.
func (h *EntitlementHandler) Get(c echo.Context) error {
	callerID, err := auth.GetAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	targetID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}

	if targetID != callerID {
		if _, err := h.entitlementService.RequireRole(c.Request().Context(), callerID, model.RoleAdmin); err != nil {
			return apperrors.ToHTTPError(err)
		}
	}

	ent, err := h.entitlementService.Get(c.Request().Context(), targetID)
	if err != nil {
		apperrors.LogError(h.logger, err, "Failed to get entitlement",
			zap.String("account_id", targetID.String()))
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, toEntitlementResponse(ent))
}

// List handles GET /api/v1/entitlements. Admin only; the role is re-derived
// from the store on every call.
func (h *EntitlementHandler) List(c echo.Context) error {
	callerID, err := auth.GetAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	if _, err := h.entitlementService.RequireRole(c.Request().Context(), callerID, model.RoleAdmin); err != nil {
		return apperrors.ToHTTPError(err)
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	ents, err := h.entitlementService.List(c.Request().Context(), limit, offset)
	if err != nil {
		apperrors.LogError(h.logger, err, "Failed to list entitlements")
		return apperrors.ToHTTPError(err)
	}

	resp := make([]entitlementResponse, 0, len(ents))
	for _, ent := range ents {
		resp = append(resp, toEntitlementResponse(ent))
	}

	return c.JSON(http.StatusOK, echo.Map{"entitlements": resp})
}
