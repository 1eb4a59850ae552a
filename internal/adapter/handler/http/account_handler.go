package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
	"github.com/uxauditpro/backend/internal/middleware/auth"
	"github.com/uxauditpro/backend/internal/usecase"
)

type AccountHandler struct {
	accountService     *usecase.AccountService
	entitlementService *usecase.EntitlementService
	logger             *zap.Logger
}

func NewAccountHandler(accountService *usecase.AccountService, entitlementService *usecase.EntitlementService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accountService:     accountService,
		entitlementService: entitlementService,
		logger:             logger,
	}
}

type signupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=100"`
	Role  string `json:"role" validate:"omitempty,oneof=user agency"`
}

type accountResponse struct {
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toAccountResponse(ent *model.Entitlement) accountResponse {
	return accountResponse{
		AccountID: ent.AccountID.String(),
		Email:     ent.Email,
		Name:      ent.Name,
		Plan:      string(ent.Plan),
		Role:      string(ent.Role),
		CreatedAt: ent.CreatedAt,
	}
}

// Signup handles POST /api/v1/accounts
func (h *AccountHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required and role must be user or agency"})
	}

	ent, err := h.accountService.Signup(c.Request().Context(), req.Email, req.Name, model.Role(req.Role))
	if err != nil {
		apperrors.LogError(h.logger, err, "Signup failed", zap.String("email", req.Email))
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusCreated, toAccountResponse(ent))
}

// Delete handles DELETE /api/v1/accounts/:id. Accounts may delete themselves;
// admins may delete any account. The admin check re-reads the store.
func (h *AccountHandler) Delete(c echo.Context) error {
	callerID, err := auth.GetAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}

	if targetID != callerID {
		if _, err := h.entitlementService.RequireRole(c.Request().Context(), callerID, model.RoleAdmin); err != nil {
			return apperrors.ToHTTPError(err)
		}
	}

	if err := h.accountService.Delete(c.Request().Context(), targetID); err != nil {
		apperrors.LogError(h.logger, err, "Account deletion failed",
			zap.String("account_id", targetID.String()))
		return apperrors.ToHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
