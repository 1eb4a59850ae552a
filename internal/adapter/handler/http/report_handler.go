package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/middleware/auth"
	"github.com/uxauditpro/backend/internal/reporting"
	"github.com/uxauditpro/backend/internal/usecase"
)

type ReportHandler struct {
	auditService       *usecase.AuditService
	suggestionService  *usecase.SuggestionService
	entitlementService *usecase.EntitlementService
	pdfGenerator       *reporting.PDFGenerator
	logger             *zap.Logger
}

func NewReportHandler(
	auditService *usecase.AuditService,
	suggestionService *usecase.SuggestionService,
	entitlementService *usecase.EntitlementService,
	pdfGenerator *reporting.PDFGenerator,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		auditService:       auditService,
		suggestionService:  suggestionService,
		entitlementService: entitlementService,
		pdfGenerator:       pdfGenerator,
		logger:             logger,
	}
}

type runAuditRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
}

// RunAudit handles POST /api/v1/audits
func (h *ReportHandler) RunAudit(c echo.Context) error {
	accountID, err := auth.GetAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req runAuditRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url is required"})
	}

	report, err := h.auditService.Run(c.Request().Context(), accountID, req.URL)
	if err != nil {
		apperrors.LogError(h.logger, err, "Audit failed",
			zap.String("account_id", accountID.String()),
			zap.String("url", req.URL))
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusCreated, report)
}

// List handles GET /api/v1/reports
func (h *ReportHandler) List(c echo.Context) error {
	accountID, err := auth.GetAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	limit, offset := 20, 0
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	reports, err := h.auditService.List(c.Request().Context(), accountID, limit, offset)
	if err != nil {
		apperrors.LogError(h.logger, err, "Failed to list reports",
			zap.String("account_id", accountID.String()))
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"reports": reports})
}

// Get handles GET /api/v1/reports/:id
func (h *ReportHandler) Get(c echo.Context) error {
	accountID, err := auth.GetAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid report id"})
	}

	report, err := h.auditService.Get(c.Request().Context(), accountID, reportID)
	if err != nil {
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, report)
}

// ExportPDF handles GET /api/v1/reports/:id/pdf. The annotated examples
// section is decided by the plan read from the store, never by anything the
// client sends.
func (h *ReportHandler) ExportPDF(c echo.Context) error {
	accountID, err := auth.GetAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid report id"})
	}

	report, err := h.auditService.Get(c.Request().Context(), accountID, reportID)
	if err != nil {
		return apperrors.ToHTTPError(err)
	}

	ent, err := h.entitlementService.GetAuthoritative(c.Request().Context(), accountID)
	if err != nil {
		apperrors.LogError(h.logger, err, "Failed to resolve entitlement for export",
			zap.String("account_id", accountID.String()))
		return apperrors.ToHTTPError(err)
	}

	data, err := h.pdfGenerator.Generate(report, ent.Plan.Paid())
	if err != nil {
		h.logger.Error("PDF generation failed",
			zap.String("report_id", reportID.String()),
			zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate PDF")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="ux-audit-`+reportID.String()+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// Suggestions handles POST /api/v1/reports/:id/suggestions
func (h *ReportHandler) Suggestions(c echo.Context) error {
	accountID, err := auth.GetAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid report id"})
	}

	suggestions, err := h.suggestionService.Generate(c.Request().Context(), accountID, reportID)
	if err != nil {
		apperrors.LogError(h.logger, err, "Suggestion generation failed",
			zap.String("report_id", reportID.String()))
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"suggestions": suggestions})
}
