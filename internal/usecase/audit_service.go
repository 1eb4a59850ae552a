package usecase

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
	"github.com/uxauditpro/backend/internal/domain/repository"
)

// Fixed issue and recommendation catalogs. The heuristic engine picks a
// prefix of each based on the computed score band.
var issueCatalog = []string{
	"Primary call-to-action is below the fold on mobile viewports",
	"Text contrast on secondary buttons fails WCAG AA",
	"Navigation has more than seven top-level items",
	"Form fields lack inline validation feedback",
	"Page weight exceeds 3MB on first load",
}

var recommendationCatalog = []string{
	"Move the primary call-to-action above the fold",
	"Raise button text contrast to at least 4.5:1",
	"Collapse secondary navigation into a grouped menu",
	"Validate form fields as the user types",
	"Compress hero imagery and lazy-load below-the-fold assets",
}

// AuditService runs heuristic UX audits and persists them as reports.
type AuditService struct {
	reportRepo repository.ReportRepository
	logger     *zap.Logger
}

func NewAuditService(reportRepo repository.ReportRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

// Run audits the URL and stores the resulting report. The score is a
// deterministic function of the URL so repeated audits of the same page
// produce the same report, bounded to [55, 99].
func (s *AuditService) Run(ctx context.Context, accountID uuid.UUID, rawURL string) (*model.Report, error) {
	normalized, err := normalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	score := scoreURL(normalized)
	issues := issuesForScore(score)
	recommendations := recommendationCatalog[:len(issues)]

	report := &model.Report{
		ID:              uuid.New(),
		AccountID:       accountID,
		URL:             normalized,
		UXScore:         score,
		Issues:          append(model.StringList{}, issues...),
		Recommendations: append(model.StringList{}, recommendations...),
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("Audit completed",
		zap.String("account_id", accountID.String()),
		zap.String("report_id", report.ID.String()),
		zap.String("url", normalized),
		zap.Int("ux_score", score))

	return report, nil
}

// Get returns one report, scoped to its owning account.
func (s *AuditService) Get(ctx context.Context, accountID, reportID uuid.UUID) (*model.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.AccountID != accountID {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "report not found", nil)
	}
	return report, nil
}

// List returns the account's reports, newest first.
func (s *AuditService) List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*model.Report, error) {
	return s.reportRepo.ListByAccount(ctx, accountID, limit, offset)
}

func normalizeURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", apperrors.NewAppError(apperrors.ErrInvalidArgument, "url is required", nil)
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return "", apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid url", err)
	}

	return parsed.String(), nil
}

// scoreURL maps the URL bytes onto [55, 99].
func scoreURL(normalized string) int {
	sum := 0
	for _, b := range []byte(normalized) {
		sum += int(b)
	}
	return 55 + sum%45
}

// issuesForScore returns a catalog prefix sized by score band: five issues
// below 70, four below 85, three otherwise.
func issuesForScore(score int) []string {
	switch {
	case score < 70:
		return issueCatalog[:5]
	case score < 85:
		return issueCatalog[:4]
	default:
		return issueCatalog[:3]
	}
}
