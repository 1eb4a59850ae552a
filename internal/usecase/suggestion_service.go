package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/uxauditpro/backend/pkg/errors"
)

// suggestionBuckets maps issue keywords to copy-improvement suggestions. The
// first bucket whose keyword appears in the issue text wins.
var suggestionBuckets = []struct {
	keywords   []string
	suggestion string
}{
	{
		keywords:   []string{"call-to-action", "cta", "button"},
		suggestion: "Rewrite the button label as a first-person action, for example \"Start my free audit\".",
	},
	{
		keywords:   []string{"contrast", "readability", "text"},
		suggestion: "Shorten sentences to under 20 words and increase body text to at least 16px.",
	},
	{
		keywords:   []string{"mobile", "viewport", "responsive"},
		suggestion: "Lead with a single-column layout and keep tap targets at least 44px tall.",
	},
	{
		keywords:   []string{"speed", "load", "weight"},
		suggestion: "Show a lightweight skeleton state so the page feels responsive while assets load.",
	},
	{
		keywords:   []string{"form", "field", "validation"},
		suggestion: "Cut optional form fields and label each remaining field with the value it unlocks.",
	},
	{
		keywords:   []string{"trust", "testimonial", "social"},
		suggestion: "Place one short customer quote with a real name next to the primary action.",
	},
}

const genericSuggestion = "Clarify the page's single most important action and remove competing links around it."

// SuggestionService turns a report's issues into actionable copy suggestions.
type SuggestionService struct {
	audits *AuditService
	logger *zap.Logger
}

func NewSuggestionService(audits *AuditService, logger *zap.Logger) *SuggestionService {
	return &SuggestionService{
		audits: audits,
		logger: logger,
	}
}

// Suggestion pairs one report issue with its generated improvement.
type Suggestion struct {
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}

// Generate produces one suggestion per issue on the report.
func (s *SuggestionService) Generate(ctx context.Context, accountID, reportID uuid.UUID) ([]Suggestion, error) {
	report, err := s.audits.Get(ctx, accountID, reportID)
	if err != nil {
		return nil, err
	}

	if len(report.Issues) == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "report has no issues to improve", nil)
	}

	suggestions := make([]Suggestion, 0, len(report.Issues))
	for _, issue := range report.Issues {
		suggestions = append(suggestions, Suggestion{
			Issue:      issue,
			Suggestion: suggestFor(issue),
		})
	}

	s.logger.Info("Suggestions generated",
		zap.String("report_id", reportID.String()),
		zap.Int("count", len(suggestions)))

	return suggestions, nil
}

func suggestFor(issue string) string {
	lowered := strings.ToLower(issue)
	for _, bucket := range suggestionBuckets {
		for _, keyword := range bucket.keywords {
			if strings.Contains(lowered, keyword) {
				return bucket.suggestion
			}
		}
	}
	return genericSuggestion
}
