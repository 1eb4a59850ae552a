package repository

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/uxauditpro/backend/pkg/errors"

	"github.com/uxauditpro/backend/internal/domain/model"
	domainRepo "github.com/uxauditpro/backend/internal/domain/repository"
)

type reportRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewReportRepository creates the GORM-backed report store.
func NewReportRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ReportRepository {
	return &reportRepository{db: db, logger: logger}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		r.logger.Error("Failed to create report",
			zap.String("account_id", report.AccountID.String()),
			zap.String("url", report.URL),
			zap.Error(err))
		return apperrors.Wrap(err, "failed to create report")
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrNotFound, "report not found", nil)
		}
		return nil, apperrors.Wrap(err, "failed to get report")
	}

	return &report, nil
}

func (r *reportRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*model.Report, error) {
	if limit < 1 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var reports []*model.Report
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list reports")
	}

	return reports, nil
}

func (r *reportRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&model.Report{}).Error
	if err != nil {
		return apperrors.Wrap(err, "failed to delete reports for account")
	}
	return nil
}
