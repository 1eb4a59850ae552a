package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/uxauditpro/backend/internal/adapter/repository"
	domainRepo "github.com/uxauditpro/backend/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Order        domainRepo.OrderRepository
	Entitlement  domainRepo.EntitlementRepository
	PlanPrice    domainRepo.PlanPriceRepository
	WebhookEvent domainRepo.WebhookEventRepository
	Report       domainRepo.ReportRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Order:        repository.NewOrderRepository(db, logger),
		Entitlement:  repository.NewEntitlementRepository(db, logger),
		PlanPrice:    repository.NewPlanPriceRepository(db, logger),
		WebhookEvent: repository.NewWebhookEventRepository(db, logger),
		Report:       repository.NewReportRepository(db, logger),
	}
}
