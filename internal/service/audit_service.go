package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
)

type auditReader interface {
	ListByResource(ctx context.Context, resource string, limit int) ([]models.AuditLog, error)
}

var auditResources = map[string]struct{}{
	"academic_levels":       {},
	"grading_periods":       {},
	"subjects":              {},
	"strands":               {},
	"departments":           {},
	"courses":               {},
	"assignments":           {},
	"enrollments":           {},
	"honor_types":           {},
	"certificate_templates": {},
	"certificates":          {},
}

// AuditService exposes the recorded mutation trail.
type AuditService struct {
	repo   auditReader
	logger *zap.Logger
}

// NewAuditService constructs the service.
func NewAuditService(repo auditReader, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// List returns the newest entries recorded for resource.
func (s *AuditService) List(ctx context.Context, resource string, limit int) ([]models.AuditLog, error) {
	resource = strings.ToLower(strings.TrimSpace(resource))
	if _, ok := auditResources[resource]; !ok {
		return nil, appErrors.Field("resource", "unknown audit resource")
	}
	logs, err := s.repo.ListByResource(ctx, resource, limit)
	if err != nil {
		s.logger.Error("list audit logs", zap.String("resource", resource), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load audit logs")
	}
	return logs, nil
}
