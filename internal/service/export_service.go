package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/registrar-api/internal/models"
	appErrors "github.com/noah-isme/registrar-api/pkg/errors"
	"github.com/noah-isme/registrar-api/pkg/export"
)

// ExportFormat names a supported export document type.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

type periodStreamer interface {
	Each(ctx context.Context, academicLevelID string, fn func(models.GradingPeriod) error) error
}

type exportArchive interface {
	Save(name string, data []byte) (string, error)
}

// ExportResult is a rendered export document.
type ExportResult struct {
	Filename     string
	ContentType  string
	Payload      []byte
	RelativePath string
}

// ExportService renders grading structures into downloadable documents.
type ExportService struct {
	periods   periodStreamer
	archive   exportArchive
	renderers map[ExportFormat]export.Renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. archive is optional; when set every
// rendered document is also kept on disk.
func NewExportService(periods periodStreamer, archive exportArchive, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		periods: periods,
		archive: archive,
		renderers: map[ExportFormat]export.Renderer{
			ExportFormatCSV:  export.NewCSVExporter(),
			ExportFormatPDF:  export.NewPDFExporter(),
			ExportFormatXLSX: export.NewXLSXExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

var gradingPeriodHeaders = []string{
	"code", "name", "type", "period_type", "parent_code", "semester_number",
	"weight", "is_calculated", "included_types", "start_date", "end_date", "sort_order", "is_active",
}

// GradingPeriods renders the periods of an academic level in the requested format.
func (s *ExportService) GradingPeriods(ctx context.Context, academicLevelID string, format ExportFormat) (*ExportResult, error) {
	if format == "" {
		format = ExportFormatCSV
	}
	format = ExportFormat(strings.ToLower(string(format)))
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Field("format", "format must be one of csv pdf xlsx")
	}

	generatedAt := s.now().UTC()
	data := export.Dataset{
		Title:       "Grading periods",
		Headers:     gradingPeriodHeaders,
		GeneratedAt: generatedAt,
	}
	codes := map[string]string{}
	var rows []models.GradingPeriod
	err := s.periods.Each(ctx, academicLevelID, func(p models.GradingPeriod) error {
		codes[p.ID] = p.Code
		rows = append(rows, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		data.Append(periodRecord(p, codes)...)
	}

	payload, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	result := &ExportResult{
		Filename:    fmt.Sprintf("grading_periods_%s_%s.%s", sanitizeFilename(academicLevelID), generatedAt.Format("20060102_150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}
	if s.archive != nil {
		rel, err := s.archive.Save("grading-periods/"+result.Filename, payload)
		if err != nil {
			s.logger.Warn("failed to archive export", zap.String("file", result.Filename), zap.Error(err))
		} else {
			result.RelativePath = rel
		}
	}
	return result, nil
}

func periodRecord(p models.GradingPeriod, codes map[string]string) []string {
	parent := ""
	if p.ParentID != nil {
		parent = codes[*p.ParentID]
	}
	semester := ""
	if p.SemesterNumber != nil {
		semester = strconv.Itoa(*p.SemesterNumber)
	}
	included := make([]string, 0, len(p.IncludeFlags))
	for _, t := range p.IncludeFlags.Included() {
		included = append(included, string(t))
	}
	return []string{
		p.Code,
		p.Name,
		string(p.Type),
		string(p.PeriodType),
		parent,
		semester,
		strconv.FormatFloat(p.Weight, 'f', -1, 64),
		strconv.FormatBool(p.IsCalculated),
		strings.Join(included, "|"),
		p.StartDate.Format(dateLayout),
		p.EndDate.Format(dateLayout),
		strconv.Itoa(p.SortOrder),
		strconv.FormatBool(p.IsActive),
	}
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 64 {
		return result[:64]
	}
	return result
}
