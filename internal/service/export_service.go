package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/topic-distribution-admin/internal/dto"
	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
	"github.com/noah-isme/topic-distribution-admin/pkg/export"
	"github.com/noah-isme/topic-distribution-admin/pkg/logger"
)

// ExportFormat names a rendered document type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// readiness is implemented by renderers that depend on external resources.
type readiness interface {
	Ready() bool
}

type distributionLoader interface {
	Load(ctx context.Context) (*DistributionData, error)
}

// ExportResult is a rendered document ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Distribution table columns.
var distributionColumns = []string{"ID", "Дисциплина", "Группа", "Преподаватель", "Тип работы", "Срок выполнения", "Статус"}

// ExportService renders the distribution table as CSV or PDF.
type ExportService struct {
	loader    distributionLoader
	renderers map[ExportFormat]renderer
	logger    *zap.Logger
	enabled   bool
	now       func() time.Time
}

// NewExportService constructs an ExportService. A nil csv renderer gets the
// default; PDF is offered only when a ready pdf renderer is given.
func NewExportService(loader distributionLoader, csv, pdf renderer, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	renderers := map[ExportFormat]renderer{ExportCSV: csv}
	if pdf != nil {
		if r, ok := pdf.(readiness); !ok || r.Ready() {
			renderers[ExportPDF] = pdf
		} else {
			logger.Warn("pdf export disabled: EXPORT_FONT_PATH is not set")
		}
	}
	return &ExportService{
		loader:    loader,
		renderers: renderers,
		logger:    logger,
		enabled:   enabled,
		now:       time.Now,
	}
}

// BuildDistributionDataset joins the distributions with the teacher
// snapshot the same way the table does.
func BuildDistributionDataset(data *DistributionData) export.Dataset {
	names := dto.TeacherNames(data.Teachers)
	rows := make([]map[string]string, 0, len(data.Distributions))
	for _, d := range data.Distributions {
		row := dto.NewDistributionRow(d, names)
		rows = append(rows, map[string]string{
			"ID":              fmt.Sprintf("%d", row.ID),
			"Дисциплина":      row.Discipline,
			"Группа":          row.GroupName,
			"Преподаватель":   row.TeacherName,
			"Тип работы":      row.TypeLabel,
			"Срок выполнения": row.Deadline,
			"Статус":          row.StatusLabel,
		})
	}
	return export.Dataset{
		Title:   dto.DistributionSummary(len(data.Distributions), len(data.Teachers), len(data.Topics)),
		Headers: distributionColumns,
		Rows:    rows,
	}
}

// ExportDistributions loads a fresh snapshot and renders it.
func (s *ExportService) ExportDistributions(ctx context.Context, format string) (*ExportResult, error) {
	if !s.enabled {
		return nil, appErrors.ErrExportsDisabled
	}
	kind := ExportFormat(strings.ToLower(format))
	r, ok := s.renderers[kind]
	if !ok && kind == ExportPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pdf export requires EXPORT_FONT_PATH")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	data, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	body, err := r.Render(BuildDistributionDataset(data))
	if err != nil {
		logger.ForContext(ctx, s.logger).Error("failed to render export", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("distributions-%s.%s", s.now().UTC().Format("20060102-150405"), r.Extension()),
		ContentType: r.ContentType(),
		Body:        body,
	}, nil
}
