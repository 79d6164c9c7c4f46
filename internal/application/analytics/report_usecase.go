package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/workflow"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ProjectReportGenerator puerto de salida para el PDF del proyecto.
type ProjectReportGenerator interface {
	GenerateProjectReport(ctx context.Context, project *entity.Project, metrics *dto.ProjectMetricsDTO) ([]byte, error)
}

// ReportUseCase arma el reporte PDF de un proyecto a partir de sus métricas.
type ReportUseCase struct {
	tracker   *workflow.Tracker
	metrics   *ProjectMetricsUseCase
	generator ProjectReportGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(tracker *workflow.Tracker, metrics *ProjectMetricsUseCase, generator ProjectReportGenerator) *ReportUseCase {
	return &ReportUseCase{tracker: tracker, metrics: metrics, generator: generator}
}

// ProjectReportPDF devuelve los bytes del PDF.
func (uc *ReportUseCase) ProjectReportPDF(ctx context.Context, projectID string) ([]byte, error) {
	m, err := uc.metrics.GetProjectMetrics(ctx, projectID)
	if err != nil {
		return nil, err
	}
	p, err := uc.tracker.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out, err := uc.generator.GenerateProjectReport(ctx, p, m)
	if err != nil {
		return nil, fmt.Errorf("reporte de proyecto: %w", err)
	}
	return out, nil
}
