package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// CreateProjectRequest body para POST /api/projects.
type CreateProjectRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	WorkflowID  string          `json:"workflow_id"`
	StartDate   time.Time       `json:"start_date"`
	Budget      decimal.Decimal `json:"budget"`
}

// StepDTO paso del workflow con su estado.
type StepDTO struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	EstimatedDuration int      `json:"estimated_duration"` // minutos
	PredecessorSteps  []string `json:"predecessor_steps"`
	RequiredResources []string `json:"required_resources"`
	Completed         bool     `json:"completed"`
	Critical          bool     `json:"critical"`
}

// ProjectResponse proyecto con su instancia de workflow.
type ProjectResponse struct {
	ID                     string          `json:"id"`
	Name                   string          `json:"name"`
	Description            string          `json:"description"`
	WorkflowID             string          `json:"workflow_id"`
	StartDate              time.Time       `json:"start_date"`
	EndDate                time.Time       `json:"end_date"`
	Budget                 decimal.Decimal `json:"budget"`
	ActualCost             decimal.Decimal `json:"actual_cost"`
	TotalEstimatedDuration int             `json:"total_estimated_duration"`
	CriticalPath           []string        `json:"critical_path"`
	Steps                  []StepDTO       `json:"steps"`
}

// ProjectFromEntity mapea la entidad a la respuesta.
func ProjectFromEntity(p *entity.Project) ProjectResponse {
	critical := make(map[string]bool, len(p.Workflow.CriticalPath))
	for _, id := range p.Workflow.CriticalPath {
		critical[id] = true
	}
	steps := make([]StepDTO, 0, len(p.Workflow.Workflow.Steps))
	for _, s := range p.Workflow.Workflow.Steps {
		preds := s.PredecessorSteps
		if preds == nil {
			preds = []string{}
		}
		res := s.RequiredResources
		if res == nil {
			res = []string{}
		}
		steps = append(steps, StepDTO{
			ID:                s.ID,
			Name:              s.Name,
			EstimatedDuration: s.EstimatedDuration,
			PredecessorSteps:  preds,
			RequiredResources: res,
			Completed:         p.Workflow.Completed[s.ID],
			Critical:          critical[s.ID],
		})
	}
	path := p.Workflow.CriticalPath
	if path == nil {
		path = []string{}
	}
	return ProjectResponse{
		ID:                     p.ID,
		Name:                   p.Name,
		Description:            p.Description,
		WorkflowID:             p.Workflow.Workflow.ID,
		StartDate:              p.StartDate,
		EndDate:                p.EndDate,
		Budget:                 p.Budget,
		ActualCost:             p.ActualCost,
		TotalEstimatedDuration: p.Workflow.Workflow.TotalEstimatedDuration,
		CriticalPath:           path,
		Steps:                  steps,
	}
}

// ProgressResponse respuesta de GET /api/projects/:id/progress.
type ProgressResponse struct {
	ProjectID          string          `json:"project_id"`
	ProgressPercentage decimal.Decimal `json:"progress_percentage"`
	RemainingDuration  int             `json:"remaining_duration"` // minutos sobre el camino crítico pendiente
	CompletedSteps     int             `json:"completed_steps"`
	TotalSteps         int             `json:"total_steps"`
}
