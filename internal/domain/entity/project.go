package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkflowInstance copia del flujo asignada a un proyecto con su estado de avance.
type WorkflowInstance struct {
	Workflow     Workflow
	Completed    map[string]bool
	CriticalPath []string // IDs de pasos de la ruta crítica, en orden
}

// Project agrupa órdenes de trabajo y es dueño exclusivo de su instancia de flujo.
type Project struct {
	ID          string
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Workflow    WorkflowInstance
	Budget      decimal.Decimal
	ActualCost  decimal.Decimal
	CreatedAt   time.Time
}

// Clone copia profunda del proyecto.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	c.Workflow.Workflow = p.Workflow.Workflow.Clone()
	c.Workflow.Completed = make(map[string]bool, len(p.Workflow.Completed))
	for k, v := range p.Workflow.Completed {
		c.Workflow.Completed[k] = v
	}
	c.Workflow.CriticalPath = append([]string(nil), p.Workflow.CriticalPath...)
	return &c
}
