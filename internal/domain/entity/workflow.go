package entity

// WorkflowStep paso de una plantilla. PredecessorSteps forma un DAG dentro del mismo Workflow.
type WorkflowStep struct {
	ID                string
	Name              string
	Description       string
	EstimatedDuration int // minutos, > 0
	RequiredResources []string
	PredecessorSteps  []string
}

// Workflow plantilla de pasos. TotalEstimatedDuration (minutos) es derivado.
type Workflow struct {
	ID                     string
	Name                   string
	Steps                  []WorkflowStep
	TotalEstimatedDuration int
}

// Clone copia profunda de la plantilla.
func (w *Workflow) Clone() Workflow {
	c := Workflow{ID: w.ID, Name: w.Name, TotalEstimatedDuration: w.TotalEstimatedDuration}
	c.Steps = make([]WorkflowStep, len(w.Steps))
	for i, s := range w.Steps {
		s.RequiredResources = append([]string(nil), s.RequiredResources...)
		s.PredecessorSteps = append([]string(nil), s.PredecessorSteps...)
		c.Steps[i] = s
	}
	return c
}
