package planning

import (
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// CriticalPath cadena más larga (por duración) de pasos que respeta dependencias.
type CriticalPath struct {
	Steps    []string
	Duration int // minutos
}

// TopologicalOrder valida el DAG de pasos y devuelve un orden topológico estable
// (Kahn, desempate por orden de declaración). Falla con domain.ErrInvalidWorkflow
// ante IDs duplicados, predecesores inexistentes, duraciones no positivas o ciclos.
func TopologicalOrder(steps []entity.WorkflowStep) ([]string, error) {
	index := make(map[string]int, len(steps))
	for i, s := range steps {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: paso sin ID en posición %d", domain.ErrInvalidWorkflow, i)
		}
		if _, dup := index[s.ID]; dup {
			return nil, fmt.Errorf("%w: paso duplicado %s", domain.ErrInvalidWorkflow, s.ID)
		}
		if s.EstimatedDuration <= 0 {
			return nil, fmt.Errorf("%w: duración no positiva en %s", domain.ErrInvalidWorkflow, s.ID)
		}
		index[s.ID] = i
	}

	indegree := make([]int, len(steps))
	dependents := make([][]int, len(steps))
	for i, s := range steps {
		for _, pred := range s.PredecessorSteps {
			p, ok := index[pred]
			if !ok {
				return nil, fmt.Errorf("%w: %s referencia predecesor inexistente %s", domain.ErrInvalidWorkflow, s.ID, pred)
			}
			indegree[i]++
			dependents[p] = append(dependents[p], i)
		}
	}

	order := make([]string, 0, len(steps))
	queue := make([]int, 0, len(steps))
	for i := range steps {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, steps[n].ID)
		for _, d := range dependents[n] {
			indegree[d]--
			if indegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}
	if len(order) != len(steps) {
		return nil, fmt.Errorf("%w: el grafo de pasos tiene un ciclo", domain.ErrInvalidWorkflow)
	}
	return order, nil
}

// LongestPath calcula la ruta crítica. weight devuelve los minutos que aporta cada paso
// (0 para excluirlo, p. ej. pasos ya completados). order debe ser topológico.
func LongestPath(steps []entity.WorkflowStep, order []string, weight func(entity.WorkflowStep) int) CriticalPath {
	byID := make(map[string]entity.WorkflowStep, len(steps))
	for _, s := range steps {
		byID[s.ID] = s
	}
	dist := make(map[string]int, len(steps))
	prev := make(map[string]string, len(steps))

	best := ""
	for _, id := range order {
		s := byID[id]
		longest, from := 0, ""
		for _, pred := range s.PredecessorSteps {
			if dist[pred] > longest {
				longest, from = dist[pred], pred
			}
		}
		dist[id] = longest + weight(s)
		prev[id] = from
		if best == "" || dist[id] > dist[best] {
			best = id
		}
	}
	if best == "" || dist[best] == 0 {
		return CriticalPath{}
	}

	var path []string
	for id := best; id != ""; id = prev[id] {
		if weight(byID[id]) > 0 {
			path = append(path, id)
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return CriticalPath{Steps: path, Duration: dist[best]}
}
