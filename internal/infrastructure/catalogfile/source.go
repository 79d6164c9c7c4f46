// Package catalogfile lee los datos de referencia (materiales, BOMs, recursos, turnos y
// plantillas de workflow) desde un archivo YAML o JSON usando Viper.
package catalogfile

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.CatalogSource = (*Source)(nil)

type fileMaterial struct {
	ID            string          `mapstructure:"id"`
	Name          string          `mapstructure:"name"`
	Description   string          `mapstructure:"description"`
	UnitCost      decimal.Decimal `mapstructure:"unit_cost"`
	StockQuantity int64           `mapstructure:"stock_quantity"`
	ReorderPoint  int64           `mapstructure:"reorder_point"`
	LeadTimeDays  int             `mapstructure:"lead_time_days"`
}

type fileComponent struct {
	MaterialID string `mapstructure:"material_id"`
	Quantity   int64  `mapstructure:"quantity"`
}

type fileRequirement struct {
	Type            string          `mapstructure:"type"`
	CapacityPerHour decimal.Decimal `mapstructure:"capacity_per_hour"`
}

type fileBOM struct {
	ID                   string            `mapstructure:"id"`
	ProductID            string            `mapstructure:"product_id"`
	Version              string            `mapstructure:"version"`
	LaborHours           decimal.Decimal   `mapstructure:"labor_hours"`
	Notes                string            `mapstructure:"notes"`
	Components           []fileComponent   `mapstructure:"components"`
	ResourceRequirements []fileRequirement `mapstructure:"resource_requirements"`
}

type fileWindow struct {
	Start time.Time `mapstructure:"start"`
	End   time.Time `mapstructure:"end"`
}

type fileResource struct {
	ID              string          `mapstructure:"id"`
	Name            string          `mapstructure:"name"`
	Type            string          `mapstructure:"type"`
	CapacityPerHour decimal.Decimal `mapstructure:"capacity_per_hour"`
	CostPerHour     decimal.Decimal `mapstructure:"cost_per_hour"`
	Availability    []fileWindow    `mapstructure:"availability"`
}

type fileStep struct {
	ID                string   `mapstructure:"id"`
	Name              string   `mapstructure:"name"`
	Description       string   `mapstructure:"description"`
	EstimatedDuration int      `mapstructure:"estimated_duration"`
	RequiredResources []string `mapstructure:"required_resources"`
	PredecessorSteps  []string `mapstructure:"predecessor_steps"`
}

type fileWorkflow struct {
	ID    string     `mapstructure:"id"`
	Name  string     `mapstructure:"name"`
	Steps []fileStep `mapstructure:"steps"`
}

type catalogFile struct {
	Materials []fileMaterial `mapstructure:"materials"`
	BOMs      []fileBOM      `mapstructure:"boms"`
	Resources []fileResource `mapstructure:"resources"`
	Workflows []fileWorkflow `mapstructure:"workflows"`
}

// Source fuente de catálogo basada en archivo.
type Source struct {
	path string
}

// New construye la fuente. El formato se deduce de la extensión (.yaml, .yml, .json).
func New(path string) *Source {
	return &Source{path: path}
}

// Load lee y convierte el archivo.
func (s *Source) Load(_ context.Context) (*repository.CatalogSeed, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	if ext := strings.TrimPrefix(filepath.Ext(s.path), "."); ext != "" {
		v.SetConfigType(ext)
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("leer catálogo %s: %w", s.path, err)
	}

	var f catalogFile
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		decimalHook,
		mapstructure.StringToTimeHookFunc(time.RFC3339),
	))
	if err := v.Unmarshal(&f, hook); err != nil {
		return nil, fmt.Errorf("decodificar catálogo %s: %w", s.path, err)
	}
	return f.seed()
}

func (f catalogFile) seed() (*repository.CatalogSeed, error) {
	seed := &repository.CatalogSeed{}
	for _, m := range f.Materials {
		seed.Materials = append(seed.Materials, entity.Material{
			ID:            m.ID,
			Name:          m.Name,
			Description:   m.Description,
			UnitCost:      m.UnitCost,
			StockQuantity: m.StockQuantity,
			ReorderPoint:  m.ReorderPoint,
			LeadTimeDays:  m.LeadTimeDays,
		})
	}
	for _, b := range f.BOMs {
		bom := entity.BillOfMaterials{
			ID:         b.ID,
			ProductID:  b.ProductID,
			Version:    b.Version,
			LaborHours: b.LaborHours,
			Notes:      b.Notes,
		}
		for _, c := range b.Components {
			bom.Components = append(bom.Components, entity.BOMComponent{MaterialID: c.MaterialID, Quantity: c.Quantity})
		}
		for _, rq := range b.ResourceRequirements {
			t := entity.ResourceType(strings.ToUpper(rq.Type))
			if !t.Valid() {
				return nil, fmt.Errorf("bom %s: tipo de recurso %q inválido", b.ID, rq.Type)
			}
			bom.ResourceRequirements = append(bom.ResourceRequirements, entity.ResourceRequirement{Type: t, CapacityPerHour: rq.CapacityPerHour})
		}
		seed.BOMs = append(seed.BOMs, bom)
	}
	for _, r := range f.Resources {
		t := entity.ResourceType(strings.ToUpper(r.Type))
		if !t.Valid() {
			return nil, fmt.Errorf("recurso %s: tipo %q inválido", r.ID, r.Type)
		}
		seed.Resources = append(seed.Resources, entity.Resource{
			ID:              r.ID,
			Name:            r.Name,
			Type:            t,
			CapacityPerHour: r.CapacityPerHour,
			CostPerHour:     r.CostPerHour,
		})
		for _, w := range r.Availability {
			seed.Windows = append(seed.Windows, entity.AvailabilityWindow{ResourceID: r.ID, Start: w.Start.UTC(), End: w.End.UTC()})
		}
	}
	for _, w := range f.Workflows {
		wf := entity.Workflow{ID: w.ID, Name: w.Name}
		for _, st := range w.Steps {
			wf.Steps = append(wf.Steps, entity.WorkflowStep{
				ID:                st.ID,
				Name:              st.Name,
				Description:       st.Description,
				EstimatedDuration: st.EstimatedDuration,
				RequiredResources: st.RequiredResources,
				PredecessorSteps:  st.PredecessorSteps,
			})
		}
		seed.Workflows = append(seed.Workflows, wf)
	}
	return seed, nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// decimalHook acepta montos como texto ("12.50") o número.
func decimalHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	}
	return data, nil
}
