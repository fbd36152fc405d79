package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Simplici0/oficina/internal/domain"
	"github.com/Simplici0/oficina/internal/events"
	"github.com/Simplici0/oficina/internal/pricing"
)

const (
	defaultMaterialDescription = "Novo item"
	defaultMaterialQuantity    = 1
	defaultLaborHours          = 8
)

// projectRepository is the subset of store.ProjectStore that BudgetService requires.
type projectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, search string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error

	AddMaterial(ctx context.Context, m *domain.Material) error
	GetMaterial(ctx context.Context, projectID, id string) (*domain.Material, error)
	ListMaterials(ctx context.Context, projectID string) ([]*domain.Material, error)
	UpdateMaterial(ctx context.Context, m *domain.Material) error
	RemoveMaterial(ctx context.Context, projectID, id string) error

	AddLabor(ctx context.Context, l *domain.DirectLabor) error
	GetLabor(ctx context.Context, projectID, id string) (*domain.DirectLabor, error)
	ListLabor(ctx context.Context, projectID string) ([]*domain.DirectLabor, error)
	UpdateLabor(ctx context.Context, l *domain.DirectLabor) error
	RemoveLabor(ctx context.Context, projectID, id string) error
}

// operatingSource provides the live operating cost; CostService implements it.
type operatingSource interface {
	Summary(ctx context.Context) (pricing.OperatingSummary, error)
}

// BudgetService manages projects and their material and labor lines and
// prices them against the current operating summary.
type BudgetService struct {
	projects  projectRepository
	operating operatingSource
	bus       publisher
	logger    *slog.Logger
}

// NewBudgetService wires a BudgetService. operating supplies the
// per-day cost used in quotes.
func NewBudgetService(projects projectRepository, operating operatingSource, bus publisher, logger *slog.Logger) *BudgetService {
	return &BudgetService{
		projects:  projects,
		operating: operating,
		bus:       bus,
		logger:    logger,
	}
}

// ProjectDetail bundles a project with its ordered material and labor lines.
type ProjectDetail struct {
	*domain.Project
	Materials []*domain.Material    `json:"materials"`
	Labor     []*domain.DirectLabor `json:"labor"`
}

// Quote is the priced budget of a project.
type Quote struct {
	ProjectDetail
	StructuralCostPerDay float64        `json:"structural_cost_per_day"`
	Result               pricing.Result `json:"result"`
}

// ListProjects returns projects in creation order, filtered by name.
func (s *BudgetService) ListProjects(ctx context.Context, search string) ([]*domain.Project, error) {
	return s.projects.List(ctx, search)
}

// GetProject returns a project with its material and labor lines.
func (s *BudgetService) GetProject(ctx context.Context, id string) (*ProjectDetail, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	materials, err := s.projects.ListMaterials(ctx, id)
	if err != nil {
		return nil, err
	}
	labor, err := s.projects.ListLabor(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{Project: project, Materials: materials, Labor: labor}, nil
}

// CreateProject validates form and stores a new project.
func (s *BudgetService) CreateProject(ctx context.Context, form ProjectForm) (*domain.Project, error) {
	if form.Name == nil {
		return nil, invalid("name", "é obrigatório")
	}
	p := domain.Project{}
	if err := applyProjectForm(&p, form); err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, &p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	s.logger.Info("project created", "id", p.ID, "name", p.Name)
	s.publish(events.TableProjects, events.OpInsert, p.ID)
	return &p, nil
}

// UpdateProject applies the non-nil fields of form to project id.
func (s *BudgetService) UpdateProject(ctx context.Context, id string, form ProjectForm) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *p
	if err := applyProjectForm(&updated, form); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	s.publish(events.TableProjects, events.OpUpdate, id)
	return s.projects.GetByID(ctx, id)
}

// DeleteProject removes a project and all of its lines.
func (s *BudgetService) DeleteProject(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("project deleted", "id", id)
	s.publish(events.TableProjects, events.OpDelete, id)
	return nil
}

func applyProjectForm(p *domain.Project, form ProjectForm) error {
	return firstError(
		text("name", form.Name, &p.Name),
		quantity("production_days", form.ProductionDays, &p.ProductionDays),
		quantity("installation_days", form.InstallationDays, &p.InstallationDays),
		percent("taxes_perc", form.TaxesPerc, &p.TaxesPerc),
		percent("profit_perc", form.ProfitPerc, &p.ProfitPerc),
	)
}

// AddMaterial appends a material line. Name is required; description
// defaults to "Novo item" and quantity to 1.
func (s *BudgetService) AddMaterial(ctx context.Context, projectID string, form MaterialForm) (*domain.Material, error) {
	if form.Name == nil {
		return nil, invalid("name", "é obrigatório")
	}
	m := domain.Material{
		ProjectID:   projectID,
		Description: defaultMaterialDescription,
		Quantity:    defaultMaterialQuantity,
	}
	if err := applyMaterialForm(&m, form); err != nil {
		return nil, err
	}

	if err := s.projects.AddMaterial(ctx, &m); err != nil {
		return nil, err
	}
	s.publish(events.TableProjectMaterials, events.OpInsert, m.ID)
	return &m, nil
}

// UpdateMaterial applies the non-nil fields of form to a material line.
func (s *BudgetService) UpdateMaterial(ctx context.Context, projectID, id string, form MaterialForm) (*domain.Material, error) {
	m, err := s.projects.GetMaterial(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	updated := *m
	if err := applyMaterialForm(&updated, form); err != nil {
		return nil, err
	}

	if err := s.projects.UpdateMaterial(ctx, &updated); err != nil {
		return nil, err
	}
	s.publish(events.TableProjectMaterials, events.OpUpdate, id)
	return &updated, nil
}

// RemoveMaterial deletes a material line from projectID.
func (s *BudgetService) RemoveMaterial(ctx context.Context, projectID, id string) error {
	if err := s.projects.RemoveMaterial(ctx, projectID, id); err != nil {
		return err
	}
	s.publish(events.TableProjectMaterials, events.OpDelete, id)
	return nil
}

func applyMaterialForm(m *domain.Material, form MaterialForm) error {
	if err := firstError(
		text("name", form.Name, &m.Name),
		quantity("quantity", form.Quantity, &m.Quantity),
		amount("unit_value", form.UnitValue, &m.UnitValue),
	); err != nil {
		return err
	}
	optionalText(form.Description, &m.Description)
	optionalText(form.ImageURL, &m.ImageURL)
	return nil
}

// AddLabor appends a labor line. Role is required; planned hours default to 8.
func (s *BudgetService) AddLabor(ctx context.Context, projectID string, form LaborForm) (*domain.DirectLabor, error) {
	if form.Role == nil {
		return nil, invalid("role", "é obrigatório")
	}
	l := domain.DirectLabor{ProjectID: projectID, HoursPlanned: defaultLaborHours}
	if err := applyLaborForm(&l, form); err != nil {
		return nil, err
	}

	if err := s.projects.AddLabor(ctx, &l); err != nil {
		return nil, err
	}
	s.publish(events.TableProjectLabor, events.OpInsert, l.ID)
	return &l, nil
}

// UpdateLabor applies the non-nil fields of form to a labor line.
func (s *BudgetService) UpdateLabor(ctx context.Context, projectID, id string, form LaborForm) (*domain.DirectLabor, error) {
	l, err := s.projects.GetLabor(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	updated := *l
	if err := applyLaborForm(&updated, form); err != nil {
		return nil, err
	}
	return s.saveLabor(ctx, &updated)
}

// AdjustLaborHours adds delta to the planned hours of a labor line. The
// result never goes below zero.
func (s *BudgetService) AdjustLaborHours(ctx context.Context, projectID, id string, delta float64) (*domain.DirectLabor, error) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return nil, invalid("delta", "número inválido")
	}
	l, err := s.projects.GetLabor(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	updated := *l
	updated.HoursPlanned = math.Max(0, updated.HoursPlanned+delta)
	return s.saveLabor(ctx, &updated)
}

func (s *BudgetService) saveLabor(ctx context.Context, l *domain.DirectLabor) (*domain.DirectLabor, error) {
	if err := s.projects.UpdateLabor(ctx, l); err != nil {
		return nil, err
	}
	s.publish(events.TableProjectLabor, events.OpUpdate, l.ID)
	return l, nil
}

// RemoveLabor deletes a labor line from projectID.
func (s *BudgetService) RemoveLabor(ctx context.Context, projectID, id string) error {
	if err := s.projects.RemoveLabor(ctx, projectID, id); err != nil {
		return err
	}
	s.publish(events.TableProjectLabor, events.OpDelete, id)
	return nil
}

func applyLaborForm(l *domain.DirectLabor, form LaborForm) error {
	return firstError(
		text("role", form.Role, &l.Role),
		amount("hourly_rate", form.HourlyRate, &l.HourlyRate),
		quantity("hours_planned", form.HoursPlanned, &l.HoursPlanned),
	)
}

// Quote prices a project, charging every scheduled day at the current
// daily operating cost of the business.
func (s *BudgetService) Quote(ctx context.Context, projectID string) (*Quote, error) {
	detail, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	summary, err := s.operating.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("load operating cost: %w", err)
	}

	result := pricing.Calculate(pricing.BudgetInput{
		Materials:            detail.Materials,
		Labor:                detail.Labor,
		ProductionDays:       detail.ProductionDays,
		InstallationDays:     detail.InstallationDays,
		TaxesPerc:            detail.TaxesPerc,
		ProfitPerc:           detail.ProfitPerc,
		StructuralCostPerDay: summary.DailyCost,
	})
	if result.Totals.MultiplierFloored {
		s.logger.Warn("taxes plus profit reach 100%, selling price uses the minimum multiplier",
			"project_id", projectID, "taxes_perc", detail.TaxesPerc, "profit_perc", detail.ProfitPerc)
	}

	return &Quote{
		ProjectDetail:        *detail,
		StructuralCostPerDay: summary.DailyCost,
		Result:               result,
	}, nil
}

func (s *BudgetService) publish(table string, op events.Op, id string) {
	if s.bus != nil {
		s.bus.Publish(events.Change{Table: table, Op: op, ID: id})
	}
}
