package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Simplici0/oficina/internal/domain"
	"github.com/Simplici0/oficina/internal/events"
	"github.com/Simplici0/oficina/internal/pricing"
	"github.com/Simplici0/oficina/internal/store"
)

const defaultIcon = "payments"

// fixedCostRepository is the subset of store.FixedCostStore that CostService requires.
type fixedCostRepository interface {
	Create(ctx context.Context, name string, value float64, icon string) (*domain.FixedCost, error)
	GetByID(ctx context.Context, id string) (*domain.FixedCost, error)
	List(ctx context.Context) ([]*domain.FixedCost, error)
	Update(ctx context.Context, cost *domain.FixedCost) error
	Delete(ctx context.Context, id string) error
}

// collaboratorRepository is the subset of store.CollaboratorStore that CostService requires.
type collaboratorRepository interface {
	Create(ctx context.Context, role string, salary, hoursPerMonth float64) (*domain.Collaborator, error)
	GetByID(ctx context.Context, id string) (*domain.Collaborator, error)
	List(ctx context.Context) ([]*domain.Collaborator, error)
	UpdateField(ctx context.Context, id, field string, value any) error
	Delete(ctx context.Context, id string) error
}

// settingsRepository is the subset of store.SettingsStore that CostService requires.
type settingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	SetWorkingDays(ctx context.Context, days float64) error
}

type publisher interface {
	Publish(c events.Change)
}

// CostService manages the business profile: fixed costs, payroll and the
// working calendar.
type CostService struct {
	fixedCosts    fixedCostRepository
	collaborators collaboratorRepository
	settings      settingsRepository
	bus           publisher
	logger        *slog.Logger
}

// NewCostService wires a CostService over the given stores. Changes are
// published on bus.
func NewCostService(
	fixedCosts fixedCostRepository,
	collaborators collaboratorRepository,
	settings settingsRepository,
	bus publisher,
	logger *slog.Logger,
) *CostService {
	return &CostService{
		fixedCosts:    fixedCosts,
		collaborators: collaborators,
		settings:      settings,
		bus:           bus,
		logger:        logger,
	}
}

// ListFixedCosts returns fixed costs in creation order.
func (s *CostService) ListFixedCosts(ctx context.Context) ([]*domain.FixedCost, error) {
	return s.fixedCosts.List(ctx)
}

// AddFixedCost creates a fixed cost. Name is required; value defaults to
// zero and icon to "payments".
func (s *CostService) AddFixedCost(ctx context.Context, form FixedCostForm) (*domain.FixedCost, error) {
	if form.Name == nil {
		return nil, invalid("name", "é obrigatório")
	}
	cost := domain.FixedCost{Icon: defaultIcon}
	if err := applyFixedCostForm(&cost, form); err != nil {
		return nil, err
	}

	created, err := s.fixedCosts.Create(ctx, cost.Name, cost.Value, cost.Icon)
	if err != nil {
		return nil, fmt.Errorf("add fixed cost: %w", err)
	}
	s.logger.Info("fixed cost added", "id", created.ID, "value", created.Value)
	s.publish(events.TableFixedCosts, events.OpInsert, created.ID)
	return created, nil
}

// UpdateFixedCost applies the non-nil fields of form to fixed cost id.
func (s *CostService) UpdateFixedCost(ctx context.Context, id string, form FixedCostForm) (*domain.FixedCost, error) {
	cost, err := s.fixedCosts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := *cost
	if err := applyFixedCostForm(&updated, form); err != nil {
		return nil, err
	}

	if err := s.fixedCosts.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update fixed cost: %w", err)
	}
	s.publish(events.TableFixedCosts, events.OpUpdate, id)
	return &updated, nil
}

// RemoveFixedCost deletes fixed cost id.
func (s *CostService) RemoveFixedCost(ctx context.Context, id string) error {
	if err := s.fixedCosts.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(events.TableFixedCosts, events.OpDelete, id)
	return nil
}

func applyFixedCostForm(cost *domain.FixedCost, form FixedCostForm) error {
	if err := firstError(
		text("name", form.Name, &cost.Name),
		amount("value", form.Value, &cost.Value),
	); err != nil {
		return err
	}
	optionalText(form.Icon, &cost.Icon)
	if cost.Icon == "" {
		cost.Icon = defaultIcon
	}
	return nil
}

// ListCollaborators returns collaborators in creation order.
func (s *CostService) ListCollaborators(ctx context.Context) ([]*domain.Collaborator, error) {
	return s.collaborators.List(ctx)
}

// AddCollaborator creates a collaborator. Role is required; salary defaults
// to zero and hours per month to pricing.DefaultHoursPerMonth.
func (s *CostService) AddCollaborator(ctx context.Context, form CollaboratorForm) (*domain.Collaborator, error) {
	if form.Role == nil {
		return nil, invalid("role", "é obrigatório")
	}
	c := domain.Collaborator{HoursPerMonth: pricing.DefaultHoursPerMonth}
	if err := firstError(
		text("role", form.Role, &c.Role),
		amount("salary", form.Salary, &c.Salary),
		quantity("hours_per_month", form.HoursPerMonth, &c.HoursPerMonth),
	); err != nil {
		return nil, err
	}

	created, err := s.collaborators.Create(ctx, c.Role, c.Salary, c.HoursPerMonth)
	if err != nil {
		return nil, fmt.Errorf("add collaborator: %w", err)
	}
	s.logger.Info("collaborator added", "id", created.ID, "role", created.Role)
	s.publish(events.TableCollaborators, events.OpInsert, created.ID)
	return created, nil
}

// UpdateCollaborator edits a single field from raw user input. Field is one
// of store.CollaboratorRole, store.CollaboratorSalary or
// store.CollaboratorHoursPerMonth. Rejected input leaves the stored value
// untouched.
func (s *CostService) UpdateCollaborator(ctx context.Context, id, field, raw string) (*domain.Collaborator, error) {
	var value any
	switch field {
	case store.CollaboratorRole:
		var role string
		if err := text(field, &raw, &role); err != nil {
			return nil, err
		}
		value = role
	case store.CollaboratorSalary:
		var salary float64
		if err := amount(field, &raw, &salary); err != nil {
			return nil, err
		}
		value = salary
	case store.CollaboratorHoursPerMonth:
		var hours float64
		if err := quantity(field, &raw, &hours); err != nil {
			return nil, err
		}
		value = hours
	default:
		return nil, invalid("field", fmt.Sprintf("campo desconhecido %q", field))
	}

	if err := s.collaborators.UpdateField(ctx, id, field, value); err != nil {
		return nil, err
	}
	s.publish(events.TableCollaborators, events.OpUpdate, id)
	return s.collaborators.GetByID(ctx, id)
}

// RemoveCollaborator deletes collaborator id.
func (s *CostService) RemoveCollaborator(ctx context.Context, id string) error {
	if err := s.collaborators.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(events.TableCollaborators, events.OpDelete, id)
	return nil
}

// Settings returns the business settings singleton.
func (s *CostService) Settings(ctx context.Context) (*domain.Settings, error) {
	return s.settings.Get(ctx)
}

// SetWorkingDays stores the number of working days per month from raw input.
func (s *CostService) SetWorkingDays(ctx context.Context, raw string) (*domain.Settings, error) {
	var days float64
	if err := quantity("working_days", &raw, &days); err != nil {
		return nil, err
	}
	if err := s.settings.SetWorkingDays(ctx, days); err != nil {
		return nil, fmt.Errorf("set working days: %w", err)
	}
	s.publish(events.TableSettings, events.OpUpdate, "1")
	return s.settings.Get(ctx)
}

// Profile loads a consistent snapshot of the business for the calculators.
func (s *CostService) Profile(ctx context.Context) (pricing.BusinessProfile, error) {
	costs, err := s.fixedCosts.List(ctx)
	if err != nil {
		return pricing.BusinessProfile{}, err
	}
	collaborators, err := s.collaborators.List(ctx)
	if err != nil {
		return pricing.BusinessProfile{}, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return pricing.BusinessProfile{}, err
	}
	return pricing.BusinessProfile{
		FixedCosts:    costs,
		Collaborators: collaborators,
		WorkingDays:   settings.WorkingDays,
	}, nil
}

// Summary computes the operating summary from the stored costs, team
// and settings.
func (s *CostService) Summary(ctx context.Context) (pricing.OperatingSummary, error) {
	profile, err := s.Profile(ctx)
	if err != nil {
		return pricing.OperatingSummary{}, err
	}
	summary := pricing.Operating(profile)
	for _, r := range summary.Rates {
		if r.HoursFloored {
			s.logger.Warn("collaborator has no contracted hours, hourly value equals salary", "id", r.ID, "role", r.Role)
		}
	}
	return summary, nil
}

func (s *CostService) publish(table string, op events.Op, id string) {
	if s.bus != nil {
		s.bus.Publish(events.Change{Table: table, Op: op, ID: id})
	}
}
