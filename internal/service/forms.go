package service

import (
	"strings"

	"github.com/Simplici0/oficina/internal/money"
)

// Forms carry raw user input. A nil field is left unchanged on update and
// takes its default on create.

// FixedCostForm carries raw input for a fixed cost. Nil fields keep the
// current value on update.
type FixedCostForm struct {
	Name  *string `json:"name"`
	Value *string `json:"value"`
	Icon  *string `json:"icon"`
}

// CollaboratorForm carries raw input for a new collaborator.
type CollaboratorForm struct {
	Role          *string `json:"role"`
	Salary        *string `json:"salary"`
	HoursPerMonth *string `json:"hours_per_month"`
}

// ProjectForm carries raw input for a project. Nil fields keep the current
// value on update and take the default on create.
type ProjectForm struct {
	Name             *string `json:"name"`
	ProductionDays   *string `json:"production_days"`
	InstallationDays *string `json:"installation_days"`
	TaxesPerc        *string `json:"taxes_perc"`
	ProfitPerc       *string `json:"profit_perc"`
}

// MaterialForm carries raw input for a material line.
type MaterialForm struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Quantity    *string `json:"quantity"`
	UnitValue   *string `json:"unit_value"`
	ImageURL    *string `json:"image_url"`
}

// LaborForm carries raw input for a direct labor line.
type LaborForm struct {
	Role         *string `json:"role"`
	HourlyRate   *string `json:"hourly_rate"`
	HoursPlanned *string `json:"hours_planned"`
}

func text(field string, raw *string, dst *string) error {
	if raw == nil {
		return nil
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return invalid(field, "é obrigatório")
	}
	*dst = v
	return nil
}

func optionalText(raw *string, dst *string) {
	if raw != nil {
		*dst = strings.TrimSpace(*raw)
	}
}

// amount parses a localized monetary value such as "R$ 1.500,50".
func amount(field string, raw *string, dst *float64) error {
	if raw == nil {
		return nil
	}
	v, err := money.Parse(*raw)
	if err != nil {
		return invalid(field, "valor inválido, use números (ex: 1500,50)")
	}
	if v < 0 {
		return invalid(field, "não pode ser negativo")
	}
	*dst = v
	return nil
}

// quantity parses a plain non-negative number such as "220" or "2,5".
func quantity(field string, raw *string, dst *float64) error {
	if raw == nil {
		return nil
	}
	v, err := money.ParseNumber(*raw)
	if err != nil {
		return invalid(field, "número inválido")
	}
	if v < 0 {
		return invalid(field, "não pode ser negativo")
	}
	*dst = v
	return nil
}

func percent(field string, raw *string, dst *float64) error {
	var v float64
	if err := quantity(field, raw, &v); err != nil || raw == nil {
		return err
	}
	if v > 100 {
		return invalid(field, "deve estar entre 0 e 100")
	}
	*dst = v
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
