package domain

import "time"

// FixedCost is a recurring monthly expense not tied to a project.
type FixedCost struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// Collaborator is a paid staff member with a monthly salary and contracted hours.
type Collaborator struct {
	ID            string    `json:"id"`
	Role          string    `json:"role"`
	Salary        float64   `json:"salary"`
	HoursPerMonth float64   `json:"hours_per_month"`
	CreatedAt     time.Time `json:"created_at"`
}

// Settings holds the business-wide parameters of the operating cost.
type Settings struct {
	WorkingDays float64   `json:"working_days"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Project is a quote being priced. Percentages are stored as 0-100.
type Project struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ProductionDays   float64   `json:"production_days"`
	InstallationDays float64   `json:"installation_days"`
	TaxesPerc        float64   `json:"taxes_perc"`
	ProfitPerc       float64   `json:"profit_perc"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Material is one material line of a project.
type Material struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	UnitValue   float64   `json:"unit_value"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Total returns quantity × unit value.
func (m *Material) Total() float64 {
	return m.Quantity * m.UnitValue
}

// DirectLabor is one labor line planned for a project.
type DirectLabor struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Role         string    `json:"role"`
	HourlyRate   float64   `json:"hourly_rate"`
	HoursPlanned float64   `json:"hours_planned"`
	CreatedAt    time.Time `json:"created_at"`
}

// Total returns hourly rate × planned hours.
func (l *DirectLabor) Total() float64 {
	return l.HourlyRate * l.HoursPlanned
}
