package pricing

import (
	"math"

	"github.com/Simplici0/oficina/internal/domain"
)

const (
	DefaultWorkingDays   = 22
	DefaultHoursPerMonth = 220
)

// BusinessProfile is the snapshot of the business that drives the
// operating cost: recurring expenses, payroll and the working calendar.
type BusinessProfile struct {
	FixedCosts    []*domain.FixedCost
	Collaborators []*domain.Collaborator
	WorkingDays   float64
}

// CollaboratorRate is the derived hourly value of one collaborator.
type CollaboratorRate struct {
	ID          string  `json:"id"`
	Role        string  `json:"role"`
	HourlyValue float64 `json:"hourly_value"`

	// HoursFloored reports that hours per month was zero and the salary
	// was divided by 1 instead.
	HoursFloored bool `json:"hours_floored"`
}

// OperatingSummary contains the monthly and daily operating cost.
type OperatingSummary struct {
	TotalFixedCosts  float64            `json:"total_fixed_costs"`
	TotalPayroll     float64            `json:"total_payroll"`
	TotalMonthlyCost float64            `json:"total_monthly_cost"`
	WorkingDays      float64            `json:"working_days"`
	DailyCost        float64            `json:"daily_cost"`
	Rates            []CollaboratorRate `json:"rates"`
}

// Operating computes the monthly operating cost of the profile and the
// implied daily cost. DailyCost is 0 when WorkingDays is not positive.
func Operating(p BusinessProfile) OperatingSummary {
	fixed := TotalFixedCosts(p.FixedCosts)
	payroll := TotalPayroll(p.Collaborators)
	monthly := finite(fixed + payroll)

	daily := 0.0
	if p.WorkingDays > 0 {
		daily = finite(monthly / p.WorkingDays)
	}

	rates := make([]CollaboratorRate, 0, len(p.Collaborators))
	for _, c := range p.Collaborators {
		if c == nil {
			continue
		}
		rates = append(rates, CollaboratorRate{
			ID:           c.ID,
			Role:         c.Role,
			HourlyValue:  HourlyValue(c),
			HoursFloored: hoursFloored(c.HoursPerMonth),
		})
	}

	return OperatingSummary{
		TotalFixedCosts:  fixed,
		TotalPayroll:     payroll,
		TotalMonthlyCost: monthly,
		WorkingDays:      num(p.WorkingDays),
		DailyCost:        daily,
		Rates:            rates,
	}
}

// TotalFixedCosts sums the monthly values of costs. Nil entries are skipped.
func TotalFixedCosts(costs []*domain.FixedCost) float64 {
	total := 0.0
	for _, c := range costs {
		if c == nil {
			continue
		}
		total += num(c.Value)
	}
	return finite(total)
}

// TotalPayroll sums the monthly salaries of collaborators. Nil entries
// are skipped.
func TotalPayroll(collaborators []*domain.Collaborator) float64 {
	total := 0.0
	for _, c := range collaborators {
		if c == nil {
			continue
		}
		total += num(c.Salary)
	}
	return finite(total)
}

// HourlyValue returns salary / hours per month. A zero (or NaN) hours value
// divides by 1, so the result equals the salary.
func HourlyValue(c *domain.Collaborator) float64 {
	if c == nil {
		return 0
	}
	divisor := c.HoursPerMonth
	if hoursFloored(divisor) {
		divisor = 1
	}
	return finite(num(c.Salary) / divisor)
}

func hoursFloored(hours float64) bool {
	return hours == 0 || math.IsNaN(hours)
}
