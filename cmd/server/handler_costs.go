package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/oficina/internal/money"
	"github.com/Simplici0/oficina/internal/pricing"
	"github.com/Simplici0/oficina/internal/service"
)

type summaryResponse struct {
	pricing.OperatingSummary
	Formatted formattedSummary `json:"formatted"`
}

type formattedSummary struct {
	TotalFixedCosts  string `json:"total_fixed_costs"`
	TotalPayroll     string `json:"total_payroll"`
	TotalMonthlyCost string `json:"total_monthly_cost"`
	DailyCost        string `json:"daily_cost"`
}

func (s *server) handleCostSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.costs.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		OperatingSummary: summary,
		Formatted: formattedSummary{
			TotalFixedCosts:  money.Format(summary.TotalFixedCosts),
			TotalPayroll:     money.Format(summary.TotalPayroll),
			TotalMonthlyCost: money.Format(summary.TotalMonthlyCost),
			DailyCost:        money.Format(summary.DailyCost),
		},
	})
}

type workingDaysRequest struct {
	WorkingDays string `json:"working_days"`
}

func (s *server) handleSetWorkingDays(w http.ResponseWriter, r *http.Request) {
	var req workingDaysRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	settings, err := s.costs.SetWorkingDays(r.Context(), req.WorkingDays)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *server) handleListFixedCosts(w http.ResponseWriter, r *http.Request) {
	costs, err := s.costs.ListFixedCosts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, costs)
}

func (s *server) handleCreateFixedCost(w http.ResponseWriter, r *http.Request) {
	var form service.FixedCostForm
	if !decodeJSON(w, r, &form) {
		return
	}

	cost, err := s.costs.AddFixedCost(r.Context(), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cost)
}

func (s *server) handleUpdateFixedCost(w http.ResponseWriter, r *http.Request) {
	var form service.FixedCostForm
	if !decodeJSON(w, r, &form) {
		return
	}

	cost, err := s.costs.UpdateFixedCost(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cost)
}

func (s *server) handleDeleteFixedCost(w http.ResponseWriter, r *http.Request) {
	if err := s.costs.RemoveFixedCost(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleListCollaborators(w http.ResponseWriter, r *http.Request) {
	collaborators, err := s.costs.ListCollaborators(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collaborators)
}

func (s *server) handleCreateCollaborator(w http.ResponseWriter, r *http.Request) {
	var form service.CollaboratorForm
	if !decodeJSON(w, r, &form) {
		return
	}

	c, err := s.costs.AddCollaborator(r.Context(), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

type collaboratorPatch struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *server) handleUpdateCollaborator(w http.ResponseWriter, r *http.Request) {
	var patch collaboratorPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	c, err := s.costs.UpdateCollaborator(r.Context(), chi.URLParam(r, "id"), patch.Field, patch.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *server) handleDeleteCollaborator(w http.ResponseWriter, r *http.Request) {
	if err := s.costs.RemoveCollaborator(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
