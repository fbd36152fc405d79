package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/oficina/internal/money"
	"github.com/Simplici0/oficina/internal/service"
)

func (s *server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.budgets.ListProjects(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var form service.ProjectForm
	if !decodeJSON(w, r, &form) {
		return
	}

	p, err := s.budgets.CreateProject(r.Context(), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	detail, err := s.budgets.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var form service.ProjectForm
	if !decodeJSON(w, r, &form) {
		return
	}

	p, err := s.budgets.UpdateProject(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type quoteResponse struct {
	*service.Quote
	Formatted formattedQuote `json:"formatted"`
}

type formattedQuote struct {
	MaterialsSubtotal   string `json:"materials_subtotal"`
	LaborSubtotal       string `json:"labor_subtotal"`
	OperationalSubtotal string `json:"operational_subtotal"`
	TotalCost           string `json:"total_cost"`
	SellingPrice        string `json:"selling_price"`
}

func (s *server) handleQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := s.budgets.Quote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	b, t := quote.Result.Breakdown, quote.Result.Totals
	writeJSON(w, http.StatusOK, quoteResponse{
		Quote: quote,
		Formatted: formattedQuote{
			MaterialsSubtotal:   money.Format(b.MaterialsSubtotal),
			LaborSubtotal:       money.Format(b.LaborSubtotal),
			OperationalSubtotal: money.Format(b.OperationalSubtotal),
			TotalCost:           money.Format(t.TotalCost),
			SellingPrice:        money.Format(t.SellingPrice),
		},
	})
}

func (s *server) handleAddMaterial(w http.ResponseWriter, r *http.Request) {
	var form service.MaterialForm
	if !decodeJSON(w, r, &form) {
		return
	}

	m, err := s.budgets.AddMaterial(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *server) handleUpdateMaterial(w http.ResponseWriter, r *http.Request) {
	var form service.MaterialForm
	if !decodeJSON(w, r, &form) {
		return
	}

	m, err := s.budgets.UpdateMaterial(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *server) handleRemoveMaterial(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.RemoveMaterial(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleAddLabor(w http.ResponseWriter, r *http.Request) {
	var form service.LaborForm
	if !decodeJSON(w, r, &form) {
		return
	}

	l, err := s.budgets.AddLabor(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *server) handleUpdateLabor(w http.ResponseWriter, r *http.Request) {
	var form service.LaborForm
	if !decodeJSON(w, r, &form) {
		return
	}

	l, err := s.budgets.UpdateLabor(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"), form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

type hoursAdjustment struct {
	Delta float64 `json:"delta"`
}

func (s *server) handleAdjustLaborHours(w http.ResponseWriter, r *http.Request) {
	var adj hoursAdjustment
	if !decodeJSON(w, r, &adj) {
		return
	}

	l, err := s.budgets.AdjustLaborHours(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"), adj.Delta)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *server) handleRemoveLabor(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.RemoveLabor(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
