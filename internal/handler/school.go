package handler

import (
	"log/slog"
	"net/http"

	"schoolyard/internal/model"
	"schoolyard/internal/service"
)

// SchoolHandler serves the school registry: listing, wholesale replacement,
// deletion and the reconciliation pass.
type SchoolHandler struct {
	schools *service.SchoolService
	logger  *slog.Logger
}

func NewSchoolHandler(schools *service.SchoolService, logger *slog.Logger) *SchoolHandler {
	return &SchoolHandler{schools: schools, logger: logger}
}

// HandleList returns every school with nested lists expanded.
//
// GET /api/schools
func (h *SchoolHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	schools, err := h.schools.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schools)
}

// HandleBatchReplace overwrites each listed school wholesale. The client is
// the simulation authority; last writer wins.
//
// PUT /api/schools
// body: [school, ...]
func (h *SchoolHandler) HandleBatchReplace(w http.ResponseWriter, r *http.Request) {
	var schools []model.School
	if err := decodeBody(r, &schools); err != nil {
		writeError(w, err)
		return
	}

	if err := h.schools.BatchReplace(r.Context(), schools); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"replaced": len(schools)})
}

// HandleDelete removes a school. Players keep their dangling schoolId.
//
// DELETE /api/schools/{id}
func (h *SchoolHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.schools.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReconcile runs the idempotent maintenance pass and returns its
// report.
//
// POST /api/schools/reconcile
func (h *SchoolHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.schools.Reconcile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
