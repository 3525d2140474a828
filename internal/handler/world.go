package handler

import (
	"log/slog"
	"net/http"

	"schoolyard/internal/model"
	"schoolyard/internal/service"
)

// WorldHandler serves the shared world state and the graffiti wall.
type WorldHandler struct {
	world  *service.WorldService
	logger *slog.Logger
}

func NewWorldHandler(world *service.WorldService, logger *slog.Logger) *WorldHandler {
	return &WorldHandler{world: world, logger: logger}
}

// HandleGet returns the world-state singleton.
//
// GET /api/world
func (h *WorldHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	state, err := h.world.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleReplace overwrites the whole singleton. Last writer wins.
//
// PUT /api/world
func (h *WorldHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	var state model.WorldState
	if err := decodeBody(r, &state); err != nil {
		writeError(w, err)
		return
	}

	if err := h.world.Replace(r.Context(), &state); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &state)
}

// HandleAddGraffiti validates, moderates and places a new wall entry.
//
// POST /api/world/graffiti
// body: {"author"?: ..., "text": ...}
func (h *WorldHandler) HandleAddGraffiti(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Author string `json:"author"`
		Text   string `json:"text"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.world.AddGraffiti(r.Context(), req.Author, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
