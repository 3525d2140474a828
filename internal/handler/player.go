package handler

import (
	"log/slog"
	"net/http"

	"schoolyard/internal/model"
	"schoolyard/internal/service"
)

// PlayerHandler serves the per-account progress documents.
type PlayerHandler struct {
	players *service.PlayerService
	logger  *slog.Logger
}

func NewPlayerHandler(players *service.PlayerService, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{players: players, logger: logger}
}

// HandleSave fully replaces the player document under the path id.
//
// PUT /api/players/{id}
func (h *PlayerHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var player model.Player
	if err := decodeBody(r, &player); err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	if err := h.players.Save(r.Context(), id, &player); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

// HandleGet returns the stored document.
//
// GET /api/players/{id}
func (h *PlayerHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	player, err := h.players.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}
