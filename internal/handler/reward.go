package handler

import (
	"log/slog"
	"net/http"

	"schoolyard/internal/service"
)

// RewardHandler serves the cross-player reward mailbox.
type RewardHandler struct {
	rewards *service.RewardService
	logger  *slog.Logger
}

func NewRewardHandler(rewards *service.RewardService, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{rewards: rewards, logger: logger}
}

// HandleEnqueue records a pending reward for another player.
//
// POST /api/rewards
// body: {"playerId": ..., "xp"?: n, "coins"?: n, "reason"?: ...}
func (h *RewardHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"playerId"`
		XP       int    `json:"xp"`
		Coins    int    `json:"coins"`
		Reason   string `json:"reason"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	reward, err := h.rewards.Enqueue(r.Context(), req.PlayerID, req.XP, req.Coins, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reward)
}

// HandleClaim drains the player's mailbox and returns the aggregate.
//
// POST /api/players/{id}/rewards/claim
func (h *RewardHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	result, err := h.rewards.Claim(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
