package model

import "time"

// PendingReward is one entry in the asynchronous cross-player mailbox.
// Enqueue is deliberately not idempotent: retrying the same gameplay event
// inserts a second row and both are paid out on claim.
type PendingReward struct {
	ID        string    `json:"id"        db:"id"`
	PlayerID  string    `json:"playerId"  db:"player_id"`
	XP        int       `json:"xp"        db:"xp"`
	Coins     int       `json:"coins"     db:"coins"`
	Reason    string    `json:"reason"    db:"reason"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ClaimResult is the aggregate returned by a mailbox claim: the summed
// rewards and how many entries were drained.
type ClaimResult struct {
	XP    int `json:"xp"`
	Coins int `json:"coins"`
	Count int `json:"count"`
}
