package model

// Marker is an active world marker: a short-lived point of interest placed
// by the simulation (a fresh tag, an event spot). Clients own the lifecycle
// through whole-document world replaces.
type Marker struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	X         float64 `json:"x"` // percent of canvas width
	Y         float64 `json:"y"` // percent of canvas height
	OwnerID   string  `json:"ownerId"`
	OwnerName string  `json:"ownerName"`
	CreatedAt int64   `json:"createdAt"`
}

// GraffitiEntry is one immutable entry on the shared graffiti wall.
// Entries accumulate without expiry or cap.
type GraffitiEntry struct {
	ID        string  `json:"id"`
	Author    string  `json:"author"`
	Text      string  `json:"text"` // already moderated, ≤ 20 runes
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Rotation  float64 `json:"rotation"` // degrees, never in [-5,5]
	Color     string  `json:"color"`
	CreatedAt int64   `json:"createdAt"`
}

// WorldState is the one globally shared record. Exactly one row exists; it
// is seeded at startup and replaced wholesale by clients.
type WorldState struct {
	Markers           []Marker        `json:"markers"`
	Log               []string        `json:"log"`
	Graffiti          []GraffitiEntry `json:"graffiti"`
	LastTreasureReset int64           `json:"lastTreasureReset"`
	EventActive       bool            `json:"eventActive"`
	LessonCycleStart  int64           `json:"lessonCycleStart"`
}
