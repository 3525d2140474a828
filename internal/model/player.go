package model

// Default values applied when a saved player document leaves a field unset.
// save is a full-document replace, so these also act as the reset values for
// anything the client omits.
const (
	DefaultPlayerLevel      = 1
	DefaultBackpackCapacity = 10
	DefaultBackpackLevel    = 1
	DefaultRenameCost       = 100
	DefaultCosmetic         = "avatar_001"
)

// InventoryItem is one stack in a player's backpack. The list is ordered;
// the client decides the ordering, the store just round-trips it.
type InventoryItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PlayerStats are cumulative lifetime counters.
type PlayerStats struct {
	TagsPlaced     int `json:"tagsPlaced"`
	TagsCleaned    int `json:"tagsCleaned"`
	TreasuresFound int `json:"treasuresFound"`
}

// Player is the per-account progress document. Its ID equals the owning
// Account id. Saves fully replace the stored record; there are no partial
// patch semantics. LastActive is stamped by the store on every save and any
// client-supplied value is ignored.
type Player struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Level               int             `json:"level"`
	XP                  int             `json:"xp"`
	Coins               int             `json:"coins"`
	Fatigue             int             `json:"fatigue"`
	FatigueImmunityTill int64           `json:"fatigueImmunityTill"`
	BackpackCapacity    int             `json:"backpackCapacity"`
	BackpackLevel       int             `json:"backpackLevel"`
	Inventory           []InventoryItem `json:"inventory"`
	RenameCost          int             `json:"renameCost"`
	Cosmetic            string          `json:"cosmetic"`
	SchoolID            string          `json:"schoolId"` // empty = no school; may dangle after delete-school
	CooldownUntil       int64           `json:"cooldownUntil"`
	LastDailyTreasure   int64           `json:"lastDailyTreasure"`
	LastActive          int64           `json:"lastActive"`
	LastLessonReward    int64           `json:"lastLessonReward"`
	Stats               PlayerStats     `json:"stats"`
}

// ApplyDefaults fills unset fields with their documented defaults.
func (p *Player) ApplyDefaults() {
	if p.Level == 0 {
		p.Level = DefaultPlayerLevel
	}
	if p.BackpackCapacity == 0 {
		p.BackpackCapacity = DefaultBackpackCapacity
	}
	if p.BackpackLevel == 0 {
		p.BackpackLevel = DefaultBackpackLevel
	}
	if p.RenameCost == 0 {
		p.RenameCost = DefaultRenameCost
	}
	if p.Cosmetic == "" {
		p.Cosmetic = DefaultCosmetic
	}
	if p.Inventory == nil {
		p.Inventory = []InventoryItem{}
	}
}
