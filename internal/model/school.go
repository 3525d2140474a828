package model

import (
	"strings"
	"time"
)

// Defaults applied when a replaced school document leaves a field unset, and
// the fixed desk count per class. Desk counts are set at class creation and
// never change afterwards.
const (
	DefaultSchoolLevel      = 1
	DefaultSchoolRenameCost = 500
	DesksPerClass           = 8
)

// SyntheticIDPrefix marks member ids that do not belong to a real account.
// Default schools are populated with such actors; they can hold the
// principal seat until a real member becomes eligible.
const SyntheticIDPrefix = "npc-"

// IsSyntheticID reports whether id has the synthetic-actor shape.
func IsSyntheticID(id string) bool {
	return strings.HasPrefix(id, SyntheticIDPrefix)
}

// Desk is a searchable slot inside a class. The desk count per class is
// fixed at creation; desks are identified by their position index.
type Desk struct {
	ID           int   `json:"id"`
	LastSearched int64 `json:"lastSearched"` // unix millis, 0 = never
	HasTreasure  bool  `json:"hasTreasure"`
}

// Class is a sub-area of a School: a fixed set of desks plus an
// append-only blackboard log.
type Class struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Desks      []Desk   `json:"desks"`
	Blackboard []string `json:"blackboard"`
}

// SchoolMember mirrors one entry of MemberIDs with display data. The two
// lists stay index-parallel; the store does not validate that, the writing
// client is the authority.
type SchoolMember struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	Reputation int    `json:"reputation"`
	Cosmetic   string `json:"cosmetic"`
	LastActive int64  `json:"lastActive"`
}

// JoinRequest is a pending application to join a School.
type JoinRequest struct {
	PlayerID    string `json:"playerId"`
	Name        string `json:"name"`
	RequestedAt int64  `json:"requestedAt"`
}

// School is a player-led (or synthetic-led) organization. The whole document
// is read and overwritten wholesale by clients acting as the simulation
// authority; member order in MemberIDs is join order and drives principal
// succession.
type School struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Level         int            `json:"level"`
	PrincipalID   string         `json:"principalId"`
	PrincipalName string         `json:"principalName"`
	MemberIDs     []string       `json:"memberIds"`
	Members       []SchoolMember `json:"members"`
	JoinRequests  []JoinRequest  `json:"joinRequests"`
	Classes       []Class        `json:"classes"`
	TotalTags     int            `json:"totalTags"`
	TotalCleans   int            `json:"totalCleans"`
	SchoolPoints  int            `json:"schoolPoints"`
	RenameCost    int            `json:"renameCost"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// ApplyDefaults fills unset fields with their documented defaults and turns
// nil lists into empty ones, so a partial replace document still stores a
// complete record.
func (s *School) ApplyDefaults() {
	if s.Level == 0 {
		s.Level = DefaultSchoolLevel
	}
	if s.RenameCost == 0 {
		s.RenameCost = DefaultSchoolRenameCost
	}
	if s.MemberIDs == nil {
		s.MemberIDs = []string{}
	}
	if s.Members == nil {
		s.Members = []SchoolMember{}
	}
	if s.JoinRequests == nil {
		s.JoinRequests = []JoinRequest{}
	}
	if s.Classes == nil {
		s.Classes = []Class{}
	}
}

// HasMember reports whether id appears in MemberIDs.
func (s *School) HasMember(id string) bool {
	for _, m := range s.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}
