// models/warrior.go
package models

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Mission is one of the four fixed participation categories.
type Mission string

const (
	MissionContact   Mission = "contact"
	MissionDonate    Mission = "donate"
	MissionVolunteer Mission = "volunteer"
	MissionInfo      Mission = "info"
)

// Missions lists every known mission in display order.
var Missions = []Mission{MissionContact, MissionDonate, MissionVolunteer, MissionInfo}

func (m Mission) Valid() bool {
	switch m {
	case MissionContact, MissionDonate, MissionVolunteer, MissionInfo:
		return true
	}
	return false
}

// WarriorStatus is a free label: any value may be set at any time, no transitions are enforced.
type WarriorStatus string

const (
	StatusActive   WarriorStatus = "active"
	StatusInactive WarriorStatus = "inactive"
	StatusVeteran  WarriorStatus = "veteran"
)

func (s WarriorStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusVeteran:
		return true
	}
	return false
}

type Village string

const (
	VillagePrincipal Village = "Principal"
	VillageNord      Village = "Nord"
	VillageSud       Village = "Sud"
	VillageEst       Village = "Est"
	VillageOuest     Village = "Ouest"
	VillageCentral   Village = "Central"
)

func (v Village) Valid() bool {
	switch v {
	case VillagePrincipal, VillageNord, VillageSud, VillageEst, VillageOuest, VillageCentral:
		return true
	}
	return false
}

// Impact score bounds.
const (
	MinImpactScore  = 0
	MaxImpactScore  = 1000
	BaseImpactScore = 10
)

// MissionData is the mission-specific part of a submission.
// contact/info use Message, donate uses Amount and Recurring, volunteer uses Skills.
type MissionData struct {
	Message   string   `json:"message,omitempty" validate:"max=2000"`
	Amount    string   `json:"amount,omitempty" validate:"max=32"` // kept verbatim, see BadgeFor
	Recurring bool     `json:"recurring,omitempty"`
	Skills    []string `json:"skills,omitempty" validate:"max=20,dive,max=50"`
}

// Warrior is the campaign participant, the only persisted entity.
type Warrior struct {
	ID           string                          `json:"id" gorm:"primaryKey;type:uuid"`
	Name         string                          `json:"name" gorm:"size:50;not null"`
	Email        string                          `json:"email" gorm:"uniqueIndex;not null"` // trimmed + lower-cased
	Mission      Mission                         `json:"mission" gorm:"type:varchar(16);not null;index"`
	MissionData  datatypes.JSONType[MissionData] `json:"missionData"`
	Badge        string                          `json:"badge" gorm:"not null"`
	BadgeCode    string                          `json:"badgeCode" gorm:"-"`
	ImpactScore  int                             `json:"impactScore" gorm:"not null;index"`
	Status       WarriorStatus                   `json:"status" gorm:"type:varchar(16);not null;default:'active';index"`
	Village      Village                         `json:"village" gorm:"type:varchar(16);not null;default:'Principal'"`
	JoinDate     time.Time                       `json:"joinDate" gorm:"not null;index"`
	LastActivity time.Time                       `json:"lastActivity" gorm:"not null"`
	IsAdmin      bool                            `json:"isAdmin" gorm:"default:false"`
	SearchKey    string                          `json:"-" gorm:"type:text;not null;default:''"`

	// 🏅 Append-only, oldest first
	Achievements []Achievement `json:"achievements" gorm:"foreignKey:WarriorID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// BeforeCreate stores the case-folded search key.
func (w *Warrior) BeforeCreate(tx *gorm.DB) error {
	w.SearchKey = SearchKey(w.Name, w.Email, w.Village, w.Badge)
	return nil
}

// AfterFind fills the derived badge code.
func (w *Warrior) AfterFind(tx *gorm.DB) error {
	w.BadgeCode = BadgeCode(w.Badge)
	return nil
}

func (w *Warrior) AfterSave(tx *gorm.DB) error {
	w.BadgeCode = BadgeCode(w.Badge)
	return nil
}

// Achievement is a timestamped event attached to a warrior. ID is an auto-increment
// sequence so ordering by it gives insertion order.
type Achievement struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	WarriorID   string    `json:"-" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Icon        string    `json:"icon" gorm:"size:16"`
	Date        time.Time `json:"date" gorm:"not null"`
}

func (Achievement) TableName() string {
	return "warrior_achievements"
}

// WarriorSummary is the projection used by recent-warrior lists and the leaderboard.
type WarriorSummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Badge       string     `json:"badge"`
	ImpactScore int        `json:"impactScore"`
	Village     Village    `json:"village"`
	Mission     Mission    `json:"mission,omitempty"`
	JoinDate    *time.Time `json:"joinDate,omitempty"`
}

// SearchSeparator joins the fields of a SearchKey. Queries never contain it, so a match
// cannot span two fields.
const SearchSeparator = "\n"

// SearchKey is the lower-cased NFC text searched by substring: name, email, village and badge.
// Folded in Go since SQLite's LOWER is ASCII-only.
func SearchKey(name, email string, village Village, badge string) string {
	return FoldSearch(strings.Join([]string{name, email, string(village), badge}, SearchSeparator))
}

// FoldSearch normalises text for SearchKey comparisons.
func FoldSearch(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
