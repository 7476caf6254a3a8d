package pokemon

import (
	"fmt"
	"strings"
	"time"
)

// Pokemon is one imported creature. ExternalID is the upstream PokeAPI id
// and the public id in every API response; ID is the local surrogate key.
type Pokemon struct {
	ID             int64
	ExternalID     int
	Name           string
	Height         *int
	Weight         *int
	BaseExperience *int
	Order          *int
	Species        *string
	Form           *string
	Sprites        Sprites
	IsDefault      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p Pokemon) Validate() error {
	if p.ExternalID <= 0 {
		return fmt.Errorf("pokemon external id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("pokemon name is required")
	}

	return nil
}

// Sprites holds the eight fixed artwork slots. Unknown upstream sprite
// keys are discarded during normalization.
type Sprites struct {
	FrontDefault     *string `json:"front_default"`
	BackDefault      *string `json:"back_default"`
	FrontShiny       *string `json:"front_shiny"`
	BackShiny        *string `json:"back_shiny"`
	FrontFemale      *string `json:"front_female"`
	BackFemale       *string `json:"back_female"`
	FrontShinyFemale *string `json:"front_shiny_female"`
	BackShinyFemale  *string `json:"back_shiny_female"`
}

// TypeSlot attaches a named type at an ordered slot.
type TypeSlot struct {
	Name string
	Slot int
}

// AbilitySlot attaches a named ability at an ordered slot.
type AbilitySlot struct {
	Name     string
	Slot     int
	IsHidden bool
}

// StatValue attaches a named stat. A zero BaseStat is a valid value.
type StatValue struct {
	Name     string
	BaseStat int
	Effort   int
}

// VersionGroupDetail is one learnset entry for a move.
type VersionGroupDetail struct {
	LevelLearnedAt  int     `json:"level_learned_at"`
	MoveLearnMethod *string `json:"move_learn_method"`
	VersionGroup    *string `json:"version_group"`
}

// MoveEntry attaches a named move with its serialized learnset.
type MoveEntry struct {
	Name                string
	VersionGroupDetails []VersionGroupDetail
}

// Record is the full aggregate: the row plus every relationship. Import
// writes it, the detail endpoint reads it back.
type Record struct {
	Pokemon   Pokemon
	Types     []TypeSlot
	Abilities []AbilitySlot
	Stats     []StatValue
	Moves     []MoveEntry
}

// Summary is the compact listing row used by list, search and paging.
type Summary struct {
	ID           int64
	ExternalID   int
	Name         string
	FrontDefault *string
	Types        []TypeSlot
}

// SyncPolicy controls how an import reconciles an existing move set.
type SyncPolicy string

const (
	// ReplaceAll makes the stored set exactly match the incoming set.
	ReplaceAll SyncPolicy = "replace_all"
	// AdditiveMerge attaches incoming entries and never detaches.
	AdditiveMerge SyncPolicy = "additive_merge"
)

// ImportResult reports what one record import changed.
type ImportResult struct {
	PokemonID         int64
	Created           bool
	TypesAttached     int
	AbilitiesAttached int
	StatsAttached     int
	MovesAttached     int
}

// EntityCounts are post-run table totals reported by the bulk importer.
type EntityCounts struct {
	Pokemons  int
	Types     int
	Abilities int
	Moves     int
	Stats     int
}

// Sort orders listing output.
type Sort string

const (
	SortNameAsc  Sort = "name-asc"
	SortNameDesc Sort = "name-desc"
	SortIDAsc    Sort = "id-asc"
	SortIDDesc   Sort = "id-desc"
)

// ParseSort maps a query value to a Sort, defaulting to id ascending.
func ParseSort(v string) (Sort, error) {
	switch Sort(strings.ToLower(strings.TrimSpace(v))) {
	case "":
		return SortIDAsc, nil
	case SortNameAsc:
		return SortNameAsc, nil
	case SortNameDesc:
		return SortNameDesc, nil
	case SortIDAsc:
		return SortIDAsc, nil
	case SortIDDesc:
		return SortIDDesc, nil
	default:
		return "", fmt.Errorf("invalid sort %q", v)
	}
}
