package team

import (
	"fmt"
	"strings"
	"time"
)

// MaxPokemons bounds team membership.
const MaxPokemons = 6

// MaxNameLength bounds the team name column.
const MaxNameLength = 255

// Team is a named, globally unique roster of up to six pokemons.
// PokemonExternalIDs holds the members' public ids in attach order.
type Team struct {
	ID                 int64
	Name               string
	PokemonExternalIDs []int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if len(t.Name) > MaxNameLength {
		return fmt.Errorf("team name must be at most %d characters", MaxNameLength)
	}
	if len(t.PokemonExternalIDs) > MaxPokemons {
		return fmt.Errorf("team cannot hold more than %d pokemons", MaxPokemons)
	}

	return nil
}
