package httpapi

import (
	"github.com/pokeworks/pokedex-backend/internal/domain/pokemon"
	"github.com/pokeworks/pokedex-backend/internal/domain/team"
)

// Every public payload exposes the upstream id as "id"; the local
// surrogate key never leaves the database layer.

type namedRefDTO struct {
	Name string `json:"name"`
}

type typeSlotDTO struct {
	Type namedRefDTO `json:"type"`
	Slot int         `json:"slot"`
}

type abilitySlotDTO struct {
	Ability  namedRefDTO `json:"ability"`
	Slot     int         `json:"slot"`
	IsHidden bool        `json:"is_hidden"`
}

type statValueDTO struct {
	Stat     namedRefDTO `json:"stat"`
	BaseStat int         `json:"base_stat"`
	Effort   int         `json:"effort"`
}

type versionGroupDetailDTO struct {
	LevelLearnedAt  int     `json:"level_learned_at"`
	MoveLearnMethod *string `json:"move_learn_method"`
	VersionGroup    *string `json:"version_group"`
}

type moveEntryDTO struct {
	Move                namedRefDTO             `json:"move"`
	VersionGroupDetails []versionGroupDetailDTO `json:"version_group_details"`
}

type summarySpritesDTO struct {
	FrontDefault *string `json:"front_default"`
}

type pokemonSummaryDTO struct {
	ID      int               `json:"id"`
	Name    string            `json:"name"`
	Sprites summarySpritesDTO `json:"sprites"`
	Types   []typeSlotDTO     `json:"types"`
}

type pokemonDetailDTO struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Height         *int             `json:"height"`
	Weight         *int             `json:"weight"`
	BaseExperience *int             `json:"base_experience"`
	Order          *int             `json:"order"`
	Species        *string          `json:"species"`
	Form           *string          `json:"form"`
	IsDefault      bool             `json:"is_default"`
	Sprites        pokemon.Sprites  `json:"sprites"`
	Types          []typeSlotDTO    `json:"types"`
	Abilities      []abilitySlotDTO `json:"abilities"`
	Stats          []statValueDTO   `json:"stats"`
	Moves          []moveEntryDTO   `json:"moves"`
}

type teamDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Pokemons []int  `json:"pokemons"`
}

type pageMetadataDTO struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Total    int     `json:"total"`
	Pages    int     `json:"pages"`
	Page     int     `json:"page"`
}

type pagedPokemonsDTO struct {
	Data     []pokemonSummaryDTO `json:"data"`
	Metadata pageMetadataDTO     `json:"metadata"`
}

func summaryToDTO(s pokemon.Summary) pokemonSummaryDTO {
	return pokemonSummaryDTO{
		ID:      s.ExternalID,
		Name:    s.Name,
		Sprites: summarySpritesDTO{FrontDefault: s.FrontDefault},
		Types:   typeSlotsToDTO(s.Types),
	}
}

func summariesToDTO(items []pokemon.Summary) []pokemonSummaryDTO {
	out := make([]pokemonSummaryDTO, 0, len(items))
	for _, s := range items {
		out = append(out, summaryToDTO(s))
	}

	return out
}

func recordToDetailDTO(rec pokemon.Record) pokemonDetailDTO {
	abilities := make([]abilitySlotDTO, 0, len(rec.Abilities))
	for _, a := range rec.Abilities {
		abilities = append(abilities, abilitySlotDTO{
			Ability:  namedRefDTO{Name: a.Name},
			Slot:     a.Slot,
			IsHidden: a.IsHidden,
		})
	}

	stats := make([]statValueDTO, 0, len(rec.Stats))
	for _, st := range rec.Stats {
		stats = append(stats, statValueDTO{
			Stat:     namedRefDTO{Name: st.Name},
			BaseStat: st.BaseStat,
			Effort:   st.Effort,
		})
	}

	moves := make([]moveEntryDTO, 0, len(rec.Moves))
	for _, m := range rec.Moves {
		details := make([]versionGroupDetailDTO, 0, len(m.VersionGroupDetails))
		for _, d := range m.VersionGroupDetails {
			details = append(details, versionGroupDetailDTO{
				LevelLearnedAt:  d.LevelLearnedAt,
				MoveLearnMethod: d.MoveLearnMethod,
				VersionGroup:    d.VersionGroup,
			})
		}
		moves = append(moves, moveEntryDTO{
			Move:                namedRefDTO{Name: m.Name},
			VersionGroupDetails: details,
		})
	}

	return pokemonDetailDTO{
		ID:             rec.Pokemon.ExternalID,
		Name:           rec.Pokemon.Name,
		Height:         rec.Pokemon.Height,
		Weight:         rec.Pokemon.Weight,
		BaseExperience: rec.Pokemon.BaseExperience,
		Order:          rec.Pokemon.Order,
		Species:        rec.Pokemon.Species,
		Form:           rec.Pokemon.Form,
		IsDefault:      rec.Pokemon.IsDefault,
		Sprites:        rec.Pokemon.Sprites,
		Types:          typeSlotsToDTO(rec.Types),
		Abilities:      abilities,
		Stats:          stats,
		Moves:          moves,
	}
}

func typeSlotsToDTO(types []pokemon.TypeSlot) []typeSlotDTO {
	out := make([]typeSlotDTO, 0, len(types))
	for _, t := range types {
		out = append(out, typeSlotDTO{
			Type: namedRefDTO{Name: t.Name},
			Slot: t.Slot,
		})
	}

	return out
}

func teamToDTO(t team.Team) teamDTO {
	members := t.PokemonExternalIDs
	if members == nil {
		members = []int{}
	}

	return teamDTO{
		ID:       t.ID,
		Name:     t.Name,
		Pokemons: members,
	}
}
