package pokeapi

import (
	"strings"

	"github.com/pokeworks/pokedex-backend/internal/domain/pokemon"
	"github.com/pokeworks/pokedex-backend/internal/usecase"
)

// pokemonPayload mirrors the upstream pokemon document. The dump file is
// an array of the same documents, so both drivers decode through it.
type pokemonPayload struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Height         *int            `json:"height"`
	Weight         *int            `json:"weight"`
	BaseExperience *int            `json:"base_experience"`
	Order          *int            `json:"order"`
	IsDefault      *bool           `json:"is_default"`
	Species        namedResource   `json:"species"`
	Forms          []namedResource `json:"forms"`
	Sprites        spritesPayload  `json:"sprites"`
	Types          []typeEntry     `json:"types"`
	Abilities      []abilityEntry  `json:"abilities"`
	Stats          []statEntry     `json:"stats"`
	Moves          []moveEntry     `json:"moves"`
}

type namedResource struct {
	Name string `json:"name"`
}

// spritesPayload keeps only the eight flat artwork keys. The upstream
// "other" and "versions" subtrees are intentionally not modeled.
type spritesPayload struct {
	FrontDefault     *string `json:"front_default"`
	BackDefault      *string `json:"back_default"`
	FrontShiny       *string `json:"front_shiny"`
	BackShiny        *string `json:"back_shiny"`
	FrontFemale      *string `json:"front_female"`
	BackFemale       *string `json:"back_female"`
	FrontShinyFemale *string `json:"front_shiny_female"`
	BackShinyFemale  *string `json:"back_shiny_female"`
}

type typeEntry struct {
	Slot *int          `json:"slot"`
	Type namedResource `json:"type"`
}

type abilityEntry struct {
	Slot     *int          `json:"slot"`
	IsHidden *bool         `json:"is_hidden"`
	Ability  namedResource `json:"ability"`
}

type statEntry struct {
	BaseStat *int          `json:"base_stat"`
	Effort   *int          `json:"effort"`
	Stat     namedResource `json:"stat"`
}

type moveEntry struct {
	Move                namedResource       `json:"move"`
	VersionGroupDetails []versionGroupEntry `json:"version_group_details"`
}

type versionGroupEntry struct {
	LevelLearnedAt  *int          `json:"level_learned_at"`
	MoveLearnMethod namedResource `json:"move_learn_method"`
	VersionGroup    namedResource `json:"version_group"`
}

func mapPayloadToExternal(payload pokemonPayload) usecase.ExternalPokemon {
	out := usecase.ExternalPokemon{
		ExternalID:     payload.ID,
		Name:           strings.TrimSpace(payload.Name),
		Height:         payload.Height,
		Weight:         payload.Weight,
		BaseExperience: payload.BaseExperience,
		Order:          payload.Order,
		Species:        optionalName(payload.Species),
		IsDefault:      payload.IsDefault,
		Sprites: pokemon.Sprites{
			FrontDefault:     payload.Sprites.FrontDefault,
			BackDefault:      payload.Sprites.BackDefault,
			FrontShiny:       payload.Sprites.FrontShiny,
			BackShiny:        payload.Sprites.BackShiny,
			FrontFemale:      payload.Sprites.FrontFemale,
			BackFemale:       payload.Sprites.BackFemale,
			FrontShinyFemale: payload.Sprites.FrontShinyFemale,
			BackShinyFemale:  payload.Sprites.BackShinyFemale,
		},
	}

	if len(payload.Forms) > 0 {
		out.Form = optionalName(payload.Forms[0])
	}

	for _, item := range payload.Types {
		out.Types = append(out.Types, usecase.ExternalTypeSlot{
			Name: strings.TrimSpace(item.Type.Name),
			Slot: item.Slot,
		})
	}

	for _, item := range payload.Abilities {
		out.Abilities = append(out.Abilities, usecase.ExternalAbilitySlot{
			Name:     strings.TrimSpace(item.Ability.Name),
			Slot:     item.Slot,
			IsHidden: item.IsHidden,
		})
	}

	for _, item := range payload.Stats {
		out.Stats = append(out.Stats, usecase.ExternalStatValue{
			Name:     strings.TrimSpace(item.Stat.Name),
			BaseStat: item.BaseStat,
			Effort:   item.Effort,
		})
	}

	for _, item := range payload.Moves {
		entry := usecase.ExternalMoveEntry{Name: strings.TrimSpace(item.Move.Name)}
		for _, detail := range item.VersionGroupDetails {
			entry.VersionGroupDetails = append(entry.VersionGroupDetails, usecase.ExternalVersionGroupDetail{
				LevelLearnedAt:  detail.LevelLearnedAt,
				MoveLearnMethod: optionalName(detail.MoveLearnMethod),
				VersionGroup:    optionalName(detail.VersionGroup),
			})
		}
		out.Moves = append(out.Moves, entry)
	}

	return out
}

func optionalName(resource namedResource) *string {
	name := strings.TrimSpace(resource.Name)
	if name == "" {
		return nil
	}
	return &name
}
