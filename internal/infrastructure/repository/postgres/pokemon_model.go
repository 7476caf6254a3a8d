package postgres

import (
	"time"

	"github.com/pokeworks/pokedex-backend/internal/domain/pokemon"
)

type pokemonTableModel struct {
	ID               int64     `db:"id"`
	ExternalID       int       `db:"external_id"`
	Name             string    `db:"name"`
	Height           *int      `db:"height"`
	Weight           *int      `db:"weight"`
	BaseExperience   *int      `db:"base_experience"`
	Order            *int      `db:"order"`
	Species          *string   `db:"species"`
	Form             *string   `db:"form"`
	FrontDefault     *string   `db:"front_default"`
	BackDefault      *string   `db:"back_default"`
	FrontShiny       *string   `db:"front_shiny"`
	BackShiny        *string   `db:"back_shiny"`
	FrontFemale      *string   `db:"front_female"`
	BackFemale       *string   `db:"back_female"`
	FrontShinyFemale *string   `db:"front_shiny_female"`
	BackShinyFemale  *string   `db:"back_shiny_female"`
	IsDefault        bool      `db:"is_default"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (m pokemonTableModel) toDomain() pokemon.Pokemon {
	return pokemon.Pokemon{
		ID:             m.ID,
		ExternalID:     m.ExternalID,
		Name:           m.Name,
		Height:         m.Height,
		Weight:         m.Weight,
		BaseExperience: m.BaseExperience,
		Order:          m.Order,
		Species:        m.Species,
		Form:           m.Form,
		Sprites: pokemon.Sprites{
			FrontDefault:     m.FrontDefault,
			BackDefault:      m.BackDefault,
			FrontShiny:       m.FrontShiny,
			BackShiny:        m.BackShiny,
			FrontFemale:      m.FrontFemale,
			BackFemale:       m.BackFemale,
			FrontShinyFemale: m.FrontShinyFemale,
			BackShinyFemale:  m.BackShinyFemale,
		},
		IsDefault: m.IsDefault,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type summaryRowModel struct {
	ID           int64   `db:"id"`
	ExternalID   int     `db:"external_id"`
	Name         string  `db:"name"`
	FrontDefault *string `db:"front_default"`
}

func (m summaryRowModel) toSummary() pokemon.Summary {
	return pokemon.Summary{
		ID:           m.ID,
		ExternalID:   m.ExternalID,
		Name:         m.Name,
		FrontDefault: m.FrontDefault,
	}
}
