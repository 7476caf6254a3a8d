package memory

import "github.com/pokeworks/pokedex-backend/internal/domain/pokemon"

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

// SeedPokemons returns a small starter dex used by tests and local runs.
func SeedPokemons() []pokemon.Record {
	return []pokemon.Record{
		{
			Pokemon: pokemon.Pokemon{
				ExternalID:     1,
				Name:           "bulbasaur",
				Height:         intPtr(7),
				Weight:         intPtr(69),
				BaseExperience: intPtr(64),
				Order:          intPtr(1),
				Species:        strPtr("bulbasaur"),
				Form:           strPtr("bulbasaur"),
				Sprites: pokemon.Sprites{
					FrontDefault: strPtr("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/1.png"),
				},
				IsDefault: true,
			},
			Types: []pokemon.TypeSlot{
				{Name: "grass", Slot: 1},
				{Name: "poison", Slot: 2},
			},
			Abilities: []pokemon.AbilitySlot{
				{Name: "overgrow", Slot: 1},
				{Name: "chlorophyll", Slot: 3, IsHidden: true},
			},
			Stats: []pokemon.StatValue{
				{Name: "hp", BaseStat: 45},
				{Name: "attack", BaseStat: 49},
				{Name: "speed", BaseStat: 45},
			},
			Moves: []pokemon.MoveEntry{
				{Name: "tackle", VersionGroupDetails: []pokemon.VersionGroupDetail{{LevelLearnedAt: 1, MoveLearnMethod: strPtr("level-up"), VersionGroup: strPtr("red-blue")}}},
				{Name: "vine-whip", VersionGroupDetails: []pokemon.VersionGroupDetail{{LevelLearnedAt: 13, MoveLearnMethod: strPtr("level-up"), VersionGroup: strPtr("red-blue")}}},
			},
		},
		{
			Pokemon: pokemon.Pokemon{
				ExternalID:     4,
				Name:           "charmander",
				Height:         intPtr(6),
				Weight:         intPtr(85),
				BaseExperience: intPtr(62),
				Order:          intPtr(5),
				Species:        strPtr("charmander"),
				Form:           strPtr("charmander"),
				Sprites: pokemon.Sprites{
					FrontDefault: strPtr("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/4.png"),
				},
				IsDefault: true,
			},
			Types: []pokemon.TypeSlot{
				{Name: "fire", Slot: 1},
			},
			Abilities: []pokemon.AbilitySlot{
				{Name: "blaze", Slot: 1},
			},
			Stats: []pokemon.StatValue{
				{Name: "hp", BaseStat: 39},
				{Name: "attack", BaseStat: 52},
			},
			Moves: []pokemon.MoveEntry{
				{Name: "scratch", VersionGroupDetails: []pokemon.VersionGroupDetail{{LevelLearnedAt: 1, MoveLearnMethod: strPtr("level-up"), VersionGroup: strPtr("red-blue")}}},
				{Name: "ember", VersionGroupDetails: []pokemon.VersionGroupDetail{{LevelLearnedAt: 9, MoveLearnMethod: strPtr("level-up"), VersionGroup: strPtr("red-blue")}}},
			},
		},
		{
			Pokemon: pokemon.Pokemon{
				ExternalID:     25,
				Name:           "pikachu",
				Height:         intPtr(4),
				Weight:         intPtr(60),
				BaseExperience: intPtr(112),
				Order:          intPtr(35),
				Species:        strPtr("pikachu"),
				Form:           strPtr("pikachu"),
				Sprites: pokemon.Sprites{
					FrontDefault: strPtr("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/25.png"),
				},
				IsDefault: true,
			},
			Types: []pokemon.TypeSlot{
				{Name: "electric", Slot: 1},
			},
			Abilities: []pokemon.AbilitySlot{
				{Name: "static", Slot: 1},
				{Name: "lightning-rod", Slot: 3, IsHidden: true},
			},
			Stats: []pokemon.StatValue{
				{Name: "hp", BaseStat: 35},
				{Name: "speed", BaseStat: 90},
			},
			Moves: []pokemon.MoveEntry{
				{Name: "thunder-shock", VersionGroupDetails: []pokemon.VersionGroupDetail{{LevelLearnedAt: 1, MoveLearnMethod: strPtr("level-up"), VersionGroup: strPtr("red-blue")}}},
			},
		},
	}
}
