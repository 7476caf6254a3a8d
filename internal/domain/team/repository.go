package team

import "context"

// Repository describes team persistence needs from use cases.
// SetPokemons replaces the whole membership with the given local
// pokemon ids.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string) (Team, error)
	SetPokemons(ctx context.Context, teamID int64, pokemonIDs []int64) error
}
