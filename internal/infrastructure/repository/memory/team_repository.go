package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pokeworks/pokedex-backend/internal/domain/team"
)

type storedTeam struct {
	team       team.Team
	pokemonIDs []int64
}

// TeamRepository keeps teams in memory. It resolves member external ids
// through the pokemon repository the same way the postgres repository
// joins through the pokemons table.
type TeamRepository struct {
	mu       sync.RWMutex
	nextID   int64
	byID     map[int64]*storedTeam
	pokemons *PokemonRepository
	now      func() time.Time
}

func NewTeamRepository(pokemons *PokemonRepository) *TeamRepository {
	return &TeamRepository{
		byID:     make(map[int64]*storedTeam),
		pokemons: pokemons,
		now:      time.Now,
	}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, r.materialize(item))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	if !ok {
		return team.Team{}, false, nil
	}

	return r.materialize(item), true, nil
}

func (r *TeamRepository) ExistsByName(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.ToLower(strings.TrimSpace(name))
	for _, item := range r.byID {
		if strings.ToLower(item.team.Name) == name {
			return true, nil
		}
	}

	return false, nil
}

func (r *TeamRepository) Create(_ context.Context, name string) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := r.now().UTC()
	item := &storedTeam{
		team: team.Team{
			ID:        r.nextID,
			Name:      strings.TrimSpace(name),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	r.byID[item.team.ID] = item

	return r.materialize(item), nil
}

func (r *TeamRepository) SetPokemons(_ context.Context, teamID int64, pokemonIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[teamID]
	if !ok {
		return nil
	}
	item.pokemonIDs = append([]int64(nil), pokemonIDs...)
	item.team.UpdatedAt = r.now().UTC()

	return nil
}

func (r *TeamRepository) materialize(item *storedTeam) team.Team {
	out := item.team
	out.PokemonExternalIDs = make([]int, 0, len(item.pokemonIDs))
	if r.pokemons == nil {
		return out
	}

	r.pokemons.mu.RLock()
	defer r.pokemons.mu.RUnlock()
	for _, localID := range item.pokemonIDs {
		for _, rec := range r.pokemons.byExternal {
			if rec.Pokemon.ID == localID {
				out.PokemonExternalIDs = append(out.PokemonExternalIDs, rec.Pokemon.ExternalID)
				break
			}
		}
	}

	return out
}
