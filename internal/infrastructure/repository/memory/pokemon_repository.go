package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pokeworks/pokedex-backend/internal/domain/pokemon"
)

// PokemonRepository keeps the whole import pipeline in memory with the
// same reconcile semantics as the postgres repository. Used by tests
// and local seeding.
type PokemonRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byExternal map[int]*pokemon.Record
	types      map[string]int64
	abilities  map[string]int64
	moves      map[string]int64
	stats      map[string]int64
	nextLookup int64
}

func NewPokemonRepository() *PokemonRepository {
	return &PokemonRepository{
		byExternal: make(map[int]*pokemon.Record),
		types:      make(map[string]int64),
		abilities:  make(map[string]int64),
		moves:      make(map[string]int64),
		stats:      make(map[string]int64),
	}
}

func (r *PokemonRepository) Import(_ context.Context, rec pokemon.Record, movePolicy pokemon.SyncPolicy) (pokemon.ImportResult, error) {
	if err := rec.Pokemon.Validate(); err != nil {
		return pokemon.ImportResult{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range rec.Types {
		r.findOrCreate(r.types, item.Name)
	}
	for _, item := range rec.Abilities {
		r.findOrCreate(r.abilities, item.Name)
	}
	for _, item := range rec.Stats {
		r.findOrCreate(r.stats, item.Name)
	}
	for _, item := range rec.Moves {
		r.findOrCreate(r.moves, item.Name)
	}

	existing, ok := r.byExternal[rec.Pokemon.ExternalID]
	created := !ok
	if ok {
		rec.Pokemon.ID = existing.Pokemon.ID
		rec.Pokemon.CreatedAt = existing.Pokemon.CreatedAt
	} else {
		r.nextID++
		rec.Pokemon.ID = r.nextID
	}

	stored := pokemon.Record{
		Pokemon:   rec.Pokemon,
		Types:     append([]pokemon.TypeSlot(nil), rec.Types...),
		Abilities: append([]pokemon.AbilitySlot(nil), rec.Abilities...),
		Stats:     append([]pokemon.StatValue(nil), rec.Stats...),
	}

	switch movePolicy {
	case pokemon.AdditiveMerge:
		stored.Moves = mergeMoves(existingMoves(existing), rec.Moves)
	default:
		stored.Moves = append([]pokemon.MoveEntry(nil), rec.Moves...)
	}

	sort.SliceStable(stored.Types, func(i, j int) bool { return stored.Types[i].Slot < stored.Types[j].Slot })
	sort.SliceStable(stored.Abilities, func(i, j int) bool { return stored.Abilities[i].Slot < stored.Abilities[j].Slot })

	r.byExternal[rec.Pokemon.ExternalID] = &stored

	return pokemon.ImportResult{
		PokemonID:         stored.Pokemon.ID,
		Created:           created,
		TypesAttached:     len(rec.Types),
		AbilitiesAttached: len(rec.Abilities),
		StatsAttached:     len(rec.Stats),
		MovesAttached:     len(rec.Moves),
	}, nil
}

func (r *PokemonRepository) FindByExternalID(_ context.Context, externalID int) (pokemon.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byExternal[externalID]
	if !ok {
		return pokemon.Record{}, false, nil
	}

	return cloneRecord(*rec), true, nil
}

func (r *PokemonRepository) ExistsByExternalIDOrName(_ context.Context, externalID int, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.byExternal[externalID]; ok && externalID > 0 {
		return true, nil
	}
	name = strings.ToLower(strings.TrimSpace(name))
	for _, rec := range r.byExternal {
		if strings.ToLower(rec.Pokemon.Name) == name && name != "" {
			return true, nil
		}
	}

	return false, nil
}

func (r *PokemonRepository) GetByExternalIDs(_ context.Context, externalIDs []int) ([]pokemon.Pokemon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pokemon.Pokemon, 0, len(externalIDs))
	for _, externalID := range externalIDs {
		if rec, ok := r.byExternal[externalID]; ok {
			out = append(out, rec.Pokemon)
		}
	}

	return out, nil
}

func (r *PokemonRepository) List(_ context.Context, sortOrder pokemon.Sort) ([]pokemon.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedSummaries(sortOrder), nil
}

func (r *PokemonRepository) Page(_ context.Context, sortOrder pokemon.Sort, limit, offset int) ([]pokemon.Summary, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sortedSummaries(sortOrder)
	total := len(all)
	if offset >= total {
		return []pokemon.Summary{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return all[offset:end], total, nil
}

func (r *PokemonRepository) Search(_ context.Context, query string, limit int) ([]pokemon.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	all := r.sortedSummaries(pokemon.SortIDAsc)
	out := make([]pokemon.Summary, 0, limit)
	for _, item := range all {
		if len(out) >= limit {
			break
		}
		if summaryMatches(item, needle) {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *PokemonRepository) EntityCounts(_ context.Context) (pokemon.EntityCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return pokemon.EntityCounts{
		Pokemons:  len(r.byExternal),
		Types:     len(r.types),
		Abilities: len(r.abilities),
		Moves:     len(r.moves),
		Stats:     len(r.stats),
	}, nil
}

func (r *PokemonRepository) findOrCreate(table map[string]int64, name string) int64 {
	name = strings.TrimSpace(name)
	if id, ok := table[name]; ok {
		return id
	}
	r.nextLookup++
	table[name] = r.nextLookup
	return r.nextLookup
}

func (r *PokemonRepository) sortedSummaries(sortOrder pokemon.Sort) []pokemon.Summary {
	out := make([]pokemon.Summary, 0, len(r.byExternal))
	for _, rec := range r.byExternal {
		out = append(out, pokemon.Summary{
			ID:           rec.Pokemon.ID,
			ExternalID:   rec.Pokemon.ExternalID,
			Name:         rec.Pokemon.Name,
			FrontDefault: rec.Pokemon.Sprites.FrontDefault,
			Types:        append([]pokemon.TypeSlot(nil), rec.Types...),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		switch sortOrder {
		case pokemon.SortNameAsc:
			return out[i].Name < out[j].Name
		case pokemon.SortNameDesc:
			return out[i].Name > out[j].Name
		case pokemon.SortIDDesc:
			return out[i].ExternalID > out[j].ExternalID
		default:
			return out[i].ExternalID < out[j].ExternalID
		}
	})

	return out
}

func summaryMatches(item pokemon.Summary, needle string) bool {
	if needle == "" {
		return false
	}
	if strings.Contains(strings.ToLower(item.Name), needle) {
		return true
	}
	for _, t := range item.Types {
		if strings.Contains(strings.ToLower(t.Name), needle) {
			return true
		}
	}
	return false
}

func existingMoves(rec *pokemon.Record) []pokemon.MoveEntry {
	if rec == nil {
		return nil
	}
	return rec.Moves
}

func mergeMoves(current, incoming []pokemon.MoveEntry) []pokemon.MoveEntry {
	out := append([]pokemon.MoveEntry(nil), current...)
	index := make(map[string]int, len(out))
	for i, m := range out {
		index[m.Name] = i
	}
	for _, m := range incoming {
		if i, ok := index[m.Name]; ok {
			out[i] = m
			continue
		}
		index[m.Name] = len(out)
		out = append(out, m)
	}
	return out
}

func cloneRecord(rec pokemon.Record) pokemon.Record {
	return pokemon.Record{
		Pokemon:   rec.Pokemon,
		Types:     append([]pokemon.TypeSlot(nil), rec.Types...),
		Abilities: append([]pokemon.AbilitySlot(nil), rec.Abilities...),
		Stats:     append([]pokemon.StatValue(nil), rec.Stats...),
		Moves:     append([]pokemon.MoveEntry(nil), rec.Moves...),
	}
}
