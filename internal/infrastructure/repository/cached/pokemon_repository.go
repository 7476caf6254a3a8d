package cached

import (
	"context"
	"fmt"

	"github.com/pokeworks/pokedex-backend/internal/domain/pokemon"
	"github.com/pokeworks/pokedex-backend/internal/platform/cache"
)

const keyPrefix = "pokemon:"

// PokemonRepository caches read paths over an inner pokemon.Repository.
// Writes pass through and drop every cached key, so a refresh import is
// visible on the next read.
type PokemonRepository struct {
	inner pokemon.Repository
	store *cache.Store
}

func NewPokemonRepository(inner pokemon.Repository, store *cache.Store) *PokemonRepository {
	return &PokemonRepository{inner: inner, store: store}
}

func (r *PokemonRepository) Import(ctx context.Context, rec pokemon.Record, movePolicy pokemon.SyncPolicy) (pokemon.ImportResult, error) {
	result, err := r.inner.Import(ctx, rec, movePolicy)
	if err != nil {
		return pokemon.ImportResult{}, err
	}
	r.store.DeletePrefix(ctx, keyPrefix)
	return result, nil
}

func (r *PokemonRepository) FindByExternalID(ctx context.Context, externalID int) (pokemon.Record, bool, error) {
	type found struct {
		rec pokemon.Record
		ok  bool
	}

	key := fmt.Sprintf("%sdetail:%d", keyPrefix, externalID)
	value, err := r.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		rec, ok, err := r.inner.FindByExternalID(ctx, externalID)
		if err != nil {
			return nil, err
		}
		return found{rec: rec, ok: ok}, nil
	})
	if err != nil {
		return pokemon.Record{}, false, err
	}

	out, ok := value.(found)
	if !ok {
		return pokemon.Record{}, false, fmt.Errorf("unexpected cached detail type %T", value)
	}
	return out.rec, out.ok, nil
}

// ExistsByExternalIDOrName stays uncached: the importer uses it to gate
// writes and must see the latest state.
func (r *PokemonRepository) ExistsByExternalIDOrName(ctx context.Context, externalID int, name string) (bool, error) {
	return r.inner.ExistsByExternalIDOrName(ctx, externalID, name)
}

// GetByExternalIDs stays uncached: team membership checks must see
// current rows.
func (r *PokemonRepository) GetByExternalIDs(ctx context.Context, externalIDs []int) ([]pokemon.Pokemon, error) {
	return r.inner.GetByExternalIDs(ctx, externalIDs)
}

func (r *PokemonRepository) List(ctx context.Context, sort pokemon.Sort) ([]pokemon.Summary, error) {
	key := fmt.Sprintf("%slist:%s", keyPrefix, sort)
	value, err := r.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.inner.List(ctx, sort)
	})
	if err != nil {
		return nil, err
	}
	return toSummaries(value)
}

func (r *PokemonRepository) Page(ctx context.Context, sort pokemon.Sort, limit, offset int) ([]pokemon.Summary, int, error) {
	type page struct {
		items []pokemon.Summary
		total int
	}

	key := fmt.Sprintf("%spage:%s:%d:%d", keyPrefix, sort, limit, offset)
	value, err := r.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, total, err := r.inner.Page(ctx, sort, limit, offset)
		if err != nil {
			return nil, err
		}
		return page{items: items, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}

	out, ok := value.(page)
	if !ok {
		return nil, 0, fmt.Errorf("unexpected cached page type %T", value)
	}
	return out.items, out.total, nil
}

func (r *PokemonRepository) Search(ctx context.Context, query string, limit int) ([]pokemon.Summary, error) {
	key := fmt.Sprintf("%ssearch:%s:%d", keyPrefix, query, limit)
	value, err := r.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.inner.Search(ctx, query, limit)
	})
	if err != nil {
		return nil, err
	}
	return toSummaries(value)
}

func (r *PokemonRepository) EntityCounts(ctx context.Context) (pokemon.EntityCounts, error) {
	return r.inner.EntityCounts(ctx)
}

func toSummaries(value any) ([]pokemon.Summary, error) {
	out, ok := value.([]pokemon.Summary)
	if !ok {
		return nil, fmt.Errorf("unexpected cached listing type %T", value)
	}
	return out, nil
}
