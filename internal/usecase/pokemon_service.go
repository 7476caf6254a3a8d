package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pokeworks/pokedex-backend/internal/domain/pokemon"
)

// PageDefaults bound the offset/limit listing.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PagedPokemons is one page of summaries plus the unfiltered total.
type PagedPokemons struct {
	Items  []pokemon.Summary
	Total  int
	Limit  int
	Offset int
}

// SearchConfig bounds the search endpoint.
type SearchConfig struct {
	DefaultLimit int
	MaxLimit     int
}

type PokemonService struct {
	repo      pokemon.Repository
	searchCfg SearchConfig
	logger    *slog.Logger
}

func NewPokemonService(repo pokemon.Repository, searchCfg SearchConfig, logger *slog.Logger) *PokemonService {
	if logger == nil {
		logger = slog.Default()
	}
	if searchCfg.DefaultLimit <= 0 {
		searchCfg.DefaultLimit = 20
	}
	if searchCfg.MaxLimit < searchCfg.DefaultLimit {
		searchCfg.MaxLimit = 100
	}

	return &PokemonService{
		repo:      repo,
		searchCfg: searchCfg,
		logger:    logger,
	}
}

// List returns every pokemon as a compact summary, types slot-ordered.
func (s *PokemonService) List(ctx context.Context, sortRaw string) ([]pokemon.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PokemonService.List")
	defer span.End()

	sort, err := pokemon.ParseSort(sortRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	items, err := s.repo.List(ctx, sort)
	if err != nil {
		return nil, fmt.Errorf("list pokemons: %w", err)
	}

	return items, nil
}

// Get returns the full aggregate by public id.
func (s *PokemonService) Get(ctx context.Context, externalID int) (pokemon.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PokemonService.Get")
	defer span.End()

	if externalID <= 0 {
		return pokemon.Record{}, fmt.Errorf("%w: pokemon id must be greater than zero", ErrInvalidInput)
	}

	rec, found, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return pokemon.Record{}, fmt.Errorf("get pokemon external_id=%d: %w", externalID, err)
	}
	if !found {
		return pokemon.Record{}, fmt.Errorf("%w: pokemon not found", ErrNotFound)
	}

	return rec, nil
}

// Search matches the query case-insensitively against pokemon names and
// their attached type names, ordered by public id.
func (s *PokemonService) Search(ctx context.Context, query string, limit int) ([]pokemon.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PokemonService.Search")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = s.searchCfg.DefaultLimit
	}
	if limit > s.searchCfg.MaxLimit {
		limit = s.searchCfg.MaxLimit
	}

	items, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search pokemons query=%q: %w", query, err)
	}

	return items, nil
}

// Page returns one offset/limit window plus the unfiltered total.
func (s *PokemonService) Page(ctx context.Context, sortRaw string, limit, offset int) (PagedPokemons, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PokemonService.Page")
	defer span.End()

	sort, err := pokemon.ParseSort(sortRaw)
	if err != nil {
		return PagedPokemons{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.repo.Page(ctx, sort, limit, offset)
	if err != nil {
		return PagedPokemons{}, fmt.Errorf("page pokemons limit=%d offset=%d: %w", limit, offset, err)
	}

	return PagedPokemons{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}
