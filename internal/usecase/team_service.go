package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pokeworks/pokedex-backend/internal/domain/pokemon"
	"github.com/pokeworks/pokedex-backend/internal/domain/team"
)

type TeamService struct {
	teamRepo    team.Repository
	pokemonRepo pokemon.Repository
	logger      *slog.Logger
}

func NewTeamService(teamRepo team.Repository, pokemonRepo pokemon.Repository, logger *slog.Logger) *TeamService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TeamService{
		teamRepo:    teamRepo,
		pokemonRepo: pokemonRepo,
		logger:      logger,
	}
}

func (s *TeamService) List(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return teams, nil
}

func (s *TeamService) Get(ctx context.Context, id int64) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Get")
	defer span.End()

	if id <= 0 {
		return team.Team{}, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}

	t, found, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team id=%d: %w", id, err)
	}
	if !found {
		return team.Team{}, fmt.Errorf("%w: team not found", ErrNotFound)
	}

	return t, nil
}

// Create registers an empty team. Names are globally unique.
func (s *TeamService) Create(ctx context.Context, name string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Create")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if len(name) > team.MaxNameLength {
		return team.Team{}, fmt.Errorf("%w: team name must be at most %d characters", ErrInvalidInput, team.MaxNameLength)
	}

	taken, err := s.teamRepo.ExistsByName(ctx, name)
	if err != nil {
		return team.Team{}, fmt.Errorf("check team name %q: %w", name, err)
	}
	if taken {
		return team.Team{}, fmt.Errorf("%w: team name %q is already taken", ErrInvalidInput, name)
	}

	created, err := s.teamRepo.Create(ctx, name)
	if err != nil {
		return team.Team{}, fmt.Errorf("create team %q: %w", name, err)
	}

	s.logger.InfoContext(ctx, "team created", "team_id", created.ID, "name", created.Name)

	return created, nil
}

// SetPokemons replaces the whole membership. Ids must be distinct,
// reference imported pokemons, and stay within the roster bound.
func (s *TeamService) SetPokemons(ctx context.Context, id int64, externalIDs []int) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SetPokemons")
	defer span.End()

	existing, err := s.Get(ctx, id)
	if err != nil {
		return team.Team{}, err
	}

	if len(externalIDs) == 0 {
		return team.Team{}, fmt.Errorf("%w: pokemons are required", ErrInvalidInput)
	}
	if len(externalIDs) > team.MaxPokemons {
		return team.Team{}, fmt.Errorf("%w: a team can hold at most %d pokemons", ErrInvalidInput, team.MaxPokemons)
	}

	seen := make(map[int]struct{}, len(externalIDs))
	for _, externalID := range externalIDs {
		if externalID <= 0 {
			return team.Team{}, fmt.Errorf("%w: pokemon id must be greater than zero", ErrInvalidInput)
		}
		if _, ok := seen[externalID]; ok {
			return team.Team{}, fmt.Errorf("%w: duplicate pokemon id %d", ErrInvalidInput, externalID)
		}
		seen[externalID] = struct{}{}
	}

	pokemons, err := s.pokemonRepo.GetByExternalIDs(ctx, externalIDs)
	if err != nil {
		return team.Team{}, fmt.Errorf("get pokemons for team id=%d: %w", id, err)
	}

	localByExternal := make(map[int]int64, len(pokemons))
	for _, p := range pokemons {
		localByExternal[p.ExternalID] = p.ID
	}

	localIDs := make([]int64, 0, len(externalIDs))
	for _, externalID := range externalIDs {
		localID, ok := localByExternal[externalID]
		if !ok {
			return team.Team{}, fmt.Errorf("%w: pokemon %d does not exist", ErrInvalidInput, externalID)
		}
		localIDs = append(localIDs, localID)
	}

	if err := s.teamRepo.SetPokemons(ctx, existing.ID, localIDs); err != nil {
		return team.Team{}, fmt.Errorf("set team pokemons id=%d: %w", id, err)
	}

	updated, found, err := s.teamRepo.GetByID(ctx, existing.ID)
	if err != nil {
		return team.Team{}, fmt.Errorf("reload team id=%d: %w", id, err)
	}
	if !found {
		return team.Team{}, fmt.Errorf("%w: team not found", ErrNotFound)
	}

	s.logger.InfoContext(ctx, "team roster updated",
		"team_id", updated.ID,
		"pokemon_count", len(updated.PokemonExternalIDs),
	)

	return updated, nil
}
