package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pokeworks/pokedex-backend/internal/domain/team"
	teammock "github.com/pokeworks/pokedex-backend/internal/mocks/domain/team"
	"github.com/stretchr/testify/mock"
)

func TestTeamService_Create_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := teammock.NewRepository(t)
	service := NewTeamService(teamRepo, seededPokemonRepo(t), nil)

	teamRepo.
		On("ExistsByName", mock.Anything, "Kanto Legends").
		Return(false, nil).
		Once()
	teamRepo.
		On("Create", mock.Anything, "Kanto Legends").
		Return(team.Team{ID: 7, Name: "Kanto Legends"}, nil).
		Once()

	created, err := service.Create(ctx, "  Kanto Legends  ")
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if created.ID != 7 || created.Name != "Kanto Legends" {
		t.Fatalf("unexpected created team: %+v", created)
	}
}

func TestTeamService_Create_RepoFailureUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := teammock.NewRepository(t)
	service := NewTeamService(teamRepo, seededPokemonRepo(t), nil)

	repoErr := fmt.Errorf("connection refused")
	teamRepo.
		On("ExistsByName", mock.Anything, "Kanto Legends").
		Return(false, repoErr).
		Once()

	_, err := service.Create(ctx, "Kanto Legends")
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}

func TestTeamService_SetPokemons_PersistsLocalIDsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := teammock.NewRepository(t)
	service := NewTeamService(teamRepo, seededPokemonRepo(t), nil)

	stored := team.Team{ID: 3, Name: "Thunder Squad"}
	updated := team.Team{ID: 3, Name: "Thunder Squad", PokemonExternalIDs: []int{25, 1}}

	teamRepo.
		On("GetByID", mock.Anything, int64(3)).
		Return(stored, true, nil).
		Once()
	teamRepo.
		On("SetPokemons", mock.Anything, int64(3), mock.MatchedBy(func(ids []int64) bool {
			return len(ids) == 2
		})).
		Return(nil).
		Once()
	teamRepo.
		On("GetByID", mock.Anything, int64(3)).
		Return(updated, true, nil).
		Once()

	got, err := service.SetPokemons(ctx, 3, []int{25, 1})
	if err != nil {
		t.Fatalf("set pokemons: %v", err)
	}
	if len(got.PokemonExternalIDs) != 2 || got.PokemonExternalIDs[0] != 25 {
		t.Fatalf("unexpected roster: %v", got.PokemonExternalIDs)
	}
}
