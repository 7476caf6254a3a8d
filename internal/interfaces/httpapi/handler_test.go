package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/pokeworks/pokedex-backend/internal/domain/pokemon"
	"github.com/pokeworks/pokedex-backend/internal/infrastructure/repository/memory"
	"github.com/pokeworks/pokedex-backend/internal/usecase"
)

const testTeamToken = "secret-team-token"

func newTestRouter(t *testing.T) (http.Handler, *memory.PokemonRepository) {
	t.Helper()

	pokemonRepo := memory.NewPokemonRepository()
	for _, rec := range memory.SeedPokemons() {
		if _, err := pokemonRepo.Import(context.Background(), rec, pokemon.ReplaceAll); err != nil {
			t.Fatalf("seed pokemon %q: %v", rec.Pokemon.Name, err)
		}
	}
	teamRepo := memory.NewTeamRepository(pokemonRepo)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pokemonService := usecase.NewPokemonService(pokemonRepo, usecase.SearchConfig{}, logger)
	teamService := usecase.NewTeamService(teamRepo, pokemonRepo, logger)
	handler := NewHandler(pokemonService, teamService, logger)

	return NewRouter(handler, testTeamToken, logger, nil), pokemonRepo
}

func importFiller(t *testing.T, repo *memory.PokemonRepository, externalID int) {
	t.Helper()

	rec := pokemon.Record{
		Pokemon: pokemon.Pokemon{
			ExternalID: externalID,
			Name:       "filler-" + strconv.Itoa(externalID),
			IsDefault:  true,
		},
		Types: []pokemon.TypeSlot{{Name: "normal", Slot: 1}},
	}
	if _, err := repo.Import(context.Background(), rec, pokemon.ReplaceAll); err != nil {
		t.Fatalf("import filler %d: %v", externalID, err)
	}
}

func doRequest(t *testing.T, router http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	if err := sonic.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("unmarshal response body %q: %v", rec.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %q", body["status"])
	}
}
