package pokeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pokeworks/pokedex-backend/internal/platform/resilience"
	"github.com/pokeworks/pokedex-backend/internal/usecase"
)

const bulbasaurJSON = `{
	"id": 1,
	"name": "bulbasaur",
	"height": 7,
	"weight": 69,
	"base_experience": 64,
	"order": 1,
	"is_default": true,
	"species": {"name": "bulbasaur"},
	"forms": [{"name": "bulbasaur"}],
	"sprites": {
		"front_default": "https://img.example/1/front.png",
		"back_shiny": "https://img.example/1/back-shiny.png",
		"other": {"official-artwork": {"front_default": "ignored"}}
	},
	"types": [
		{"slot": 1, "type": {"name": "grass"}},
		{"slot": 2, "type": {"name": "poison"}}
	],
	"abilities": [
		{"slot": 1, "is_hidden": false, "ability": {"name": "overgrow"}},
		{"slot": 3, "is_hidden": true, "ability": {"name": "chlorophyll"}}
	],
	"stats": [
		{"base_stat": 45, "effort": 0, "stat": {"name": "hp"}},
		{"base_stat": 0, "effort": 1, "stat": {"name": "speed"}}
	],
	"moves": [
		{
			"move": {"name": "tackle"},
			"version_group_details": [
				{
					"level_learned_at": 1,
					"move_learn_method": {"name": "level-up"},
					"version_group": {"name": "red-blue"}
				}
			]
		}
	]
}`

func newTestClient(t *testing.T, handler http.Handler, maxRetries int) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: maxRetries,
	})
	return client, server
}

func TestFetchPokemon_MapsWirePayload(t *testing.T) {
	t.Parallel()

	var gotPath atomic.Value
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(bulbasaurJSON))
	}), 0)

	ext, err := client.FetchPokemon(context.Background(), "  Bulbasaur ")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if path, _ := gotPath.Load().(string); path != "/pokemon/bulbasaur" {
		t.Fatalf("identifier must be lowercased in the path, got %q", path)
	}
	if ext.ExternalID != 1 || ext.Name != "bulbasaur" {
		t.Fatalf("unexpected identity: %+v", ext)
	}
	if ext.Species == nil || *ext.Species != "bulbasaur" {
		t.Fatalf("species must come from species.name, got %v", ext.Species)
	}
	if ext.Form == nil || *ext.Form != "bulbasaur" {
		t.Fatalf("form must come from forms[0].name, got %v", ext.Form)
	}
	if ext.Sprites.FrontDefault == nil || *ext.Sprites.FrontDefault != "https://img.example/1/front.png" {
		t.Fatalf("unexpected front_default sprite: %v", ext.Sprites.FrontDefault)
	}
	if ext.Sprites.FrontShiny != nil {
		t.Fatalf("absent sprite keys must stay nil, got %v", ext.Sprites.FrontShiny)
	}
	if len(ext.Types) != 2 || ext.Types[1].Name != "poison" || *ext.Types[1].Slot != 2 {
		t.Fatalf("unexpected types: %+v", ext.Types)
	}
	if len(ext.Abilities) != 2 || !*ext.Abilities[1].IsHidden {
		t.Fatalf("unexpected abilities: %+v", ext.Abilities)
	}
	if len(ext.Stats) != 2 || *ext.Stats[1].BaseStat != 0 {
		t.Fatalf("zero base_stat must survive decoding: %+v", ext.Stats)
	}
	if len(ext.Moves) != 1 || ext.Moves[0].Name != "tackle" {
		t.Fatalf("unexpected moves: %+v", ext.Moves)
	}
	detail := ext.Moves[0].VersionGroupDetails[0]
	if *detail.LevelLearnedAt != 1 || *detail.MoveLearnMethod != "level-up" || *detail.VersionGroup != "red-blue" {
		t.Fatalf("unexpected learnset detail: %+v", detail)
	}
}

func TestFetchPokemon_UnknownIdentifierIsNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	}), 2)

	_, err := client.FetchPokemon(context.Background(), "missingno")
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected usecase.ErrNotFound, got %v", err)
	}
}

func TestFetchPokemon_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(bulbasaurJSON))
	}), 1)

	ext, err := client.FetchPokemon(context.Background(), "bulbasaur")
	if err != nil {
		t.Fatalf("fetch after retry: %v", err)
	}
	if ext.ExternalID != 1 {
		t.Fatalf("unexpected record: %+v", ext)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}
}

func TestFetchPokemon_NonRetryableStatusFailsImmediately(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}), 3)

	_, err := client.FetchPokemon(context.Background(), "bulbasaur")
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx must not retry, got %d calls", calls.Load())
	}
}

func TestFetchPokemon_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: 0,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.FetchPokemon(context.Background(), "bulbasaur"); err == nil {
			t.Fatal("expected failure while provider is down")
		}
	}

	before := calls.Load()
	_, err := client.FetchPokemon(context.Background(), "bulbasaur")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected usecase.ErrDependencyUnavailable, got %v", err)
	}
	if calls.Load() != before {
		t.Fatal("open circuit must not reach the provider")
	}
}

func TestFetchPokemon_BlankIdentifier(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{})
	if _, err := client.FetchPokemon(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for a blank identifier")
	}
}
