package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPokemonRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/v1/pokemons", handler.ListPokemons)
	mux.HandleFunc("GET /api/v1/pokemons/{id}", handler.GetPokemon)
	mux.HandleFunc("GET /api/v1/search", handler.SearchPokemons)
	mux.HandleFunc("GET /api/v2/pokemons", handler.ListPokemonsPaged)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler, teamAuthToken string) {
	mux.Handle("GET /api/v1/teams", RequireTeamToken(teamAuthToken, http.HandlerFunc(handler.ListTeams)))
	mux.Handle("POST /api/v1/teams", RequireTeamToken(teamAuthToken, http.HandlerFunc(handler.CreateTeam)))
	mux.Handle("GET /api/v1/teams/{id}", RequireTeamToken(teamAuthToken, http.HandlerFunc(handler.GetTeam)))
	mux.Handle("POST /api/v1/teams/{id}", RequireTeamToken(teamAuthToken, http.HandlerFunc(handler.SetTeamPokemons)))
}
