package httpapi

import (
	"net/http"
	"testing"
)

func TestTeamRoutes_RequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/teams", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if got, _ := body["error"].(string); got != "Unauthorized" {
		t.Fatalf("expected Unauthorized title, got %v", body["error"])
	}
	if got, _ := body["error_message"].(string); got != "Invalid or missing authorization token" {
		t.Fatalf("unexpected error_message: %v", body["error_message"])
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/teams", "wrong-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 with wrong token, got %d", rec.Code)
	}
}

func TestCreateTeam(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/teams", testTeamToken, `{"name":"Kanto Starters"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created map[string]any
	decodeBody(t, rec, &created)
	if got, _ := created["name"].(string); got != "Kanto Starters" {
		t.Fatalf("expected created name, got %v", created["name"])
	}
	pokemons, ok := created["pokemons"].([]any)
	if !ok || len(pokemons) != 0 {
		t.Fatalf("expected empty pokemons array, got %v", created["pokemons"])
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/teams", testTeamToken, `{"name":"Kanto Starters"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422 for duplicate name, got %d", rec.Code)
	}
}

func TestCreateTeam_InvalidPayload(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/teams", testTeamToken, `{"name":""}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422 for blank name, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/teams", testTeamToken, `{not json`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422 for malformed JSON, got %d", rec.Code)
	}
}

func TestSetTeamPokemons(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/teams", testTeamToken, `{"name":"Thunder Squad"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &created)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/teams/1", testTeamToken, `{"pokemons":[25,1,4]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated struct {
		Pokemons []int `json:"pokemons"`
	}
	decodeBody(t, rec, &updated)
	if len(updated.Pokemons) != 3 || updated.Pokemons[0] != 25 || updated.Pokemons[1] != 1 || updated.Pokemons[2] != 4 {
		t.Fatalf("expected roster [25 1 4] in attach order, got %v", updated.Pokemons)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/teams/1", testTeamToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	decodeBody(t, rec, &updated)
	if len(updated.Pokemons) != 3 {
		t.Fatalf("expected persisted roster, got %v", updated.Pokemons)
	}
}

func TestSetTeamPokemons_Rejections(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/teams", testTeamToken, `{"name":"Edge Cases"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"duplicate ids", `{"pokemons":[25,25]}`, http.StatusUnprocessableEntity},
		{"over roster bound", `{"pokemons":[1,4,25,100,101,102,103]}`, http.StatusUnprocessableEntity},
		{"empty roster", `{"pokemons":[]}`, http.StatusUnprocessableEntity},
		{"unknown pokemon", `{"pokemons":[9999]}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/teams/1", testTeamToken, tc.body)
		if rec.Code != tc.want {
			t.Fatalf("%s: expected status %d, got %d: %s", tc.name, tc.want, rec.Code, rec.Body.String())
		}
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/teams/42", testTeamToken, `{"pokemons":[25]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown team, got %d", rec.Code)
	}
}

func TestListTeams(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/teams", testTeamToken, `{"name":"Alpha"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	rec = doRequest(t, router, http.MethodPost, "/api/v1/teams", testTeamToken, `{"name":"Beta"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/teams", testTeamToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var teams []map[string]any
	decodeBody(t, rec, &teams)
	if len(teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(teams))
	}
}
