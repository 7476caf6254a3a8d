package httpapi

import (
	"net/http"
	"net/url"
	"testing"
)

func TestListPokemons_BareArrayShape(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/pokemons?sort=name-asc", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body []map[string]any
	decodeBody(t, rec, &body)
	if len(body) != 3 {
		t.Fatalf("expected 3 pokemons, got %d", len(body))
	}
	first := body[0]
	if got, _ := first["name"].(string); got != "bulbasaur" {
		t.Fatalf("expected bulbasaur first under name-asc, got %v", first["name"])
	}
	if got, _ := first["id"].(float64); int(got) != 1 {
		t.Fatalf("expected public id 1, got %v", first["id"])
	}
	sprites, ok := first["sprites"].(map[string]any)
	if !ok {
		t.Fatalf("expected sprites object, got %T", first["sprites"])
	}
	if _, ok := sprites["front_default"]; !ok {
		t.Fatalf("expected front_default sprite key")
	}
	types, ok := first["types"].([]any)
	if !ok || len(types) != 2 {
		t.Fatalf("expected 2 types, got %v", first["types"])
	}
	firstType, _ := types[0].(map[string]any)
	typeRef, _ := firstType["type"].(map[string]any)
	if got, _ := typeRef["name"].(string); got != "grass" {
		t.Fatalf("expected grass at slot 1, got %v", typeRef["name"])
	}
}

func TestListPokemons_InvalidSort(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/pokemons?sort=height-asc", "", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if got, _ := body["error"].(string); got != "Validation Error" {
		t.Fatalf("expected Validation Error title, got %v", body["error"])
	}
	if _, ok := body["error_message"]; !ok {
		t.Fatalf("expected error_message key")
	}
}

func TestGetPokemon_Detail(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/pokemons/25", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if got, _ := body["id"].(float64); int(got) != 25 {
		t.Fatalf("expected id 25, got %v", body["id"])
	}
	if got, _ := body["name"].(string); got != "pikachu" {
		t.Fatalf("expected pikachu, got %v", body["name"])
	}
	abilities, ok := body["abilities"].([]any)
	if !ok || len(abilities) != 2 {
		t.Fatalf("expected 2 abilities, got %v", body["abilities"])
	}
	hidden, _ := abilities[1].(map[string]any)
	if got, _ := hidden["is_hidden"].(bool); !got {
		t.Fatalf("expected second ability hidden")
	}
	sprites, ok := body["sprites"].(map[string]any)
	if !ok {
		t.Fatalf("expected sprites object")
	}
	for _, key := range []string{"front_default", "back_default", "front_shiny", "back_shiny", "front_female", "back_female", "front_shiny_female", "back_shiny_female"} {
		if _, ok := sprites[key]; !ok {
			t.Fatalf("expected sprite key %q", key)
		}
	}
	moves, ok := body["moves"].([]any)
	if !ok || len(moves) == 0 {
		t.Fatalf("expected moves, got %v", body["moves"])
	}
	firstMove, _ := moves[0].(map[string]any)
	if _, ok := firstMove["version_group_details"]; !ok {
		t.Fatalf("expected version_group_details on moves")
	}
}

func TestGetPokemon_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/pokemons/9999", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if got, _ := body["error"].(string); got != "Not Found" {
		t.Fatalf("expected Not Found title, got %v", body["error"])
	}
}

func TestGetPokemon_NonIntegerID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/pokemons/pikachu", "", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
}

func TestSearchPokemons(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/search?query=PIKA", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body []map[string]any
	decodeBody(t, rec, &body)
	if len(body) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(body))
	}
	if got, _ := body[0]["name"].(string); got != "pikachu" {
		t.Fatalf("expected pikachu, got %v", body[0]["name"])
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/search?query=fire", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	decodeBody(t, rec, &body)
	if len(body) != 1 {
		t.Fatalf("expected 1 type-name hit, got %d", len(body))
	}
	if got, _ := body[0]["name"].(string); got != "charmander" {
		t.Fatalf("expected charmander via fire type, got %v", body[0]["name"])
	}
}

func TestSearchPokemons_MissingQuery(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/search", "", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
}

func TestSearchPokemons_NonIntegerLimit(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/search?query=pika&limit=ten", "", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
}

func TestListPokemonsPaged_Metadata(t *testing.T) {
	router, repo := newTestRouter(t)
	for externalID := 100; externalID < 127; externalID++ {
		importFiller(t, repo, externalID)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/v2/pokemons?limit=10&offset=20", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data     []map[string]any `json:"data"`
		Metadata struct {
			Next     *string `json:"next"`
			Previous *string `json:"previous"`
			Total    int     `json:"total"`
			Pages    int     `json:"pages"`
			Page     int     `json:"page"`
		} `json:"metadata"`
	}
	decodeBody(t, rec, &body)

	if body.Metadata.Total != 30 {
		t.Fatalf("expected total 30, got %d", body.Metadata.Total)
	}
	if body.Metadata.Pages != 3 {
		t.Fatalf("expected 3 pages, got %d", body.Metadata.Pages)
	}
	if body.Metadata.Page != 3 {
		t.Fatalf("expected page 3, got %d", body.Metadata.Page)
	}
	if body.Metadata.Next != nil {
		t.Fatalf("expected no next on final page, got %v", *body.Metadata.Next)
	}
	if body.Metadata.Previous == nil {
		t.Fatalf("expected previous link on final page")
	}
	prev, err := url.Parse(*body.Metadata.Previous)
	if err != nil {
		t.Fatalf("parse previous url: %v", err)
	}
	if got := prev.Query().Get("offset"); got != "10" {
		t.Fatalf("expected previous offset 10, got %q", got)
	}
	if got := prev.Query().Get("limit"); got != "10" {
		t.Fatalf("expected previous limit 10, got %q", got)
	}
	if len(body.Data) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(body.Data))
	}
}

func TestListPokemonsPaged_FirstPageDefaults(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v2/pokemons", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Data     []map[string]any `json:"data"`
		Metadata struct {
			Next     *string `json:"next"`
			Previous *string `json:"previous"`
			Total    int     `json:"total"`
			Pages    int     `json:"pages"`
			Page     int     `json:"page"`
		} `json:"metadata"`
	}
	decodeBody(t, rec, &body)

	if body.Metadata.Page != 1 {
		t.Fatalf("expected page 1, got %d", body.Metadata.Page)
	}
	if body.Metadata.Total != 3 {
		t.Fatalf("expected total 3, got %d", body.Metadata.Total)
	}
	if body.Metadata.Pages != 1 {
		t.Fatalf("expected 1 page, got %d", body.Metadata.Pages)
	}
	if body.Metadata.Next != nil || body.Metadata.Previous != nil {
		t.Fatalf("expected no navigation links for a single page")
	}
}

func TestListPokemonsPaged_LinksKeepQueryParams(t *testing.T) {
	router, repo := newTestRouter(t)
	for externalID := 100; externalID < 110; externalID++ {
		importFiller(t, repo, externalID)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/v2/pokemons?limit=5&offset=5&sort=name-asc", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Metadata struct {
			Next     *string `json:"next"`
			Previous *string `json:"previous"`
		} `json:"metadata"`
	}
	decodeBody(t, rec, &body)

	if body.Metadata.Next == nil {
		t.Fatalf("expected next link")
	}
	next, err := url.Parse(*body.Metadata.Next)
	if err != nil {
		t.Fatalf("parse next url: %v", err)
	}
	if got := next.Query().Get("sort"); got != "name-asc" {
		t.Fatalf("expected sort preserved in next link, got %q", got)
	}
	if got := next.Query().Get("offset"); got != "10" {
		t.Fatalf("expected next offset 10, got %q", got)
	}
	if body.Metadata.Previous == nil {
		t.Fatalf("expected previous link")
	}
	prev, err := url.Parse(*body.Metadata.Previous)
	if err != nil {
		t.Fatalf("parse previous url: %v", err)
	}
	if got := prev.Query().Get("offset"); got != "0" {
		t.Fatalf("expected previous offset 0, got %q", got)
	}
}

func TestListPokemonsPaged_NonIntegerOffset(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v2/pokemons?offset=abc", "", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rec.Code)
	}
}
