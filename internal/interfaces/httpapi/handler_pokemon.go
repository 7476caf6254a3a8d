package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/pokeworks/pokedex-backend/internal/usecase"
)

type searchPokemonsRequest struct {
	Query string `validate:"required"`
	Limit int    `validate:"omitempty,min=1,max=100"`
}

func (h *Handler) ListPokemons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPokemons")
	defer span.End()

	items, err := h.pokemonService.List(ctx, r.URL.Query().Get("sort"))
	if err != nil {
		h.logger.WarnContext(ctx, "list pokemons failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, summariesToDTO(items))
}

func (h *Handler) GetPokemon(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPokemon")
	defer span.End()

	externalID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: pokemon id must be an integer", usecase.ErrInvalidInput))
		return
	}

	rec, err := h.pokemonService.Get(ctx, externalID)
	if err != nil {
		h.logger.WarnContext(ctx, "get pokemon failed", "external_id", externalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, recordToDetailDTO(rec))
}

func (h *Handler) SearchPokemons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchPokemons")
	defer span.End()

	query := r.URL.Query()
	limit, err := parseOptionalInt(query.Get("limit"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
		return
	}

	req := searchPokemonsRequest{
		Query: query.Get("query"),
		Limit: limit,
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.pokemonService.Search(ctx, req.Query, req.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "search pokemons failed", "query", req.Query, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, summariesToDTO(items))
}

func (h *Handler) ListPokemonsPaged(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPokemonsPaged")
	defer span.End()

	query := r.URL.Query()
	limit, err := parseOptionalInt(query.Get("limit"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
		return
	}
	offset, err := parseOptionalInt(query.Get("offset"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: offset must be an integer", usecase.ErrInvalidInput))
		return
	}

	page, err := h.pokemonService.Page(ctx, query.Get("sort"), limit, offset)
	if err != nil {
		h.logger.WarnContext(ctx, "page pokemons failed", "limit", limit, "offset", offset, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, pagedPokemonsDTO{
		Data:     summariesToDTO(page.Items),
		Metadata: pageMetadata(r, page),
	})
}

// pageMetadata derives the navigation block from the served window.
// Links reuse the request path and query, rewriting limit and offset.
func pageMetadata(r *http.Request, page usecase.PagedPokemons) pageMetadataDTO {
	pages := 0
	if page.Total > 0 {
		pages = (page.Total + page.Limit - 1) / page.Limit
	}

	current := 1
	if page.Offset > 0 {
		current = page.Offset/page.Limit + 1
	}

	var next, previous *string
	if page.Offset+page.Limit < page.Total {
		u := pageURL(r, page.Limit, page.Offset+page.Limit)
		next = &u
	}
	if page.Offset-page.Limit >= 0 {
		u := pageURL(r, page.Limit, page.Offset-page.Limit)
		previous = &u
	}

	return pageMetadataDTO{
		Next:     next,
		Previous: previous,
		Total:    page.Total,
		Pages:    pages,
		Page:     current,
	}
}

func pageURL(r *http.Request, limit, offset int) string {
	u := *r.URL
	query := u.Query()
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))
	u.RawQuery = query.Encode()

	return u.String()
}

func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	return strconv.Atoi(raw)
}
