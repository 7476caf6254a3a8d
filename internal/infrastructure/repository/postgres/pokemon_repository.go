package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/pokeworks/pokedex-backend/internal/domain/pokemon"
	qb "github.com/pokeworks/pokedex-backend/internal/platform/querybuilder"
)

type PokemonRepository struct {
	db *sqlx.DB
}

var pokemonSelectColumns = []string{
	"id",
	"external_id",
	"name",
	"height",
	"weight",
	"base_experience",
	`"order"`,
	"species",
	"form",
	"front_default",
	"back_default",
	"front_shiny",
	"back_shiny",
	"front_female",
	"back_female",
	"front_shiny_female",
	"back_shiny_female",
	"is_default",
	"created_at",
	"updated_at",
}

func NewPokemonRepository(db *sqlx.DB) *PokemonRepository {
	return &PokemonRepository{db: db}
}

// Import upserts the row keyed by external_id and reconciles every
// relationship inside one transaction. Types, abilities and stats always
// replace the stored set; movePolicy decides whether moves do too or
// only merge in.
func (r *PokemonRepository) Import(ctx context.Context, rec pokemon.Record, movePolicy pokemon.SyncPolicy) (pokemon.ImportResult, error) {
	if err := rec.Pokemon.Validate(); err != nil {
		return pokemon.ImportResult{}, fmt.Errorf("validate pokemon: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return pokemon.ImportResult{}, fmt.Errorf("begin tx for pokemon import: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsertQuery = `
INSERT INTO pokemons (
    external_id, name, height, weight, base_experience, "order",
    species, form,
    front_default, back_default, front_shiny, back_shiny,
    front_female, back_female, front_shiny_female, back_shiny_female,
    is_default
) VALUES (
    :external_id, :name, :height, :weight, :base_experience, :order,
    :species, :form,
    :front_default, :back_default, :front_shiny, :back_shiny,
    :front_female, :back_female, :front_shiny_female, :back_shiny_female,
    :is_default
)
ON CONFLICT (external_id) DO UPDATE SET
    name = EXCLUDED.name,
    height = EXCLUDED.height,
    weight = EXCLUDED.weight,
    base_experience = EXCLUDED.base_experience,
    "order" = EXCLUDED."order",
    species = EXCLUDED.species,
    form = EXCLUDED.form,
    front_default = EXCLUDED.front_default,
    back_default = EXCLUDED.back_default,
    front_shiny = EXCLUDED.front_shiny,
    back_shiny = EXCLUDED.back_shiny,
    front_female = EXCLUDED.front_female,
    back_female = EXCLUDED.back_female,
    front_shiny_female = EXCLUDED.front_shiny_female,
    back_shiny_female = EXCLUDED.back_shiny_female,
    is_default = EXCLUDED.is_default,
    updated_at = NOW()
RETURNING id, (xmax = 0) AS created`

	upsertArgs := map[string]any{
		"external_id":        rec.Pokemon.ExternalID,
		"name":               rec.Pokemon.Name,
		"height":             rec.Pokemon.Height,
		"weight":             rec.Pokemon.Weight,
		"base_experience":    rec.Pokemon.BaseExperience,
		"order":              rec.Pokemon.Order,
		"species":            rec.Pokemon.Species,
		"form":               rec.Pokemon.Form,
		"front_default":      rec.Pokemon.Sprites.FrontDefault,
		"back_default":       rec.Pokemon.Sprites.BackDefault,
		"front_shiny":        rec.Pokemon.Sprites.FrontShiny,
		"back_shiny":         rec.Pokemon.Sprites.BackShiny,
		"front_female":       rec.Pokemon.Sprites.FrontFemale,
		"back_female":        rec.Pokemon.Sprites.BackFemale,
		"front_shiny_female": rec.Pokemon.Sprites.FrontShinyFemale,
		"back_shiny_female":  rec.Pokemon.Sprites.BackShinyFemale,
		"is_default":         rec.Pokemon.IsDefault,
	}
	upsertSQL, upsertSQLArgs, err := sqlx.Named(upsertQuery, upsertArgs)
	if err != nil {
		return pokemon.ImportResult{}, fmt.Errorf("bind upsert pokemon query: %w", err)
	}
	upsertSQL = tx.Rebind(upsertSQL)

	// xmax = 0 only holds for a freshly inserted row version.
	var row struct {
		ID      int64 `db:"id"`
		Created bool  `db:"created"`
	}
	if err := tx.GetContext(ctx, &row, upsertSQL, upsertSQLArgs...); err != nil {
		return pokemon.ImportResult{}, fmt.Errorf("upsert pokemon external_id=%d: %w", rec.Pokemon.ExternalID, err)
	}

	if err := r.syncTypes(ctx, tx, row.ID, rec.Types); err != nil {
		return pokemon.ImportResult{}, err
	}
	if err := r.syncAbilities(ctx, tx, row.ID, rec.Abilities); err != nil {
		return pokemon.ImportResult{}, err
	}
	if err := r.syncStats(ctx, tx, row.ID, rec.Stats); err != nil {
		return pokemon.ImportResult{}, err
	}
	if err := r.syncMoves(ctx, tx, row.ID, rec.Moves, movePolicy); err != nil {
		return pokemon.ImportResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return pokemon.ImportResult{}, fmt.Errorf("commit pokemon import tx: %w", err)
	}

	return pokemon.ImportResult{
		PokemonID:         row.ID,
		Created:           row.Created,
		TypesAttached:     len(rec.Types),
		AbilitiesAttached: len(rec.Abilities),
		StatsAttached:     len(rec.Stats),
		MovesAttached:     len(rec.Moves),
	}, nil
}

func (r *PokemonRepository) syncTypes(ctx context.Context, tx *sqlx.Tx, pokemonID int64, items []pokemon.TypeSlot) error {
	ids := make([]any, 0, len(items))
	for _, item := range items {
		typeID, err := findOrCreateLookup(ctx, tx, "types", item.Name)
		if err != nil {
			return err
		}
		ids = append(ids, typeID)

		const upsert = `
INSERT INTO pokemon_types (pokemon_id, type_id, slot)
VALUES ($1, $2, $3)
ON CONFLICT (pokemon_id, type_id) DO UPDATE SET slot = EXCLUDED.slot`
		if _, err := tx.ExecContext(ctx, upsert, pokemonID, typeID, item.Slot); err != nil {
			return fmt.Errorf("attach type %s: %w", item.Name, err)
		}
	}

	return deleteStale(ctx, tx, "pokemon_types", "type_id", pokemonID, ids)
}

func (r *PokemonRepository) syncAbilities(ctx context.Context, tx *sqlx.Tx, pokemonID int64, items []pokemon.AbilitySlot) error {
	ids := make([]any, 0, len(items))
	for _, item := range items {
		abilityID, err := findOrCreateLookup(ctx, tx, "abilities", item.Name)
		if err != nil {
			return err
		}
		ids = append(ids, abilityID)

		const upsert = `
INSERT INTO pokemon_abilities (pokemon_id, ability_id, slot, is_hidden)
VALUES ($1, $2, $3, $4)
ON CONFLICT (pokemon_id, ability_id) DO UPDATE SET
    slot = EXCLUDED.slot,
    is_hidden = EXCLUDED.is_hidden`
		if _, err := tx.ExecContext(ctx, upsert, pokemonID, abilityID, item.Slot, item.IsHidden); err != nil {
			return fmt.Errorf("attach ability %s: %w", item.Name, err)
		}
	}

	return deleteStale(ctx, tx, "pokemon_abilities", "ability_id", pokemonID, ids)
}

func (r *PokemonRepository) syncStats(ctx context.Context, tx *sqlx.Tx, pokemonID int64, items []pokemon.StatValue) error {
	ids := make([]any, 0, len(items))
	for _, item := range items {
		statID, err := findOrCreateLookup(ctx, tx, "stats", item.Name)
		if err != nil {
			return err
		}
		ids = append(ids, statID)

		const upsert = `
INSERT INTO pokemon_stats (pokemon_id, stat_id, base_stat, effort)
VALUES ($1, $2, $3, $4)
ON CONFLICT (pokemon_id, stat_id) DO UPDATE SET
    base_stat = EXCLUDED.base_stat,
    effort = EXCLUDED.effort`
		if _, err := tx.ExecContext(ctx, upsert, pokemonID, statID, item.BaseStat, item.Effort); err != nil {
			return fmt.Errorf("attach stat %s: %w", item.Name, err)
		}
	}

	return deleteStale(ctx, tx, "pokemon_stats", "stat_id", pokemonID, ids)
}

func (r *PokemonRepository) syncMoves(ctx context.Context, tx *sqlx.Tx, pokemonID int64, items []pokemon.MoveEntry, policy pokemon.SyncPolicy) error {
	ids := make([]any, 0, len(items))
	for _, item := range items {
		moveID, err := findOrCreateLookup(ctx, tx, "moves", item.Name)
		if err != nil {
			return err
		}
		ids = append(ids, moveID)

		details := item.VersionGroupDetails
		if details == nil {
			details = []pokemon.VersionGroupDetail{}
		}
		blob, err := sonic.Marshal(details)
		if err != nil {
			return fmt.Errorf("serialize learnset for move %s: %w", item.Name, err)
		}

		const upsert = `
INSERT INTO pokemon_moves (pokemon_id, move_id, version_group_details)
VALUES ($1, $2, $3)
ON CONFLICT (pokemon_id, move_id) DO UPDATE SET
    version_group_details = EXCLUDED.version_group_details`
		if _, err := tx.ExecContext(ctx, upsert, pokemonID, moveID, blob); err != nil {
			return fmt.Errorf("attach move %s: %w", item.Name, err)
		}
	}

	if policy == pokemon.AdditiveMerge {
		return nil
	}
	return deleteStale(ctx, tx, "pokemon_moves", "move_id", pokemonID, ids)
}

// deleteStale drops join rows outside the incoming set. An empty set
// clears the whole relationship.
func deleteStale(ctx context.Context, tx *sqlx.Tx, table, refColumn string, pokemonID int64, keep []any) error {
	query, args, err := qb.DeleteFrom(table).
		Where(
			qb.Eq("pokemon_id", pokemonID),
			qb.NotIn(refColumn, keep),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete stale %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete stale %s rows: %w", table, err)
	}
	return nil
}

// findOrCreateLookup resolves a unique name to its id, inserting it on
// first sight. DO NOTHING keeps a concurrent insert from failing the tx.
func findOrCreateLookup(ctx context.Context, tx *sqlx.Tx, table, name string) (int64, error) {
	insert := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id`, table)

	var id int64
	err := tx.GetContext(ctx, &id, insert, name)
	if err == nil {
		return id, nil
	}
	if !isNotFound(err) {
		return 0, fmt.Errorf("insert %s %q: %w", table, name, err)
	}

	selectQuery := fmt.Sprintf(`SELECT id FROM %s WHERE name = $1`, table)
	if err := tx.GetContext(ctx, &id, selectQuery, name); err != nil {
		return 0, fmt.Errorf("select %s %q: %w", table, name, err)
	}
	return id, nil
}

func (r *PokemonRepository) FindByExternalID(ctx context.Context, externalID int) (pokemon.Record, bool, error) {
	query, args, err := qb.Select(pokemonSelectColumns...).From("pokemons").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return pokemon.Record{}, false, fmt.Errorf("build select pokemon query: %w", err)
	}

	var row pokemonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pokemon.Record{}, false, nil
		}
		return pokemon.Record{}, false, fmt.Errorf("select pokemon external_id=%d: %w", externalID, err)
	}

	rec := pokemon.Record{Pokemon: row.toDomain()}

	const typesQuery = `
SELECT t.name, pt.slot
FROM pokemon_types pt
JOIN types t ON t.id = pt.type_id
WHERE pt.pokemon_id = $1
ORDER BY pt.slot, t.name`
	var typeRows []struct {
		Name string `db:"name"`
		Slot int    `db:"slot"`
	}
	if err := r.db.SelectContext(ctx, &typeRows, typesQuery, row.ID); err != nil {
		return pokemon.Record{}, false, fmt.Errorf("list pokemon types: %w", err)
	}
	for _, item := range typeRows {
		rec.Types = append(rec.Types, pokemon.TypeSlot{Name: item.Name, Slot: item.Slot})
	}

	const abilitiesQuery = `
SELECT a.name, pa.slot, pa.is_hidden
FROM pokemon_abilities pa
JOIN abilities a ON a.id = pa.ability_id
WHERE pa.pokemon_id = $1
ORDER BY pa.slot, a.name`
	var abilityRows []struct {
		Name     string `db:"name"`
		Slot     int    `db:"slot"`
		IsHidden bool   `db:"is_hidden"`
	}
	if err := r.db.SelectContext(ctx, &abilityRows, abilitiesQuery, row.ID); err != nil {
		return pokemon.Record{}, false, fmt.Errorf("list pokemon abilities: %w", err)
	}
	for _, item := range abilityRows {
		rec.Abilities = append(rec.Abilities, pokemon.AbilitySlot{Name: item.Name, Slot: item.Slot, IsHidden: item.IsHidden})
	}

	const statsQuery = `
SELECT s.name, ps.base_stat, ps.effort
FROM pokemon_stats ps
JOIN stats s ON s.id = ps.stat_id
WHERE ps.pokemon_id = $1
ORDER BY ps.id`
	var statRows []struct {
		Name     string `db:"name"`
		BaseStat int    `db:"base_stat"`
		Effort   int    `db:"effort"`
	}
	if err := r.db.SelectContext(ctx, &statRows, statsQuery, row.ID); err != nil {
		return pokemon.Record{}, false, fmt.Errorf("list pokemon stats: %w", err)
	}
	for _, item := range statRows {
		rec.Stats = append(rec.Stats, pokemon.StatValue{Name: item.Name, BaseStat: item.BaseStat, Effort: item.Effort})
	}

	const movesQuery = `
SELECT m.name, pm.version_group_details
FROM pokemon_moves pm
JOIN moves m ON m.id = pm.move_id
WHERE pm.pokemon_id = $1
ORDER BY pm.id`
	var moveRows []struct {
		Name                string `db:"name"`
		VersionGroupDetails []byte `db:"version_group_details"`
	}
	if err := r.db.SelectContext(ctx, &moveRows, movesQuery, row.ID); err != nil {
		return pokemon.Record{}, false, fmt.Errorf("list pokemon moves: %w", err)
	}
	for _, item := range moveRows {
		entry := pokemon.MoveEntry{Name: item.Name}
		if len(item.VersionGroupDetails) > 0 {
			if err := sonic.Unmarshal(item.VersionGroupDetails, &entry.VersionGroupDetails); err != nil {
				return pokemon.Record{}, false, fmt.Errorf("decode learnset for move %s: %w", item.Name, err)
			}
		}
		rec.Moves = append(rec.Moves, entry)
	}

	return rec, true, nil
}

func (r *PokemonRepository) ExistsByExternalIDOrName(ctx context.Context, externalID int, name string) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM pokemons
    WHERE external_id = $1 OR LOWER(name) = LOWER($2)
)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, externalID, name); err != nil {
		return false, fmt.Errorf("check pokemon existence: %w", err)
	}
	return exists, nil
}

func (r *PokemonRepository) GetByExternalIDs(ctx context.Context, externalIDs []int) ([]pokemon.Pokemon, error) {
	if len(externalIDs) == 0 {
		return []pokemon.Pokemon{}, nil
	}

	query, args, err := qb.Select(pokemonSelectColumns...).From("pokemons").
		Where(qb.In("external_id", intSliceToAny(externalIDs))).
		OrderBy("external_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pokemons by external ids query: %w", err)
	}

	var rows []pokemonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pokemons by external ids: %w", err)
	}

	out := make([]pokemon.Pokemon, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PokemonRepository) List(ctx context.Context, sort pokemon.Sort) ([]pokemon.Summary, error) {
	query, args, err := qb.Select("id", "external_id", "name", "front_default").From("pokemons").
		OrderBy(sortOrder(sort)...).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pokemons query: %w", err)
	}

	var rows []summaryRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pokemons: %w", err)
	}

	return r.hydrateSummaries(ctx, rows)
}

func (r *PokemonRepository) Page(ctx context.Context, sort pokemon.Sort, limit, offset int) ([]pokemon.Summary, int, error) {
	const countQuery = `SELECT COUNT(*) FROM pokemons`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, fmt.Errorf("count pokemons: %w", err)
	}

	query, args, err := qb.Select("id", "external_id", "name", "front_default").From("pokemons").
		OrderBy(sortOrder(sort)...).
		Limit(limit).
		Offset(offset).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build page pokemons query: %w", err)
	}

	var rows []summaryRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("page pokemons: %w", err)
	}

	items, err := r.hydrateSummaries(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PokemonRepository) Search(ctx context.Context, query string, limit int) ([]pokemon.Summary, error) {
	needle := "%" + query + "%"
	sql, args, err := qb.Select("DISTINCT ON (p.external_id) p.id", "p.external_id", "p.name", "p.front_default").
		From("pokemons p").
		Join("LEFT JOIN pokemon_types pt ON pt.pokemon_id = p.id").
		Join("LEFT JOIN types t ON t.id = pt.type_id").
		Where(qb.Or(
			qb.ILike("p.name", needle),
			qb.ILike("t.name", needle),
		)).
		OrderBy("p.external_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build search pokemons query: %w", err)
	}

	var rows []summaryRowModel
	if err := r.db.SelectContext(ctx, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("search pokemons: %w", err)
	}

	return r.hydrateSummaries(ctx, rows)
}

func (r *PokemonRepository) EntityCounts(ctx context.Context) (pokemon.EntityCounts, error) {
	const query = `
SELECT
    (SELECT COUNT(*) FROM pokemons)  AS pokemons,
    (SELECT COUNT(*) FROM types)     AS types,
    (SELECT COUNT(*) FROM abilities) AS abilities,
    (SELECT COUNT(*) FROM moves)     AS moves,
    (SELECT COUNT(*) FROM stats)     AS stats`

	var row struct {
		Pokemons  int `db:"pokemons"`
		Types     int `db:"types"`
		Abilities int `db:"abilities"`
		Moves     int `db:"moves"`
		Stats     int `db:"stats"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return pokemon.EntityCounts{}, fmt.Errorf("count entities: %w", err)
	}

	return pokemon.EntityCounts{
		Pokemons:  row.Pokemons,
		Types:     row.Types,
		Abilities: row.Abilities,
		Moves:     row.Moves,
		Stats:     row.Stats,
	}, nil
}

// hydrateSummaries batch-loads type badges for the given listing rows.
func (r *PokemonRepository) hydrateSummaries(ctx context.Context, rows []summaryRowModel) ([]pokemon.Summary, error) {
	out := make([]pokemon.Summary, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]any, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	query, args, err := qb.Select("pt.pokemon_id", "t.name", "pt.slot").
		From("pokemon_types pt").
		Join("JOIN types t ON t.id = pt.type_id").
		Where(qb.In("pt.pokemon_id", ids)).
		OrderBy("pt.pokemon_id", "pt.slot").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list summary types query: %w", err)
	}

	var typeRows []struct {
		PokemonID int64  `db:"pokemon_id"`
		Name      string `db:"name"`
		Slot      int    `db:"slot"`
	}
	if err := r.db.SelectContext(ctx, &typeRows, query, args...); err != nil {
		return nil, fmt.Errorf("list summary types: %w", err)
	}

	typesByPokemon := make(map[int64][]pokemon.TypeSlot, len(rows))
	for _, item := range typeRows {
		typesByPokemon[item.PokemonID] = append(typesByPokemon[item.PokemonID], pokemon.TypeSlot{Name: item.Name, Slot: item.Slot})
	}

	for _, row := range rows {
		summary := row.toSummary()
		summary.Types = typesByPokemon[row.ID]
		out = append(out, summary)
	}
	return out, nil
}

func sortOrder(sort pokemon.Sort) []string {
	switch sort {
	case pokemon.SortNameAsc:
		return []string{"name ASC", "external_id ASC"}
	case pokemon.SortNameDesc:
		return []string{"name DESC", "external_id ASC"}
	case pokemon.SortIDDesc:
		return []string{"external_id DESC"}
	default:
		return []string{"external_id ASC"}
	}
}

func intSliceToAny(items []int) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
