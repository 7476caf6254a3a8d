package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pokeworks/pokedex-backend/internal/domain/team"
	qb "github.com/pokeworks/pokedex-backend/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("id", "name", "created_at", "updated_at").From("teams").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	if err := r.attachMembers(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	query, args, err := qb.Select("id", "name", "created_at", "updated_at").From("teams").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team id=%d: %w", id, err)
	}

	out := []team.Team{row.toDomain()}
	if err := r.attachMembers(ctx, out); err != nil {
		return team.Team{}, false, err
	}
	return out[0], true, nil
}

func (r *TeamRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM teams WHERE LOWER(name) = LOWER($1))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name); err != nil {
		return false, fmt.Errorf("check team name: %w", err)
	}
	return exists, nil
}

func (r *TeamRepository) Create(ctx context.Context, name string) (team.Team, error) {
	const query = `
INSERT INTO teams (name)
VALUES ($1)
RETURNING id, name, created_at, updated_at`

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		return team.Team{}, fmt.Errorf("insert team %q: %w", name, err)
	}
	return row.toDomain(), nil
}

// SetPokemons replaces the whole membership in one transaction, keeping
// the given order as each row's position.
func (r *TeamRepository) SetPokemons(ctx context.Context, teamID int64, pokemonIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team membership: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const clearQuery = `DELETE FROM team_pokemons WHERE team_id = $1`
	if _, err := tx.ExecContext(ctx, clearQuery, teamID); err != nil {
		return fmt.Errorf("clear team membership team_id=%d: %w", teamID, err)
	}

	const insertQuery = `
INSERT INTO team_pokemons (team_id, pokemon_id, position)
VALUES ($1, $2, $3)`
	for position, pokemonID := range pokemonIDs {
		if _, err := tx.ExecContext(ctx, insertQuery, teamID, pokemonID, position+1); err != nil {
			return fmt.Errorf("attach pokemon id=%d to team id=%d: %w", pokemonID, teamID, err)
		}
	}

	const touchQuery = `UPDATE teams SET updated_at = NOW() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, touchQuery, teamID); err != nil {
		return fmt.Errorf("touch team id=%d: %w", teamID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team membership tx: %w", err)
	}
	return nil
}

// attachMembers fills PokemonExternalIDs, resolved through the pokemons
// table so responses carry public ids.
func (r *TeamRepository) attachMembers(ctx context.Context, teams []team.Team) error {
	if len(teams) == 0 {
		return nil
	}

	ids := make([]any, 0, len(teams))
	for _, item := range teams {
		ids = append(ids, item.ID)
	}

	query, args, err := qb.Select("tp.team_id", "p.external_id").
		From("team_pokemons tp").
		Join("JOIN pokemons p ON p.id = tp.pokemon_id").
		Where(qb.In("tp.team_id", ids)).
		OrderBy("tp.team_id", "tp.position").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build select team members query: %w", err)
	}

	var rows []struct {
		TeamID     int64 `db:"team_id"`
		ExternalID int   `db:"external_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return fmt.Errorf("select team members: %w", err)
	}

	membersByTeam := make(map[int64][]int, len(teams))
	for _, row := range rows {
		membersByTeam[row.TeamID] = append(membersByTeam[row.TeamID], row.ExternalID)
	}

	for i := range teams {
		teams[i].PokemonExternalIDs = membersByTeam[teams[i].ID]
	}
	return nil
}
