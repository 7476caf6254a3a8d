package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("pokemons").
		Where(Eq("external_id", 25), IsNull("deleted_at")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM pokemons WHERE external_id = $1 AND deleted_at IS NULL ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != 25 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_JoinAndOffset(t *testing.T) {
	query, args, err := Select("p.id", "p.name").
		From("pokemons p").
		Join("JOIN pokemon_types pt ON pt.pokemon_id = p.id").
		Where(Eq("pt.type_id", int64(3))).
		OrderBy("p.external_id ASC").
		Limit(10).
		Offset(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT p.id, p.name FROM pokemons p JOIN pokemon_types pt ON pt.pokemon_id = p.id WHERE pt.type_id = $1 ORDER BY p.external_id ASC LIMIT 10 OFFSET 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_OrWithILike(t *testing.T) {
	query, args, err := Select("id").
		From("pokemons").
		Where(Or(ILike("name", "%chu%"), ILike("species", "%chu%"))).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM pokemons WHERE (name ILIKE $1 OR species ILIKE $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "%chu%" || args[1] != "%chu%" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("types").
		Columns("name").
		Values("electric").
		Suffix("ON CONFLICT (name) DO NOTHING RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO types (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "electric" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("pokemons").
		Set("name", "raichu").
		SetExpr("updated_at", "NOW()").
		Where(Eq("external_id", 26)).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE pokemons SET name = $1, updated_at = NOW() WHERE external_id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "raichu" || args[1] != 26 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("pokemon_types").
		Where(Eq("pokemon_id", int64(1)), NotIn("type_id", []any{int64(2), int64(3)})).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM pokemon_types WHERE pokemon_id = $1 AND type_id NOT IN ($2, $3)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_EmptyNotInDeletesAll(t *testing.T) {
	query, args, err := DeleteFrom("pokemon_moves").
		Where(Eq("pokemon_id", int64(1)), NotIn("move_id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM pokemon_moves WHERE pokemon_id = $1 AND 1=1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_RequiresConditions(t *testing.T) {
	if _, _, err := DeleteFrom("pokemon_types").ToSQL(); err == nil {
		t.Fatalf("expected error for delete without conditions")
	}
}
