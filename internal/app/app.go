package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pokeworks/pokedex-backend/internal/config"
	"github.com/pokeworks/pokedex-backend/internal/domain/pokemon"
	"github.com/pokeworks/pokedex-backend/internal/infrastructure/repository/cached"
	"github.com/pokeworks/pokedex-backend/internal/infrastructure/repository/postgres"
	"github.com/pokeworks/pokedex-backend/internal/interfaces/httpapi"
	"github.com/pokeworks/pokedex-backend/internal/platform/cache"
	"github.com/pokeworks/pokedex-backend/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// OpenDB connects to Postgres with OpenTelemetry query tracing attached.
func OpenDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// NewPokemonRepository builds the persistence stack for pokemons,
// wrapping the Postgres repository in a read cache when enabled.
func NewPokemonRepository(db *sqlx.DB, cfg config.Config) pokemon.Repository {
	repo := postgres.NewPokemonRepository(db)
	if !cfg.CacheEnabled {
		return repo
	}

	return cached.NewPokemonRepository(repo, cache.NewStore(cfg.CacheTTL))
}

// NewHTTPServer wires the whole API: repositories, services, handlers
// and middleware. The returned cleanup closes the database handle.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	db, err := OpenDB(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}

	pokemonRepo := NewPokemonRepository(db, cfg)
	teamRepo := postgres.NewTeamRepository(db)

	pokemonSvc := usecase.NewPokemonService(pokemonRepo, usecase.SearchConfig{
		DefaultLimit: cfg.SearchDefaultLimit,
		MaxLimit:     cfg.SearchMaxLimit,
	}, logger)
	teamSvc := usecase.NewTeamService(teamRepo, pokemonRepo, logger)

	handler := httpapi.NewHandler(pokemonSvc, teamSvc, logger)
	router := httpapi.NewRouter(handler, cfg.TeamAuthToken, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, db.Close, nil
}
