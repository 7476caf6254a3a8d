package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pokeworks/pokedex-backend/external/pokeapi"
	"github.com/pokeworks/pokedex-backend/internal/app"
	"github.com/pokeworks/pokedex-backend/internal/config"
	"github.com/pokeworks/pokedex-backend/internal/platform/logging"
	"github.com/pokeworks/pokedex-backend/internal/platform/resilience"
	"github.com/pokeworks/pokedex-backend/internal/usecase"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := app.OpenDB(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	repo := app.NewPokemonRepository(db, cfg)

	client := pokeapi.NewClient(pokeapi.ClientConfig{
		BaseURL:    cfg.PokeAPIBaseURL,
		Timeout:    cfg.PokeAPITimeout,
		MaxRetries: cfg.PokeAPIMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.PokeAPICircuitEnabled,
			FailureThreshold: cfg.PokeAPICircuitFailureCount,
			OpenTimeout:      cfg.PokeAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.PokeAPICircuitHalfOpenMaxReq,
		},
	})
	dump := pokeapi.NewFileDump(cfg.DumpFilePath)

	service := usecase.NewImportService(client, dump, repo, usecase.ImportConfig{
		APIMoveLimit: cfg.ImportAPIMoveLimit,
	}, logger)

	switch os.Args[1] {
	case "api":
		runAPIImport(ctx, service, os.Args[2:])
	case "dump":
		runDumpImport(ctx, service, os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}
}

func runAPIImport(ctx context.Context, service *usecase.ImportService, args []string) {
	flags := flag.NewFlagSet("api", flag.ExitOnError)
	force := flags.Bool("force", false, "reimport an already imported pokemon")
	if err := flags.Parse(args); err != nil {
		os.Exit(2)
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: import api [-force] <name-or-id>")
		os.Exit(2)
	}

	started := time.Now()
	rec, result, err := service.ImportFromAPI(ctx, flags.Arg(0), *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}

	action := "updated"
	if result.Created {
		action = "created"
	}
	fmt.Printf("%s %s (id=%d) in %s\n", action, rec.Pokemon.Name, rec.Pokemon.ExternalID, time.Since(started).Round(time.Millisecond))
	fmt.Printf("  types=%d abilities=%d stats=%d moves=%d\n",
		result.TypesAttached, result.AbilitiesAttached, result.StatsAttached, result.MovesAttached)
}

func runDumpImport(ctx context.Context, service *usecase.ImportService, args []string) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	started := time.Now()
	report, err := service.ImportFromDump(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dump import failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("dump import finished in %s\n", time.Since(started).Round(time.Millisecond))
	fmt.Printf("  total=%d created=%d updated=%d skipped=%d\n",
		report.Total, report.Created, report.Updated, report.Skipped)
	for _, failure := range report.Errors {
		fmt.Printf("  record %d (%s, id=%d) failed: %s\n",
			failure.Index, failure.Name, failure.ExternalID, failure.Reason)
	}
	fmt.Printf("  totals: pokemons=%d types=%d abilities=%d moves=%d stats=%d\n",
		report.Counts.Pokemons, report.Counts.Types, report.Counts.Abilities, report.Counts.Moves, report.Counts.Stats)

	if len(report.Errors) > 0 {
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  import api [-force] <name-or-id>   fetch one pokemon from the PokeAPI")
	fmt.Fprintln(os.Stderr, "  import dump [file]                 load a bulk JSON dump")
}
