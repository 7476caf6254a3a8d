package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pokeworks/pokedex-backend/internal/domain/pokemon"
	"github.com/pokeworks/pokedex-backend/internal/platform/logging"
)

// PokemonProvider fetches one record from the upstream API by name or
// numeric id. A missing upstream record reports ErrNotFound.
type PokemonProvider interface {
	FetchPokemon(ctx context.Context, identifier string) (ExternalPokemon, error)
}

// DumpReader loads a whole bulk dump file. Invalid JSON fails the read
// before any record is returned.
type DumpReader interface {
	ReadAll(ctx context.Context, path string) ([]ExternalPokemon, error)
}

// ExternalPokemon is the provider-shaped record before normalization.
// Optional fields stay pointers so absent and zero stay distinguishable.
type ExternalPokemon struct {
	ExternalID     int
	Name           string
	Height         *int
	Weight         *int
	BaseExperience *int
	Order          *int
	Species        *string
	Form           *string
	Sprites        pokemon.Sprites
	IsDefault      *bool
	Types          []ExternalTypeSlot
	Abilities      []ExternalAbilitySlot
	Stats          []ExternalStatValue
	Moves          []ExternalMoveEntry
}

type ExternalTypeSlot struct {
	Name string
	Slot *int
}

type ExternalAbilitySlot struct {
	Name     string
	Slot     *int
	IsHidden *bool
}

type ExternalStatValue struct {
	Name     string
	BaseStat *int
	Effort   *int
}

type ExternalMoveEntry struct {
	Name                string
	VersionGroupDetails []ExternalVersionGroupDetail
}

type ExternalVersionGroupDetail struct {
	LevelLearnedAt  *int
	MoveLearnMethod *string
	VersionGroup    *string
}

// ImportConfig carries importer tuning.
type ImportConfig struct {
	// APIMoveLimit caps how many moves the single-record API import
	// attaches. The bulk dump import is never capped.
	APIMoveLimit int
}

// BulkImportError is one failed record inside a dump run.
type BulkImportError struct {
	Index      int
	ExternalID int
	Name       string
	Reason     string
}

// BulkImportReport summarizes a dump run. Failed records never abort
// the run; their transactions roll back individually.
type BulkImportReport struct {
	Total   int
	Created int
	Updated int
	Skipped int
	Errors  []BulkImportError
	Counts  pokemon.EntityCounts
}

type ImportService struct {
	provider PokemonProvider
	dump     DumpReader
	repo     pokemon.Repository
	cfg      ImportConfig
	logger   *logging.Logger
}

func NewImportService(
	provider PokemonProvider,
	dump DumpReader,
	repo pokemon.Repository,
	cfg ImportConfig,
	logger *logging.Logger,
) *ImportService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.APIMoveLimit <= 0 {
		cfg.APIMoveLimit = 20
	}

	return &ImportService{
		provider: provider,
		dump:     dump,
		repo:     repo,
		cfg:      cfg,
		logger:   logger,
	}
}

// ImportFromAPI fetches one pokemon by identifier and writes it.
// An already imported pokemon is refused unless force is set. Moves are
// capped to APIMoveLimit and merged additively into any existing set.
func (s *ImportService) ImportFromAPI(ctx context.Context, identifier string, force bool) (pokemon.Record, pokemon.ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportFromAPI")
	defer span.End()

	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" {
		return pokemon.Record{}, pokemon.ImportResult{}, fmt.Errorf("%w: identifier is required", ErrInvalidInput)
	}
	if s.provider == nil {
		return pokemon.Record{}, pokemon.ImportResult{}, fmt.Errorf("%w: pokemon provider is not configured", ErrDependencyUnavailable)
	}

	if !force {
		externalID, _ := strconv.Atoi(identifier)
		exists, err := s.repo.ExistsByExternalIDOrName(ctx, externalID, identifier)
		if err != nil {
			return pokemon.Record{}, pokemon.ImportResult{}, fmt.Errorf("check existing pokemon identifier=%s: %w", identifier, err)
		}
		if exists {
			return pokemon.Record{}, pokemon.ImportResult{}, fmt.Errorf("%w: pokemon %q is already imported, rerun with force to refresh", ErrAlreadyExists, identifier)
		}
	}

	ext, err := s.provider.FetchPokemon(ctx, identifier)
	if err != nil {
		return pokemon.Record{}, pokemon.ImportResult{}, fmt.Errorf("fetch pokemon identifier=%s: %w", identifier, err)
	}

	rec, err := normalizeExternalPokemon(ext)
	if err != nil {
		return pokemon.Record{}, pokemon.ImportResult{}, err
	}
	if len(rec.Moves) > s.cfg.APIMoveLimit {
		rec.Moves = rec.Moves[:s.cfg.APIMoveLimit]
	}

	result, err := s.repo.Import(ctx, rec, pokemon.AdditiveMerge)
	if err != nil {
		return pokemon.Record{}, pokemon.ImportResult{}, fmt.Errorf("import pokemon external_id=%d: %w", rec.Pokemon.ExternalID, err)
	}

	stored, found, err := s.repo.FindByExternalID(ctx, rec.Pokemon.ExternalID)
	if err != nil {
		return pokemon.Record{}, pokemon.ImportResult{}, fmt.Errorf("reload pokemon external_id=%d: %w", rec.Pokemon.ExternalID, err)
	}
	if !found {
		return pokemon.Record{}, pokemon.ImportResult{}, fmt.Errorf("reload pokemon external_id=%d: row missing after import", rec.Pokemon.ExternalID)
	}

	s.logger.InfoContext(ctx, "pokemon imported from api",
		"external_id", stored.Pokemon.ExternalID,
		"name", stored.Pokemon.Name,
		"created", result.Created,
		"types", result.TypesAttached,
		"abilities", result.AbilitiesAttached,
		"moves", result.MovesAttached,
	)

	return stored, result, nil
}

// ImportFromDump loads the whole dump file and imports every record
// sequentially. Records missing an external id or name are skipped; a
// record failing mid-import rolls back alone and the run continues.
// Moves reconcile with ReplaceAll and are never capped.
func (s *ImportService) ImportFromDump(ctx context.Context, path string) (BulkImportReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportFromDump")
	defer span.End()

	if s.dump == nil {
		return BulkImportReport{}, fmt.Errorf("%w: dump reader is not configured", ErrDependencyUnavailable)
	}

	records, err := s.dump.ReadAll(ctx, path)
	if err != nil {
		return BulkImportReport{}, fmt.Errorf("read dump file %s: %w", path, err)
	}

	report := BulkImportReport{Total: len(records)}
	for i, ext := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		rec, err := normalizeExternalPokemon(ext)
		if err != nil {
			report.Skipped++
			s.logger.WarnContext(ctx, "skipping dump record",
				"index", i,
				"external_id", ext.ExternalID,
				"name", ext.Name,
				"error", err,
			)
			continue
		}

		result, err := s.repo.Import(ctx, rec, pokemon.ReplaceAll)
		if err != nil {
			report.Errors = append(report.Errors, BulkImportError{
				Index:      i,
				ExternalID: rec.Pokemon.ExternalID,
				Name:       rec.Pokemon.Name,
				Reason:     err.Error(),
			})
			s.logger.ErrorContext(ctx, "dump record import failed",
				"index", i,
				"external_id", rec.Pokemon.ExternalID,
				"name", rec.Pokemon.Name,
				"error", err,
			)
			continue
		}

		if result.Created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	counts, err := s.repo.EntityCounts(ctx)
	if err != nil {
		return report, fmt.Errorf("count imported entities: %w", err)
	}
	report.Counts = counts

	s.logger.InfoContext(ctx, "dump import finished",
		"total", report.Total,
		"created", report.Created,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"errors", len(report.Errors),
	)

	return report, nil
}

// normalizeExternalPokemon applies the optional-field policy: entries
// missing required pieces are dropped, absent optionals take documented
// defaults.
func normalizeExternalPokemon(ext ExternalPokemon) (pokemon.Record, error) {
	name := strings.TrimSpace(ext.Name)
	if ext.ExternalID <= 0 {
		return pokemon.Record{}, fmt.Errorf("%w: pokemon external id is required", ErrInvalidInput)
	}
	if name == "" {
		return pokemon.Record{}, fmt.Errorf("%w: pokemon name is required", ErrInvalidInput)
	}

	isDefault := true
	if ext.IsDefault != nil {
		isDefault = *ext.IsDefault
	}

	rec := pokemon.Record{
		Pokemon: pokemon.Pokemon{
			ExternalID:     ext.ExternalID,
			Name:           name,
			Height:         ext.Height,
			Weight:         ext.Weight,
			BaseExperience: ext.BaseExperience,
			Order:          ext.Order,
			Species:        trimPtr(ext.Species),
			Form:           trimPtr(ext.Form),
			Sprites:        ext.Sprites,
			IsDefault:      isDefault,
		},
	}

	for _, item := range ext.Types {
		typeName := strings.TrimSpace(item.Name)
		if typeName == "" || item.Slot == nil {
			continue
		}
		rec.Types = append(rec.Types, pokemon.TypeSlot{Name: typeName, Slot: *item.Slot})
	}

	for _, item := range ext.Abilities {
		abilityName := strings.TrimSpace(item.Name)
		if abilityName == "" || item.Slot == nil {
			continue
		}
		hidden := false
		if item.IsHidden != nil {
			hidden = *item.IsHidden
		}
		rec.Abilities = append(rec.Abilities, pokemon.AbilitySlot{Name: abilityName, Slot: *item.Slot, IsHidden: hidden})
	}

	for _, item := range ext.Stats {
		statName := strings.TrimSpace(item.Name)
		if statName == "" || item.BaseStat == nil {
			continue
		}
		effort := 0
		if item.Effort != nil {
			effort = *item.Effort
		}
		rec.Stats = append(rec.Stats, pokemon.StatValue{Name: statName, BaseStat: *item.BaseStat, Effort: effort})
	}

	for _, item := range ext.Moves {
		moveName := strings.TrimSpace(item.Name)
		if moveName == "" {
			continue
		}
		details := make([]pokemon.VersionGroupDetail, 0, len(item.VersionGroupDetails))
		for _, detail := range item.VersionGroupDetails {
			level := 0
			if detail.LevelLearnedAt != nil {
				level = *detail.LevelLearnedAt
			}
			details = append(details, pokemon.VersionGroupDetail{
				LevelLearnedAt:  level,
				MoveLearnMethod: trimPtr(detail.MoveLearnMethod),
				VersionGroup:    trimPtr(detail.VersionGroup),
			})
		}
		rec.Moves = append(rec.Moves, pokemon.MoveEntry{Name: moveName, VersionGroupDetails: details})
	}

	return rec, nil
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
