package pokeapi

import (
	"context"
	"fmt"
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/pokeworks/pokedex-backend/internal/usecase"
)

// FileDump reads a bulk dump file holding an array of upstream-shaped
// pokemon documents. It implements usecase.DumpReader.
type FileDump struct {
	// DefaultPath is used when ReadAll gets an empty path.
	DefaultPath string
}

func NewFileDump(defaultPath string) *FileDump {
	return &FileDump{DefaultPath: strings.TrimSpace(defaultPath)}
}

// ReadAll parses the whole file up front. A malformed file fails here,
// before any record reaches the importer.
func (d *FileDump) ReadAll(ctx context.Context, path string) ([]usecase.ExternalPokemon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path = strings.TrimSpace(path)
	if path == "" {
		path = d.DefaultPath
	}
	if path == "" {
		return nil, fmt.Errorf("dump file path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dump file: %w", err)
	}

	var payloads []pokemonPayload
	if err := sonic.Unmarshal(raw, &payloads); err != nil {
		return nil, fmt.Errorf("decode dump file: %w", err)
	}

	out := make([]usecase.ExternalPokemon, 0, len(payloads))
	for _, payload := range payloads {
		out = append(out, mapPayloadToExternal(payload))
	}
	return out, nil
}
