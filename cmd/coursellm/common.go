package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/metalagman/coursellm/internal/config"
	"github.com/metalagman/coursellm/internal/db"
	"github.com/metalagman/coursellm/internal/llm"
)

func newProvider(cfg config.Config) (llm.Provider, error) {
	return llm.New(context.Background(), llm.Config{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: float32(cfg.LLM.Temperature),
		Timeout:     cfg.LLM.Timeout(),
	}, nil)
}

func openStore(ctx context.Context, cfg config.Config) (db.DocumentStore, error) {
	switch cfg.Store.Driver {
	case config.DriverFirestore:
		return db.NewFirestoreStore(ctx, cfg.Store.ProjectID)
	case config.DriverSQLite, "":
		return db.OpenSQLiteStore(ctx, cfg.Store.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// readMaterials reads each file in order. "-" reads standard input.
func readMaterials(stdin io.Reader, paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		var (
			data []byte
			err  error
		)
		if path == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("read material %s: %w", path, err)
		}
		out = append(out, string(data))
	}
	return out, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
