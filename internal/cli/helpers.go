package cli

import (
	"fmt"

	"github.com/gbarbieri/equisuite/internal/config"
	"github.com/gbarbieri/equisuite/internal/results"
)

// openStore loads the configuration and opens the results store it points
// at. Nearly every command starts here.
func openStore() (*config.Config, *results.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	store, err := results.NewStore(cfg.ResultsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open results store: %w", err)
	}
	return cfg, store, nil
}
