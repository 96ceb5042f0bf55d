// Package cli wires the driving command-line interface: sync runs,
// event queries, audit log inspection and the long-running serve mode.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vigia-labs/radar-cli/internal/adapters/driven/config/file"
	"github.com/vigia-labs/radar-cli/internal/adapters/driven/storage/sqlite"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driven"
	"github.com/vigia-labs/radar-cli/internal/core/ports/driving"
	"github.com/vigia-labs/radar-cli/internal/core/services"
	"github.com/vigia-labs/radar-cli/internal/logger"
	"github.com/vigia-labs/radar-cli/internal/sources/anm"
	"github.com/vigia-labs/radar-cli/internal/sources/anp"
	"github.com/vigia-labs/radar-cli/internal/sources/cprm"
	"github.com/vigia-labs/radar-cli/internal/sources/ibama"
	"github.com/vigia-labs/radar-cli/internal/sources/sec"
	"github.com/vigia-labs/radar-cli/internal/sources/usgs"
)

// version is set at build time via -ldflags.
var version = "dev"

// Flag values bound on the root command.
var (
	flagConfig  string
	flagDataDir string
	flagVerbose bool
)

// Package-level services. Commands wire them lazily through
// initServices; tests inject fakes directly.
var (
	cfg          file.Config
	store        *sqlite.Store
	eventStore   driven.EventStore
	syncLogStore driven.SyncLogStore
	syncRunner   driving.SyncRunner
)

var rootCmd = &cobra.Command{
	Use:   "radar",
	Short: "Regulatory event monitoring pipeline",
	Long: `radar collects regulatory, environmental and geological events
from public agency feeds (ANM, CPRM, ANP, IBAMA, USGS, SEC),
normalises them into a single canonical shape and stores them
idempotently for downstream monitoring.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.radar/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.radar/data)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if store != nil {
			store.Close()
		}
	}()
	return rootCmd.Execute()
}

// initServices loads configuration and wires the storage and core
// services. It is a no-op when services are already present, which is
// how tests substitute in-memory fakes.
func initServices() error {
	if syncRunner != nil {
		return nil
	}

	var err error
	cfg, err = file.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	logger.SetVerbose(cfg.Verbose)

	store, err = sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	eventStore = store.EventStore()
	syncLogStore = store.SyncLogStore()
	syncRunner = services.NewSyncOrchestrator(buildAdapters(cfg), eventStore, syncLogStore, cfg.Workers)
	return nil
}

// buildAdapters constructs the enabled source adapters with any
// configured overrides applied. Registration order is stable.
func buildAdapters(cfg file.Config) []driven.SourceAdapter {
	var adapters []driven.SourceAdapter

	if cfg.ANM.Enabled {
		adapters = append(adapters, anm.New(anm.Config{
			BaseURL:         cfg.ANM.BaseURL,
			APIURL:          cfg.ANM.APIURL,
			ProcessLimit:    cfg.ANM.Limit,
			InfractionLimit: cfg.ANM.Limit,
		}))
	}
	if cfg.CPRM.Enabled {
		adapters = append(adapters, cprm.New(cprm.Config{
			BaseURL:      cfg.CPRM.BaseURL,
			APIURL:       cfg.CPRM.APIURL,
			ProjectLimit: cfg.CPRM.Limit,
		}))
	}
	if cfg.ANP.Enabled {
		adapters = append(adapters, anp.New(anp.Config{
			BaseURL:         cfg.ANP.BaseURL,
			DataURL:         cfg.ANP.APIURL,
			ConcessionLimit: cfg.ANP.Limit,
		}))
	}
	if cfg.IBAMA.Enabled {
		adapters = append(adapters, ibama.New(ibama.Config{
			BaseURL:      cfg.IBAMA.APIURL,
			PortalURL:    cfg.IBAMA.BaseURL,
			LicenseLimit: cfg.IBAMA.Limit,
		}))
	}
	if cfg.USGS.Enabled {
		adapters = append(adapters, usgs.New(usgs.Config{
			PubsURL:    cfg.USGS.BaseURL,
			QuakeURL:   cfg.USGS.APIURL,
			QuakeLimit: cfg.USGS.Limit,
		}))
	}
	if cfg.SEC.Enabled {
		adapters = append(adapters, sec.New(sec.Config{
			PressURL:    cfg.SEC.BaseURL,
			EdgarURL:    cfg.SEC.APIURL,
			FilingLimit: cfg.SEC.Limit,
		}))
	}
	return adapters
}
