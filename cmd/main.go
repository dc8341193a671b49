package main

import (
	"errors"
	"fmt"
	"os"

	"cine-lens/catalog"
	"cine-lens/config"
	"cine-lens/logging"
	"cine-lens/storage"

	"github.com/spf13/cobra"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	dataFile   string
	fromDB     bool

	cfg *config.Config
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logging.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "cine-lens",
		Short:         "Explore a streaming catalog export",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: $CONFIG_PATH or ./cine-lens.yaml)")
	root.PersistentFlags().StringVar(&a.dataFile, "data-file", "", "cleaned catalog CSV (overrides data.catalog_path)")
	root.PersistentFlags().BoolVar(&a.fromDB, "from-db", false, "read the catalog from the SQLite snapshot instead of the CSV")

	root.AddCommand(
		newDashboardCommand(a),
		newSearchCommand(a),
		newLookupCommand(a),
		newImportCommand(a),
		newServeCommand(a),
	)
	return root
}

func (a *app) setup() error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFrom(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if a.dataFile != "" {
		cfg.Data.CatalogPath = a.dataFile
	}
	a.cfg = cfg

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	return nil
}

// openStorage opens and migrates the SQLite database under the data path.
func (a *app) openStorage() (storage.StorageInterface, error) {
	s := storage.NewSQLiteStorage(a.cfg.Data.Path)
	if err := s.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return s, nil
}

// loadCatalog reads the catalog once, from the CSV or the SQLite snapshot.
func (a *app) loadCatalog() (*catalog.Table, error) {
	if a.fromDB {
		s, err := a.openStorage()
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.LoadCatalog()
	}

	table, err := catalog.LoadFile(a.cfg.Data.CatalogPath)
	if err != nil {
		var schemaErr *catalog.SchemaError
		if errors.As(err, &schemaErr) {
			logging.Error().Strs("missing", schemaErr.Missing).Str("path", a.cfg.Data.CatalogPath).Msg("Catalog file is missing required columns")
		}
		return nil, err
	}

	logging.Debug().Int("titles", table.Len()).Str("path", a.cfg.Data.CatalogPath).Msg("Catalog loaded")
	return table, nil
}
