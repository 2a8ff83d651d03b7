package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoplan/internal/config"
	"github.com/hammamikhairi/ottoplan/internal/display"
	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/engine"
	"github.com/hammamikhairi/ottoplan/internal/history"
	"github.com/hammamikhairi/ottoplan/internal/ingredient"
	"github.com/hammamikhairi/ottoplan/internal/logger"
	"github.com/hammamikhairi/ottoplan/internal/recipe"
	"github.com/hammamikhairi/ottoplan/internal/storage"
)

// app holds the wiring shared by every subcommand.
type app struct {
	out    io.Writer
	logOut io.Writer

	// flags
	configPath string
	user       string
	driver     string
	dbPath     string
	planID     string
	verbose    bool
	quiet      bool

	cfg     *config.Config
	log     *logger.Logger
	store   domain.DocumentStore
	catalog *recipe.Catalog
	eng     *engine.Engine
	print   *display.Printer
	closeFn func() error
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ottoplan", "config.yaml")
	}
	return filepath.Join(home, ".ottoplan", "config.yaml")
}

func newRootCmd(out, logOut io.Writer) *cobra.Command {
	a := &app{out: out, logOut: logOut}

	root := &cobra.Command{
		Use:   "ottoplan",
		Short: "Pantry and weekly meal planner",
		Long: `ottoplan tracks what is in the pantry, scores recipes against it,
plans a week of meals and deducts ingredients when a meal is cooked.

Run "ottoplan recipes seed" once to load the built-in recipes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", defaultConfigPath(), "config file")
	pf.StringVarP(&a.user, "user", "u", "", "user whose data to use (overrides config)")
	pf.StringVar(&a.driver, "store", "", "document store: memory or sqlite (overrides config)")
	pf.StringVar(&a.dbPath, "db", "", "sqlite database path (overrides config)")
	pf.StringVarP(&a.planID, "plan", "p", "", "meal plan id (overrides config)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "disable all logging")

	root.AddCommand(
		newPantryCmd(a),
		newRecipesCmd(a),
		newMatchCmd(a),
		newPlanCmd(a),
		newCookCmd(a),
		newSharedCmd(a),
		newShoppingCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// init loads the configuration and builds the engine.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.user != "" {
		cfg.User = a.user
	}
	if a.driver != "" {
		cfg.Store.Driver = a.driver
	}
	if a.dbPath != "" {
		cfg.Store.Path = a.dbPath
	}
	if a.planID != "" {
		cfg.Plan.DefaultID = a.planID
	}
	switch {
	case a.quiet:
		cfg.Logging.Level = "off"
	case a.verbose:
		cfg.Logging.Level = "verbose"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg
	a.log = logger.New(cfg.LogLevel(), a.logOut)

	switch cfg.Store.Driver {
	case config.DriverMemory:
		a.store = storage.NewMemoryStore(a.log)
		a.closeFn = func() error { return nil }
	default:
		s, err := storage.NewSQLiteStore(cfg.Store.Path, a.log)
		if err != nil {
			return err
		}
		a.store = s
		a.closeFn = s.Close
	}

	norm := ingredient.Default()
	if cfg.AliasesFile != "" {
		norm, err = ingredient.LoadAliases(cfg.AliasesFile)
		if err != nil {
			return err
		}
	}
	conv := ingredient.NewConverter(norm, cfg.UnitEquivalences()...)

	a.catalog = recipe.NewCatalog(a.store, a.log)
	rec := history.NewRecorder(a.store, a.log)
	a.eng = engine.New(a.store, a.catalog, rec, a.log, engine.WithConverter(conv))
	a.print = display.New(a.out)

	a.log.Debug("ottoplan: user=%s store=%s plan=%s", cfg.User, cfg.Store.Driver, cfg.Plan.DefaultID)
	return nil
}

func (a *app) close() error {
	var err error
	if a.closeFn != nil {
		err = a.closeFn()
		a.closeFn = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}
