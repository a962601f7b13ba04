package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/cinemax/internal/catalog"
	"github.com/mmcdole/cinemax/internal/config"
	"github.com/mmcdole/cinemax/internal/log"
	"github.com/mmcdole/cinemax/internal/search"
	"github.com/mmcdole/cinemax/internal/store"
	"github.com/mmcdole/cinemax/internal/tmdb"
	"github.com/mmcdole/cinemax/internal/wishlist"
)

// Version is set by the entry point at build time
var Version = "dev"

var (
	flagConfig  string
	flagVerbose bool

	cfg    *config.Config
	logger *slog.Logger
)

// errNotConfigured is returned by commands that need the catalog API
// before any credentials were set up
var errNotConfigured = errors.New("no API credentials configured; run `cinemax setup` or set CINEMAX_API_KEY")

var RootCmd = &cobra.Command{
	Use:           "cinemax",
	Short:         "Browse movies and TV shows from the terminal",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd, nil)
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", "error", err)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.DefaultConfigFile()+")")
	RootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log to stderr as well as the log file")
}

func setup() error {
	var err error
	cfg, err = config.LoadConfig(flagConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var console io.Writer
	if flagVerbose {
		console = os.Stderr
	}
	logger, err = log.SetupLogger(&cfg.Logging, console)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Debug("starting cinemax", "version", Version, "config", flagConfig)
	return nil
}

// isInteractive reports whether stdin and stdout are both terminals
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// app wires the services shared by every command
type app struct {
	client   *tmdb.Client
	store    *store.Store
	catalog  *catalog.Service
	details  *catalog.DetailsService
	queries  *catalog.Queries
	wishlist *wishlist.Service
	search   *search.Service
}

// newApp opens the cache and builds the services. requireAPI fails early
// when the command cannot do anything useful without credentials.
func newApp(requireAPI bool) (*app, error) {
	if requireAPI && !cfg.IsConfigured() {
		return nil, errNotConfigured
	}

	client := tmdb.NewClient(cfg.TMDBOptions(), logger)

	st, err := store.NewStore(cfg.Cache.Dir, cfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	logger.Debug("opened cache", "path", st.Path())

	details := catalog.NewDetailsService(client, st, logger)
	queries := catalog.NewQueries(st)
	return &app{
		client:   client,
		store:    st,
		catalog:  catalog.NewService(client, st, cfg.PagerConfig(), logger),
		details:  details,
		queries:  queries,
		wishlist: wishlist.NewService(st, details, logger),
		search:   search.NewService(queries, client, logger),
	}, nil
}

func (a *app) Close() {
	a.catalog.CloseAll()
	if err := a.store.Close(); err != nil {
		logger.Warn("failed to close cache", "error", err)
	}
}
