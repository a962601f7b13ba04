package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/cinemax/internal/domain"
	"github.com/mmcdole/cinemax/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [category]",
	Short: "Browse categories in the interactive browser",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBrowse,
}

func init() {
	RootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !isInteractive() {
		return errors.New("the browser needs a terminal; use `cinemax list` for plain output")
	}

	start := cfg.DefaultCategory()
	if len(args) == 1 {
		cat, err := domain.ParseCategory(args[0])
		if err != nil {
			return err
		}
		start = cat
	}

	if !cfg.IsConfigured() {
		if err := runSetupWizard(cmd.Context()); err != nil {
			return err
		}
	}

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.NewModel(tui.Services{
		Catalog:  a.catalog,
		Details:  a.details,
		Queries:  a.queries,
		Wishlist: a.wishlist,
	}, tui.Options{
		PrefetchDistance: cfg.Paging.PrefetchDistance,
		StartCategory:    start,
		Logger:           logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	logger.Info("starting TUI", "category", start)
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	logger.Info("shutting down")
	return nil
}
