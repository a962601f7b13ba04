package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mmcdole/cinemax/internal/config"
	"github.com/mmcdole/cinemax/internal/domain"
	"github.com/mmcdole/cinemax/internal/tmdb"
)

const (
	credentialAPIKey = "api_key"
	credentialToken  = "access_token"

	verifyTimeout = 15 * time.Second
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure API credentials and defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isInteractive() {
			return errors.New("setup needs a terminal; edit " + configPath() + " or set CINEMAX_API_KEY")
		}
		return runSetupWizard(cmd.Context())
	},
}

func init() {
	RootCmd.AddCommand(setupCmd)
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultConfigFile()
}

// runSetupWizard prompts for credentials until they verify, then writes the config
func runSetupWizard(ctx context.Context) error {
	fmt.Println()
	printHeader(os.Stdout, "Welcome to Cinemax!")
	fmt.Println()

	kind := credentialAPIKey
	if cfg.API.AccessToken != "" {
		kind = credentialToken
	}
	secret := cfg.API.APIKey
	if kind == credentialToken {
		secret = cfg.API.AccessToken
	}
	language := cfg.API.Language
	category := string(cfg.DefaultCategory())

	var categoryOpts []huh.Option[string]
	for _, info := range domain.Categories() {
		categoryOpts = append(categoryOpts, huh.NewOption(info.Title, string(info.Category)))
	}

	for {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Credential type").
					Options(
						huh.NewOption("API key (v3)", credentialAPIKey),
						huh.NewOption("Read access token (v4)", credentialToken),
					).
					Value(&kind),
				huh.NewInput().
					Title("Credential").
					Description("Found under Settings → API on the catalog website").
					EchoMode(huh.EchoModePassword).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return errors.New("credential cannot be empty")
						}
						return nil
					}).
					Value(&secret),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Language").
					Description("Language for titles and overviews, e.g. en-US").
					Value(&language),
				huh.NewSelect[string]().
					Title("Start category").
					Options(categoryOpts...).
					Value(&category),
			),
		).WithTheme(huh.ThemeCatppuccin())

		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return errors.New("setup cancelled")
			}
			return err
		}

		candidate := *cfg
		candidate.API.APIKey, candidate.API.AccessToken = "", ""
		if kind == credentialToken {
			candidate.API.AccessToken = strings.TrimSpace(secret)
		} else {
			candidate.API.APIKey = strings.TrimSpace(secret)
		}
		candidate.API.Language = strings.TrimSpace(language)
		candidate.UI.DefaultCategory = category

		err := verifyCredentials(ctx, &candidate)
		if err == nil {
			if err := config.SaveConfig(&candidate, configPath()); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			*cfg = candidate
			fmt.Println()
			printOK(os.Stdout, "Configuration saved to %s", configPath())
			fmt.Println()
			return nil
		}

		logger.Warn("credential check failed", "error", err)
		retry := true
		confirm := huh.NewConfirm().
			Title(fmt.Sprintf("Could not verify credentials: %v", err)).
			Affirmative("Try again").
			Negative("Quit").
			Value(&retry)
		if err := huh.NewForm(huh.NewGroup(confirm)).WithTheme(huh.ThemeCatppuccin()).Run(); err != nil || !retry {
			return errors.New("setup cancelled")
		}
	}
}

func verifyCredentials(ctx context.Context, candidate *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	client := tmdb.NewClient(candidate.TMDBOptions(), logger)
	return client.Ping(ctx)
}
