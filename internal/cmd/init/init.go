// Package init provides the init command for bbp.
package init

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-preview/internal/config"
	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
)

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	var (
		siteURL    string
		inlinesURL string
		noVerify   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize bbp configuration",
		Long: `Initialize bbp with the hosts and inline catalogue used for previews.

This command will guide you through setting the site and static hosts that
profile links and images point at, an optional inline image catalogue, and
the nesting depth limit. The configuration will be saved to
~/.config/bbp/config.yml.

Every field is optional; empty fields fall back to the F-List defaults.`,
		Example: `  # Interactive setup
  bbp init

  # Point links at a local mirror
  bbp init --site-url http://localhost:8080`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(siteURL, inlinesURL, noVerify)
		},
	}

	cmd.Flags().StringVar(&siteURL, "site-url", "", "Site URL for profile links (e.g., https://www.f-list.net)")
	cmd.Flags().StringVar(&inlinesURL, "inlines-url", "", "Inline image catalogue endpoint")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip catalogue verification")

	return cmd
}

func runInit(prefillSite, prefillInlines string, noVerify bool) error {
	configPath := config.DefaultConfigPath()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		SiteURL:    prefillSite,
		InlinesURL: prefillInlines,
	}
	depth := ""

	// Build the form
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Site URL (optional)").
				Description("Host for character and profile links").
				Placeholder(bbcode.DefaultSiteURL).
				Value(&cfg.SiteURL).
				Validate(validateURL),

			huh.NewInput().
				Title("Static URL (optional)").
				Description("Host for avatars, eicons and inline images").
				Placeholder(bbcode.DefaultStaticURL).
				Value(&cfg.StaticURL).
				Validate(validateURL),

			huh.NewInput().
				Title("Max depth (optional)").
				Description("Nested tags beyond this depth are discarded").
				Placeholder(strconv.Itoa(bbcode.DefaultMaxDepth)).
				Value(&depth).
				Validate(validateDepth),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Inlines file (optional)").
				Description("YAML or JSON catalogue of [img=id] images").
				Placeholder("~/inlines.yml").
				Value(&cfg.InlinesFile),

			huh.NewInput().
				Title("Inlines URL (optional)").
				Description("Catalogue API endpoint").
				Value(&cfg.InlinesURL).
				Validate(validateURL),

			huh.NewInput().
				Title("API Token (optional)").
				Description("Sent as a bearer token to the catalogue API").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.APIToken),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	if depth != "" {
		cfg.MaxDepth, _ = strconv.Atoi(depth)
	}

	// Normalize URLs
	cfg.NormalizeURLs()

	// Validate
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Verify catalogue unless skipped
	if !noVerify && cfg.InlinesURL != "" {
		fmt.Print("Verifying inline catalogue... ")
		if err := verifyConnection(cfg); err != nil {
			fmt.Println("failed!")
			return fmt.Errorf("catalogue verification failed: %w", err)
		}
		fmt.Println("success!")
	}

	// Save configuration
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	fmt.Println("\nYou're all set! Try running:")
	fmt.Println("  echo '[b]hello[/b]' | bbp render")
	fmt.Println("  bbp check profile.txt")

	return nil
}

func validateURL(s string) error {
	if s == "" || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") {
		return nil
	}
	return fmt.Errorf("URL must start with http:// or https://")
}

func validateDepth(s string) error {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("depth must be a positive number")
	}
	return nil
}

func verifyConnection(cfg *config.Config) error {
	client := &http.Client{Timeout: 10 * time.Second}

	req, err := http.NewRequest("GET", cfg.InlinesURL, nil)
	if err != nil {
		return err
	}

	if cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.APIToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == 401 {
		return fmt.Errorf("authentication failed - check your API token")
	}
	if resp.StatusCode == 403 {
		return fmt.Errorf("access denied - check your permissions")
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
