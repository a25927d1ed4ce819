package configcmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-preview/api"
	"github.com/open-cli-collective/bbcode-preview/internal/config"
	"github.com/open-cli-collective/bbcode-preview/internal/inlines"
)

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the configured inline catalogue",
		Long:  `Test that bbp can read the inline catalogue file and reach the catalogue API with the current configuration.`,
		Example: `  # Test catalogue access
  bbp config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runTest(cmd.OutOrStdout(), noColor, nil)
		},
	}

	return cmd
}

func runTest(w io.Writer, noColor bool, httpClient *http.Client, cfgs ...*config.Config) error {
	if noColor {
		color.NoColor = true
	}

	var cfg *config.Config
	if len(cfgs) > 0 && cfgs[0] != nil {
		cfg = cfgs[0]
	} else {
		var err error
		cfg, err = config.LoadWithEnv(config.DefaultConfigPath())
		if err != nil {
			return fmt.Errorf("failed to load config: %w (run 'bbp init' to configure)", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w (run 'bbp init' to configure)", err)
	}

	if cfg.InlinesFile == "" && cfg.InlinesURL == "" {
		return errors.New("no inline catalogue configured (set inlines_file or inlines_url)")
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	if cfg.InlinesFile != "" {
		fmt.Fprintf(w, "Reading %s...\n", cfg.InlinesFile)
		cat, err := inlines.ReadFile(cfg.InlinesFile)
		if err != nil {
			red.Fprintln(w, "✗ Catalogue file unusable:", err)
			return err
		}
		green.Fprintf(w, "✓ %d inline images in file\n", len(cat.Inlines))
	}

	if cfg.InlinesURL == "" {
		return nil
	}

	fmt.Fprintf(w, "Testing connection to %s...\n", cfg.InlinesURL)

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequest("GET", cfg.InlinesURL, nil)
	if err != nil {
		return err
	}

	if cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.APIToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		red.Fprintln(w, "✗ Connection failed:", err)
		fmt.Fprintln(w, "\nCheck your URL with: bbp config show")
		fmt.Fprintln(w, "Reconfigure with: bbp init")
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == 401 {
		red.Fprintln(w, "✗ Authentication failed: 401 Unauthorized")
		fmt.Fprintln(w, "\nCheck your token with: bbp config show")
		fmt.Fprintln(w, "Reconfigure with: bbp init")
		return fmt.Errorf("authentication failed")
	}
	if resp.StatusCode == 403 {
		red.Fprintln(w, "✗ Access denied: 403 Forbidden")
		fmt.Fprintln(w, "\nCheck your permissions.")
		return fmt.Errorf("access denied")
	}
	if resp.StatusCode != 200 {
		red.Fprintf(w, "✗ Unexpected response: %d\n", resp.StatusCode)
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var catalogue api.InlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&catalogue); err != nil {
		red.Fprintln(w, "✗ Response is not an inline catalogue:", err)
		return fmt.Errorf("invalid catalogue response: %w", err)
	}

	green.Fprintln(w, "✓ Catalogue reachable")
	green.Fprintf(w, "✓ %d inline images available\n", len(catalogue.Inlines))

	return nil
}
