package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-preview/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current bbp configuration with value source indicators.`,
		Example: `  # Show current config
  bbp config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(cmd.OutOrStdout(), noColor)
		},
	}

	return cmd
}

func runShow(w io.Writer, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	configPath := config.DefaultConfigPath()

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue string, envVars ...string) {
		_, _ = bold.Fprintf(w, "%-14s", label+":")
		if value == "" || value == "0" {
			_, _ = dim.Fprintln(w, "-")
			return
		}

		// Mask tokens
		display := value
		if strings.Contains(strings.ToLower(label), "token") && len(value) > 8 {
			display = value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
		}

		fmt.Fprint(w, display)

		// Determine source
		source := "config"
		if fileErr != nil {
			source = "-"
		}
		for _, envVar := range envVars {
			if v := os.Getenv(envVar); v != "" && v == value {
				source = envVar
				break
			}
		}
		if fileValue != value && source == "config" {
			source = "-"
		}

		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	printField("Site URL", cfg.SiteURL, fileCfg.SiteURL, "BBP_SITE_URL", "FLIST_SITE_URL")
	printField("Static URL", cfg.StaticURL, fileCfg.StaticURL, "BBP_STATIC_URL", "FLIST_STATIC_URL")
	printField("Inlines file", cfg.InlinesFile, fileCfg.InlinesFile, "BBP_INLINES_FILE")
	printField("Inlines URL", cfg.InlinesURL, fileCfg.InlinesURL, "BBP_INLINES_URL")
	printField("API Token", cfg.APIToken, fileCfg.APIToken, "BBP_API_TOKEN")
	printField("Max depth", strconv.Itoa(cfg.MaxDepth), strconv.Itoa(fileCfg.MaxDepth), "BBP_MAX_DEPTH")
	printField("Output", cfg.OutputFormat, fileCfg.OutputFormat)

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}
