// Package root provides the root command for the bbp CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-preview/internal/cmd/completion"
	"github.com/open-cli-collective/bbcode-preview/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/bbcode-preview/internal/cmd/init"
	"github.com/open-cli-collective/bbcode-preview/internal/cmd/markup"
	"github.com/open-cli-collective/bbcode-preview/internal/version"
)

// NewCmdRoot creates the root command for bbp.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bbp",
		Short: "Preview and check BBCode profile markup",
		Long: `bbp renders F-List style BBCode the way the live profile preview does.

It turns profile markup into HTML, markdown, plain text or styled terminal
output, and reports markup the renderer had to absorb or discard.

Get started by running: echo '[b]hello[/b]' | bbp render --format terminal`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/bbp/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log parser diagnostics to stderr")

	// Set version template
	cmd.SetVersionTemplate("bbp version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(markup.NewCmdRender())
	cmd.AddCommand(markup.NewCmdCheck())
	cmd.AddCommand(markup.NewCmdTags())
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
