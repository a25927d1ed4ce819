// Package markup provides the commands that parse BBCode: render, check and
// tags.
package markup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-preview/internal/config"
	"github.com/open-cli-collective/bbcode-preview/internal/inlines"
	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
)

// parserOptions are the settings shared by every command that parses input.
type parserOptions struct {
	configPath  string
	maxDepth    int
	inlinesFile string
	verbose     bool
	noColor     bool
	stdin       io.Reader
	stderr      io.Writer
}

// bindGlobal reads the root command's persistent flags.
func (o *parserOptions) bindGlobal(cmd *cobra.Command) {
	o.configPath, _ = cmd.Flags().GetString("config")
	o.verbose, _ = cmd.Flags().GetBool("verbose")
	o.noColor, _ = cmd.Flags().GetBool("no-color")
	o.stdin = cmd.InOrStdin()
	o.stderr = cmd.ErrOrStderr()
}

func (o *parserOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.maxDepth, "max-depth", 0, "Maximum tag nesting depth (default from config, else 100)")
	cmd.Flags().StringVar(&o.inlinesFile, "inlines", "", "Inline image catalogue file (YAML or JSON)")
}

// logger writes human-readable events to stderr; warnings only unless verbose.
func (o *parserOptions) logger() zerolog.Logger {
	w := o.stderr
	if w == nil {
		w = os.Stderr
	}
	level := zerolog.WarnLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: o.noColor}).
		Level(level).
		With().Timestamp().Logger()
}

// newParser builds an F-List parser for input from config, environment and
// flags. Only the inline ids input uses are requested from the catalogue API.
func (o *parserOptions) newParser(ctx context.Context, log *zerolog.Logger, input string) (*bbcode.Parser, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w (run 'bbp init' to configure)", err)
	}
	if o.maxDepth != 0 {
		cfg.MaxDepth = o.maxDepth
	}
	if o.inlinesFile != "" {
		cfg.InlinesFile = o.inlinesFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'bbp init' to configure)", err)
	}
	cfg.NormalizeURLs()
	cfg.ApplyDefaults()

	var ids []string
	if cfg.InlinesURL != "" {
		ids, err = bbcode.InlineIDs(input, bbcode.Options{MaxDepth: cfg.MaxDepth})
		if err != nil {
			return nil, err
		}
	}

	resolver, err := inlines.Load(ctx, inlines.Options{
		File:     cfg.InlinesFile,
		URL:      cfg.InlinesURL,
		APIToken: cfg.APIToken,
		IDs:      ids,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	reg := bbcode.NewFListRegistry(bbcode.FListOptions{
		SiteURL:   cfg.SiteURL,
		StaticURL: cfg.StaticURL,
		Inlines:   resolver,
	})
	log.Debug().Int("tags", reg.Len()).Int("max_depth", cfg.MaxDepth).Msg("parser ready")

	return bbcode.NewParser(reg, bbcode.Options{
		MaxDepth: cfg.MaxDepth,
		Logger:   log,
	}), nil
}

// outputFormat returns the --output flag, or the config file's output_format
// when the flag was not given.
func outputFormat(cmd *cobra.Command) string {
	output, _ := cmd.Flags().GetString("output")
	if cmd.Flags().Changed("output") {
		return output
	}
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if cfg, err := config.Load(path); err == nil && cfg.OutputFormat != "" {
		return cfg.OutputFormat
	}
	return output
}

// readInput reads the named file, or stdin for "" and "-". It returns the
// content and a display name.
func (o *parserOptions) readInput(args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		stdin := o.stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), filepath.Base(args[0]), nil
}
