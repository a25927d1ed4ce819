package markup

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-preview/internal/view"
	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
	"github.com/open-cli-collective/bbcode-preview/pkg/preview"
)

// Placeholder is printed instead of a preview when the input is blank.
const Placeholder = "Start typing to see a preview..."

var renderFormats = []string{"html", "markdown", "text", "terminal", "tree", "json"}

type renderOptions struct {
	parserOptions
	format   string
	fragment bool
	width    int
	stdout   io.Writer
}

// NewCmdRender creates the render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render BBCode to HTML, markdown, text or the terminal",
		Long: `Parse BBCode and print it in the chosen format.

Reads from stdin when no file or "-" is given. Malformed markup never fails
the render; unknown tags stay as text and stray closing tags are ignored.
Run 'bbp check' to list what was absorbed.`,
		Example: `  # Preview a profile in the terminal
  bbp render profile.txt --format terminal

  # Standalone HTML page
  bbp render profile.txt > profile.html

  # HTML fragment from stdin
  echo '[b]hi[/b]' | bbp render --fragment`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bindGlobal(cmd)
			opts.stdout = cmd.OutOrStdout()
			return runRender(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "html", "Output format: "+strings.Join(renderFormats, ", "))
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "Emit an HTML fragment instead of a full page")
	cmd.Flags().IntVar(&opts.width, "width", 80, "Terminal layout width")
	opts.addFlags(cmd)

	return cmd
}

func validateRenderFormat(format string) error {
	for _, f := range renderFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("invalid render format %q: must be one of %s", format, strings.Join(renderFormats, ", "))
}

func runRender(ctx context.Context, opts *renderOptions, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validateRenderFormat(opts.format); err != nil {
		return err
	}

	input, name, err := opts.readInput(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(input) == "" {
		fmt.Fprintln(opts.stdout, Placeholder)
		return nil
	}

	log := opts.logger()
	parser, err := opts.newParser(ctx, &log, input)
	if err != nil {
		return err
	}

	res, err := parser.Parse(input)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	if err := writeRendered(opts, name, res); err != nil {
		return err
	}

	if n := len(res.Warnings); n > 0 {
		log.Warn().Int("warnings", n).Str("input", name).Msg("markup has problems; run 'bbp check' for details")
	}
	return nil
}

func writeRendered(opts *renderOptions, name string, res *bbcode.Result) error {
	var (
		out string
		err error
	)

	switch opts.format {
	case "html":
		if opts.fragment {
			out, err = preview.HTML(res.Root)
		} else {
			out, err = preview.Document(res.Root, preview.DocumentOptions{Title: name})
		}
	case "markdown":
		out, err = preview.Markdown(res.Root)
	case "text":
		out = preview.Text(res.Root)
	case "terminal":
		out = preview.Terminal(res.Root, preview.TerminalOptions{Width: opts.width, NoColor: opts.noColor})
	case "tree":
		return preview.Tree(opts.stdout, res.Root)
	case "json":
		renderer := view.NewRenderer(view.FormatJSON, opts.noColor)
		renderer.SetWriter(opts.stdout)
		warnings := res.Warnings
		if warnings == nil {
			warnings = []bbcode.Warning{}
		}
		return renderer.RenderJSON(struct {
			Root     *bbcode.Node     `json:"root"`
			Warnings []bbcode.Warning `json:"warnings"`
		}{res.Root, warnings})
	}
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", opts.format, err)
	}

	fmt.Fprintln(opts.stdout, strings.TrimSuffix(out, "\n"))
	return nil
}
