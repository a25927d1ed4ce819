package markup

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-preview/internal/view"
	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
)

// maxMessageWidth caps the MESSAGE column of the table output.
const maxMessageWidth = 72

type checkOptions struct {
	parserOptions
	strict bool
	output string
	stdout io.Writer
}

// NewCmdCheck creates the check command.
func NewCmdCheck() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Report markup problems",
		Long: `Parse BBCode and list every problem the renderer silently absorbed:
unknown tags, stray closing tags, tags that are not allowed where they are
used, content cut off by the nesting limit and tags left open.`,
		Example: `  # Check a profile
  bbp check profile.txt

  # Fail in CI when anything is wrong
  bbp check profile.txt --strict

  # Machine readable
  bbp check profile.txt -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bindGlobal(cmd)
			opts.output = outputFormat(cmd)
			opts.stdout = cmd.OutOrStdout()
			return runCheck(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with an error when any problem is found")
	opts.addFlags(cmd)

	return cmd
}

func runCheck(ctx context.Context, opts *checkOptions, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// Validate output format
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	input, name, err := opts.readInput(args)
	if err != nil {
		return err
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

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	warnings := res.Warnings
	if warnings == nil {
		warnings = []bbcode.Warning{}
	}

	switch {
	case opts.output == string(view.FormatJSON):
		if err := renderer.RenderJSON(warnings); err != nil {
			return err
		}
	case len(warnings) == 0:
		if renderer.Format() == view.FormatTable {
			renderer.Success(name + ": no problems found")
		}
	default:
		rows := make([][]string, 0, len(warnings))
		for _, w := range warnings {
			msg := w.Message
			if renderer.Format() == view.FormatTable {
				msg = view.Truncate(msg, maxMessageWidth)
			}
			rows = append(rows, []string{w.Position.String(), string(w.Kind), w.Tag, msg})
		}
		renderer.RenderTable([]string{"POSITION", "KIND", "TAG", "MESSAGE"}, rows)
		if renderer.Format() == view.FormatTable {
			renderer.Warning(fmt.Sprintf("%s: %s", name, plural(len(warnings), "problem")))
		}
	}

	if opts.strict && len(warnings) > 0 {
		return fmt.Errorf("%s in %s", plural(len(warnings), "problem"), name)
	}
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, strings.TrimSuffix(noun, "s"))
}
