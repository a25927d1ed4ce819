package markup

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/bbcode-preview/internal/view"
	"github.com/open-cli-collective/bbcode-preview/pkg/bbcode"
)

type tagsOptions struct {
	kind    string
	output  string
	noColor bool
	stdout  io.Writer
}

// NewCmdTags creates the tags command.
func NewCmdTags() *cobra.Command {
	opts := &tagsOptions{}

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List supported tags",
		Long:  `List every tag the renderer recognizes with its kind and the tags allowed inside it.`,
		Example: `  # List all tags
  bbp tags

  # Only tags that capture their body as raw text
  bbp tags --kind text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.output = outputFormat(cmd)
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdout = cmd.OutOrStdout()
			return runTags(opts, bbcode.NewFListRegistry(bbcode.FListOptions{}))
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "", "Filter by kind (structural, text, self-closing)")

	return cmd
}

func runTags(opts *tagsOptions, reg *bbcode.Registry) error {
	// Validate output format
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	var rows [][]string
	for _, name := range reg.Names() {
		tag, _ := reg.Lookup(name)
		if opts.kind != "" && tag.Kind.String() != opts.kind {
			continue
		}
		rows = append(rows, []string{tag.Name, tag.Kind.String(), allowedSummary(tag)})
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	if len(rows) == 0 {
		if opts.kind != "" {
			return fmt.Errorf("no tags of kind %q", opts.kind)
		}
		renderer.RenderText("No tags registered.")
		return nil
	}

	renderer.RenderTable([]string{"NAME", "KIND", "ALLOWED"}, rows)
	return nil
}

// allowedSummary is "*" for unrestricted tags and "-" when nothing may nest.
func allowedSummary(t *bbcode.Tag) string {
	allowed := t.AllowedChildren()
	switch {
	case allowed == nil:
		return "*"
	case len(allowed) == 0:
		return "-"
	default:
		return strings.Join(allowed, ",")
	}
}
