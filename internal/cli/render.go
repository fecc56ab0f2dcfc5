package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orngkit/pkg/data"
	pkgio "github.com/matzehuels/orngkit/pkg/io"
	"github.com/matzehuels/orngkit/pkg/pipeline"
)

// renderCommand creates the render command for redrawing a stored tree.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		dataTab string
		title   string
	)

	cmd := &cobra.Command{
		Use:   "render [tree.json]",
		Short: "Draw a dendrogram from a stored cluster tree",
		Long: `Draw a dendrogram from a tree written by 'cluster --format json'.

Without --data the picture has no heatmap. With --data the table's values are
drawn next to the leaves; it must be the table the tree was built from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			opts := cfg.PipelineOptions()
			opts.Formats = parseFormats(formats)
			opts.Heatmap = dataTab != ""
			opts.Title = title
			opts.Logger = c.Logger
			return c.runRender(cmd.Context(), args[0], dataTab, opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): png, svg, json (comma-separated; default per renderer)")
	cmd.Flags().StringVar(&dataTab, "data", "", "tab file supplying heatmap values")
	cmd.Flags().StringVar(&title, "title", "", "plot title (plot renderer)")
	addDrawFlags(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, dataTab string, opts pipeline.Options, output string) error {
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	doc, err := pkgio.ImportJSON(input)
	if err != nil {
		return err
	}
	var tab *data.Table
	if dataTab != "" {
		if tab, err = data.LoadTab(dataTab); err != nil {
			return err
		}
		if tab.Len() != doc.Tree.Len() {
			return fmt.Errorf("%s has %d examples but the tree has %d leaves", dataTab, tab.Len(), doc.Tree.Len())
		}
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", input))
	spinner.Start()
	artifacts, err := pipeline.Render(ctx, doc, tab, nil, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}
	printSuccess("Rendered %d leaves", doc.Tree.Len())
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
