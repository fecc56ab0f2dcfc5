package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orngkit/pkg/data"
	"github.com/matzehuels/orngkit/pkg/pipeline"
)

// clusterFlags holds the cluster flags that have no config key.
type clusterFlags struct {
	output     string
	formats    string
	attributes bool
	labelBy    string
	pickLabel  bool
	heatmap    bool
	refresh    bool
	title      string
}

// clusterCommand creates the cluster command.
func (c *CLI) clusterCommand() *cobra.Command {
	var f clusterFlags

	cmd := &cobra.Command{
		Use:   "cluster [data.tab]",
		Short: "Cluster a data table and draw its dendrogram",
		Long: `Cluster the examples (or, with --attributes, the attributes) of a tab file
hierarchically and draw the dendrogram.

Examples are compared with a normalized distance (--measure), attributes by
the p-value of their correlation. With --order, the leaves are reordered so
that neighbouring leaves are as similar as possible.

The clustered tree is cached by the file content and clustering options, so
redrawing with other dimensions or colours skips the clustering. Use
--refresh to recompute.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			opts := cfg.PipelineOptions()
			opts.Input = args[0]
			opts.Formats = parseFormats(f.formats)
			opts.Attributes = f.attributes
			opts.LabelBy = f.labelBy
			opts.Heatmap = f.heatmap
			opts.Refresh = f.refresh
			opts.Title = f.title
			opts.Logger = c.Logger
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			if f.pickLabel && !f.attributes {
				tab, err := data.LoadTab(args[0])
				if err != nil {
					return err
				}
				name, err := pickLabel(tab.Domain)
				if err != nil {
					return err
				}
				if name != "" {
					opts.LabelBy = name
				}
			}

			runner, err := c.newRunner(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.runCluster(cmd.Context(), runner, opts, f.output)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): png, svg, json (comma-separated; default per renderer)")
	cmd.Flags().BoolVar(&f.attributes, "attributes", false, "cluster attributes instead of examples")
	cmd.Flags().StringVar(&f.labelBy, "label-by", "", "variable labelling the examples (default: class)")
	cmd.Flags().BoolVar(&f.pickLabel, "pick-label", false, "choose the label variable interactively")
	cmd.Flags().BoolVar(&f.heatmap, "heatmap", false, "draw the data next to the dendrogram")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute the tree even if it is cached")
	cmd.Flags().StringVar(&f.title, "title", "", "plot title (plot renderer)")

	// Flags mirrored by config keys; only explicitly set values override.
	cmd.Flags().String("linkage", "", "linkage: single, average (default), complete, ward")
	cmd.Flags().String("measure", "", "example distance: euclidean (default), manhattan")
	cmd.Flags().Bool("order", true, "optimally order the leaves")
	addDrawFlags(cmd)
	addCacheFlags(cmd)

	return cmd
}

// addDrawFlags registers the drawing flags shared by cluster and render.
func addDrawFlags(cmd *cobra.Command) {
	cmd.Flags().String("renderer", "", "renderer: image (default), plot, nodelink")
	cmd.Flags().Int("width", 0, "picture width in pixels (default: derived from the data)")
	cmd.Flags().Int("height", 0, "picture height in pixels (default: derived from the data)")
	cmd.Flags().String("font", "", "TrueType font file")
	cmd.Flags().Float64("font-size", 0, "label font size (default: derived from the height)")
	cmd.Flags().Float64("line-width", 0, "dendrogram line width")
	cmd.Flags().Int("clusters", 0, "colour the top N clusters")
	cmd.Flags().String("low-color", "", "heatmap colour for low values (#rrggbb)")
	cmd.Flags().String("high-color", "", "heatmap colour for high values (#rrggbb)")
}

func (c *CLI) runCluster(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) error {
	what := "examples"
	if opts.Attributes {
		what = "attributes"
	}
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Clustering %s of %s...", what, opts.Input))
	spinner.Start()
	opts.Progress = spinner.Progress("Ordering leaves")

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Clustering failed")
		return fmt.Errorf("cluster: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Input,
		output:    output,
	})
	if err != nil {
		return err
	}

	c.Logger.Debug("cluster run finished", "run", result.RunID,
		"distance", result.Stats.DistanceTime, "cluster", result.Stats.ClusterTime,
		"order", result.Stats.OrderTime, "render", result.Stats.RenderTime)

	printSuccess("Clustered %s with %s linkage", what, result.Document.Linkage)
	fmt.Println(statsLine(result.Stats.Items, result.Stats.Cost, result.CacheInfo.TreeHit))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
