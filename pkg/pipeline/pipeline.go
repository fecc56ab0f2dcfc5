// Package pipeline runs load → distance → cluster → order → render with
// caching, so the CLI and library users share one code path.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:    "zoo.tab",
//	    Linkage:  "average",
//	    Order:    true,
//	    Renderer: pipeline.RendererImage,
//	    Formats:  []string{"png", "json"},
//	})
//	png := result.Artifacts["png"]
//
// The clustered tree is cached under the hash of the input file and the
// clustering options; artifacts are cached under the hash of the tree and
// the rendering options. A second run with different drawing options
// therefore skips distance computation, clustering and leaf ordering.
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orngkit/pkg/cache"
	"github.com/matzehuels/orngkit/pkg/cluster"
	"github.com/matzehuels/orngkit/pkg/distance"
	"github.com/matzehuels/orngkit/pkg/errors"
	pkgio "github.com/matzehuels/orngkit/pkg/io"
)

// Defaults shared by the CLI and library callers.
const (
	DefaultLinkage  = "average"
	DefaultMeasure  = "euclidean"
	DefaultRenderer = RendererImage
	DefaultClusters = 0
)

// Renderers.
const (
	RendererImage    = "image"
	RendererPlot     = "plot"
	RendererNodelink = "nodelink"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// ValidRenderers maps each renderer to the image formats it produces. Every
// renderer also emits the tree as JSON.
var ValidRenderers = map[string][]string{
	RendererImage:    {FormatPNG},
	RendererPlot:     {FormatPNG, FormatSVG},
	RendererNodelink: {FormatSVG, FormatPNG},
}

// Measures maps measure names to example dissimilarities.
var Measures = map[string]distance.Constructor{
	"euclidean": distance.Euclidean,
	"manhattan": distance.Manhattan,
}

// Options configures a pipeline run.
type Options struct {
	// Input is a tab file. Data, when set, is used instead of reading Input.
	Input string `json:"input,omitempty"`
	Data  []byte `json:"-"`

	// Clustering options.
	Attributes bool   `json:"attributes,omitempty"`
	Measure    string `json:"measure,omitempty"`
	Linkage    string `json:"linkage,omitempty"`
	Order      bool   `json:"order,omitempty"`
	// LabelBy names the variable whose values label examples. Empty uses
	// the class, or the example index when there is no class.
	LabelBy string `json:"label_by,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Rendering options.
	Renderer  string   `json:"renderer,omitempty"`
	Formats   []string `json:"formats,omitempty"`
	Width     int      `json:"width,omitempty"`
	Height    int      `json:"height,omitempty"`
	Font      string   `json:"font,omitempty"`
	FontSize  float64  `json:"font_size,omitempty"`
	LineWidth float64  `json:"line_width,omitempty"`
	Clusters  int      `json:"clusters,omitempty"`
	Heatmap   bool     `json:"heatmap,omitempty"`
	LowColor  string   `json:"low_color,omitempty"`
	HighColor string   `json:"high_color,omitempty"`
	Title     string   `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger          `json:"-"`
	Progress cluster.ProgressFunc `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	RunID string

	// Document is the clustered tree with its labels.
	Document pkgio.Document
	DataHash string
	TreeHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics. Stage times are zero for
// stages skipped by a cache hit.
type Stats struct {
	Items        int
	Cost         float64
	LoadTime     time.Duration
	DistanceTime time.Duration
	ClusterTime  time.Duration
	OrderTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	TreeHit   bool
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRenderer checks that a renderer is known and can produce every
// requested format.
func ValidateRenderer(renderer string, formats []string) error {
	supported, ok := ValidRenderers[renderer]
	if !ok {
		return errors.New(errors.ErrCodeInvalidRenderer,
			"invalid renderer: %q (must be one of: image, plot, nodelink)", renderer)
	}
	for _, f := range formats {
		if f != FormatJSON && !slices.Contains(supported, f) {
			return errors.New(errors.ErrCodeUnsupported,
				"renderer %s cannot produce %s (supports: %s, json)", renderer, f, strings.Join(supported, ", "))
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. Calling
// it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCluster(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForCluster checks input and clustering options.
func (o *Options) ValidateForCluster() error {
	if o.Input == "" && o.Data == nil {
		return errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	if o.Linkage == "" {
		o.Linkage = DefaultLinkage
	}
	if _, err := cluster.ParseLinkage(o.Linkage); err != nil {
		return err
	}
	if o.Measure == "" {
		o.Measure = DefaultMeasure
	}
	if _, ok := Measures[o.Measure]; !ok {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid measure: %q (must be one of: euclidean, manhattan)", o.Measure)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender checks rendering options.
func (o *Options) ValidateForRender() error {
	if o.Renderer == "" {
		o.Renderer = DefaultRenderer
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{ValidRenderers[o.Renderer][0]}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateRenderer(o.Renderer, o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if o.Clusters < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "clusters must not be negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// TreeKeyOpts returns cache key options for the clustered tree.
func (o *Options) TreeKeyOpts() cache.TreeKeyOpts {
	return cache.TreeKeyOpts{
		Attributes: o.Attributes,
		Measure:    o.Measure,
		Linkage:    o.Linkage,
		Order:      o.Order,
		LabelBy:    o.LabelBy,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Renderer:  o.Renderer,
		Format:    format,
		Width:     o.Width,
		Height:    o.Height,
		Font:      o.Font,
		FontSize:  o.FontSize,
		LineWidth: o.LineWidth,
		Clusters:  o.Clusters,
		Heatmap:   o.Heatmap,
		LowColor:  o.LowColor,
		HighColor: o.HighColor,
		Title:     o.Title,
	}
}
