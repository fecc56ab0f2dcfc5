package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/orngkit/pkg/cache"
	"github.com/matzehuels/orngkit/pkg/cluster"
	"github.com/matzehuels/orngkit/pkg/data"
	"github.com/matzehuels/orngkit/pkg/distance"
	"github.com/matzehuels/orngkit/pkg/errors"
	pkgio "github.com/matzehuels/orngkit/pkg/io"
	"github.com/matzehuels/orngkit/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner only holds the cache, keyer and logger, so several
// goroutines can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL overrides the default lifetime of cached trees and artifacts.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the default one.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → distance → cluster → order → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])

	result := &Result{RunID: runID}

	raw, table, err := r.load(ctx, opts, &result.Stats)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.DataHash = cache.Hash(raw)
	logger.Info("loaded data",
		"examples", table.Len(),
		"attributes", len(table.Domain.Attributes),
		"duration", result.Stats.LoadTime)

	doc, hit, err := r.tree(ctx, result.DataHash, table, opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.CacheInfo.TreeHit = hit
	result.Stats.Items = doc.Tree.Len()
	result.Stats.Cost = doc.Cost
	logger.Info("clustered",
		"items", doc.Tree.Len(),
		"linkage", doc.Linkage,
		"ordered", doc.Ordered,
		"cost", doc.Cost,
		"cached", hit)

	var buf bytes.Buffer
	if err := pkgio.WriteJSON(doc, &buf); err != nil {
		return nil, fmt.Errorf("serialize tree: %w", err)
	}
	treeJSON := buf.Bytes()
	result.TreeHash = cache.Hash(treeJSON)

	start := time.Now()
	artifacts, hit, err := r.render(ctx, doc, table, treeJSON, result.TreeHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(start)
	logger.Info("rendered outputs",
		"renderer", opts.Renderer,
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// load reads and parses the input table, returning its raw bytes for
// hashing.
func (r *Runner) load(ctx context.Context, opts Options, stats *Stats) (raw []byte, t *data.Table, err error) {
	start := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageLoad, 0)
	defer func() {
		stats.LoadTime = time.Since(start)
		observability.Pipeline().OnStageComplete(ctx, observability.StageLoad, stats.LoadTime, err)
	}()

	raw = opts.Data
	if raw == nil {
		raw, err = os.ReadFile(opts.Input)
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", opts.Input)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", opts.Input, err)
		}
	}
	t, err = data.ReadTab(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, err
	}
	if t.Len() == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "table has no examples")
	}
	return raw, t, nil
}

// tree returns the clustered tree from the cache or computes it.
func (r *Runner) tree(ctx context.Context, dataHash string, t *data.Table, opts Options, stats *Stats) (pkgio.Document, bool, error) {
	key := r.Keyer.TreeKey(dataHash, opts.TreeKeyOpts())

	if !opts.Refresh {
		if raw, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if doc, err := pkgio.ReadJSON(bytes.NewReader(raw)); err == nil {
				observability.Cache().OnCacheHit(ctx, "tree")
				return doc, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "tree")
	}

	doc, err := r.Cluster(ctx, t, opts, stats)
	if err != nil {
		return pkgio.Document{}, false, err
	}

	var buf bytes.Buffer
	if err := pkgio.WriteJSON(doc, &buf); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), r.ttl(cache.TTLTree)); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "tree", buf.Len())
		}
	}
	return doc, false, nil
}

// Cluster computes the distance matrix, the clustering and, if requested,
// the optimal leaf order of t without touching the cache.
func (r *Runner) Cluster(ctx context.Context, t *data.Table, opts Options, stats *Stats) (pkgio.Document, error) {
	if err := opts.ValidateForCluster(); err != nil {
		return pkgio.Document{}, err
	}
	if stats == nil {
		stats = &Stats{}
	}
	linkage, _ := cluster.ParseLinkage(opts.Linkage)

	var (
		d      *distance.SymMatrix
		labels []string
	)
	err := stage(ctx, observability.StageDistance, t.Len(), &stats.DistanceTime, func() error {
		if opts.Attributes {
			d = distance.Attributes(t)
			labels = attributeLabels(t)
		} else {
			d = distance.Examples(t, Measures[opts.Measure])
			var err error
			if labels, err = exampleLabels(t, opts.LabelBy); err != nil {
				return err
			}
		}
		return ctx.Err()
	})
	if err != nil {
		return pkgio.Document{}, fmt.Errorf("distance: %w", err)
	}
	if d.Dim() == 0 {
		return pkgio.Document{}, errors.New(errors.ErrCodeInvalidInput, "nothing to cluster")
	}

	var tree *cluster.Tree
	err = stage(ctx, observability.StageCluster, d.Dim(), &stats.ClusterTime, func() error {
		tree = cluster.Agglomerate(d, linkage)
		return nil
	})
	if err != nil {
		return pkgio.Document{}, fmt.Errorf("cluster: %w", err)
	}

	doc := pkgio.Document{Tree: tree, Labels: labels, Linkage: linkage.String(), Ordered: opts.Order}
	if !opts.Order {
		doc.Cost = cluster.Cost(tree, d)
		return doc, nil
	}
	err = stage(ctx, observability.StageOrder, d.Dim(), &stats.OrderTime, func() error {
		var err error
		doc.Cost, err = cluster.OrderLeaves(ctx, tree, d, opts.Progress)
		return err
	})
	if err != nil {
		return pkgio.Document{}, fmt.Errorf("order: %w", err)
	}
	opts.Logger.Debug("ordered leaves", "cost", doc.Cost, "duration", stats.OrderTime)
	return doc, nil
}

// stage times fn and reports it to the pipeline hooks.
func stage(ctx context.Context, s observability.Stage, items int, elapsed *time.Duration, fn func() error) error {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, s, items)
	start := time.Now()
	err := fn()
	*elapsed = time.Since(start)
	hooks.OnStageComplete(ctx, s, *elapsed, err)
	return err
}

// render returns all requested formats from the cache, or renders them all.
func (r *Runner) render(ctx context.Context, doc pkgio.Document, t *data.Table, treeJSON []byte, treeHash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
			raw, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = raw
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	var rendered map[string][]byte
	var elapsed time.Duration
	err := stage(ctx, observability.StageRender, doc.Tree.Len(), &elapsed, func() error {
		var err error
		rendered, err = Render(ctx, doc, t, treeJSON, opts)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	for format, raw := range rendered {
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, raw, r.ttl(cache.TTLArtifact)); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(raw))
	}
	return rendered, false, nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func attributeLabels(t *data.Table) []string {
	labels := make([]string, len(t.Domain.Attributes))
	for i, a := range t.Domain.Attributes {
		labels[i] = a.Name
	}
	return labels
}

// exampleLabels labels examples by the values of the variable named by,
// by their class, or by their index.
func exampleLabels(t *data.Table, by string) ([]string, error) {
	labels := make([]string, t.Len())
	if by == "" {
		if t.Domain.ClassVar == nil {
			for i := range labels {
				labels[i] = fmt.Sprintf("#%d", i)
			}
			return labels, nil
		}
		by = t.Domain.ClassVar.Name
	}

	if i := t.Domain.IndexByName(by); i >= 0 {
		for r, ex := range t.Examples {
			labels[r] = ex.At(i).String()
		}
		return labels, nil
	}
	id, ok := t.Domain.MetaID(by)
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingAttribute, "no variable named %q", by)
	}
	for r, ex := range t.Examples {
		if x, ok := ex.Meta(id); ok {
			labels[r] = x.String()
		} else {
			labels[r] = "?"
		}
	}
	return labels, nil
}
