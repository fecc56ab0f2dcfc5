// Package render provides the pieces shared by the dendrogram renderers.
//
// # Overview
//
// A dendrogram is drawn from a [cluster.Tree] in its current leaf order,
// optionally with a heatmap of the clustered examples to the right of the
// labels. Three renderers live in subpackages:
//
//   - [dendrogram]: bitmap drawing with fogleman/gg, PNG output
//   - [plot]: gonum/plot figure, PNG, SVG or PDF output
//   - [nodelink]: Graphviz node-link diagram of the tree, SVG or PNG output
//
// This package holds the heatmap data model, its colour scales and the
// cluster colour assignment used by all of them.
//
//	hm := render.HeatmapFromTable(table)
//	scale := hm.ColorScale(render.DefaultScheme)
//	c, ok := scale(table.Examples[0].Values[0])
//
// [cluster.Tree]: github.com/matzehuels/orngkit/pkg/cluster.Tree
// [dendrogram]: github.com/matzehuels/orngkit/pkg/render/dendrogram
// [plot]: github.com/matzehuels/orngkit/pkg/render/plot
// [nodelink]: github.com/matzehuels/orngkit/pkg/render/nodelink
package render
