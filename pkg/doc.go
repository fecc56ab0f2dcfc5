// Package pkg provides the core libraries of orngkit.
//
// # Overview
//
// orngkit has two halves that share one attribute/value object model:
//
//  1. [translate] - encode tables as numeric rows for LR and SVM learners
//  2. [cluster] - hierarchical clustering with optimal leaf ordering
//
// supported by:
//
//   - [data] - domains, variables, examples and the tab file reader
//   - [distance] - dissimilarity matrices over examples and attributes
//   - [render] - dendrograms as bitmaps, plots and node-link diagrams
//   - [io] - tree JSON import and export
//   - [pipeline] - orchestration (load → distance → cluster → order → render)
//   - [cache] - file, Redis and null caches for trees and artifacts
//   - [observability] - stage and cache hooks
//   - [errors] - structured error codes
//
// # Data Flow
//
//	tab file
//	   ↓
//	[data] table ──→ [translate] rows ──→ CSV / libsvm / gonum matrices
//	   ↓
//	[distance] matrix
//	   ↓
//	[cluster] tree (agglomerate, then order leaves)
//	   ↓
//	[render] PNG / SVG, [io] JSON
//
// # Quick Start
//
// Encode a table for logistic regression:
//
//	tab, _ := data.LoadTab("iris.tab")
//	tr, _ := translate.New(translate.ModeDummy)
//	_ = tr.Analyse(tab, 0)
//	tr.PrepareLR()
//	rows, _ := tr.Transform(tab)
//
// Cluster the examples and draw the dendrogram:
//
//	res, _ := cluster.ClusterExamples(ctx, tab, cluster.Options{Order: true})
//	_ = dendrogram.RenderPNG(w, res.Tree, dendrogram.Options{})
package pkg
