// Package nodelink renders clustering trees as node-link diagrams.
//
// # Overview
//
// This package produces tree diagrams using Graphviz: leaves appear as
// labelled boxes, merges as small points annotated with their height, and
// the root sits on the left. Children are emitted in the tree's leaf order
// so Graphviz keeps that order from top to bottom.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{Labels: labels})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Labels: leaf labels by item index
//   - Heights: when true, merge points are labelled with their height
//   - Colors: cluster colours applied to edges below a coloured node
//
// # Dependencies
//
// Rendering uses github.com/goccy/go-graphviz, which embeds Graphviz; no
// external installation is required.
package nodelink
