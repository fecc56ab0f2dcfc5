package render

import (
	"fmt"
	"image/color"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/orngkit/pkg/cluster"
)

// Palette is used to colour top-level clusters.
var Palette = []color.RGBA{
	{31, 119, 180, 255},
	{214, 39, 40, 255},
	{44, 160, 44, 255},
	{148, 103, 189, 255},
	{255, 127, 14, 255},
	{23, 190, 207, 255},
	{140, 86, 75, 255},
	{227, 119, 194, 255},
}

// ClusterColors maps subtrees to the colour their branches are drawn in.
// Nodes below a coloured node inherit its colour unless mapped themselves.
type ClusterColors map[*cluster.Node]color.Color

// TopClusters colours the k clusters obtained by cutting t below its k-1
// highest merges. k < 2 colours nothing.
func TopClusters(t *cluster.Tree, k int) ClusterColors {
	colors := ClusterColors{}
	if t.Root == nil || k < 2 {
		return colors
	}
	frontier := []*cluster.Node{t.Root}
	for len(frontier) < k {
		split := -1
		for i, n := range frontier {
			if !n.IsLeaf() && (split < 0 || n.Height > frontier[split].Height) {
				split = i
			}
		}
		if split < 0 {
			break
		}
		n := frontier[split]
		frontier = slices.Replace(frontier, split, split+1, n.Left, n.Right)
	}
	for i, n := range frontier {
		colors[n] = Palette[i%len(Palette)]
	}
	return colors
}

// ParseColor reads "#rrggbb", "rrggbb" or "r,g,b".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if parts := strings.Split(s, ","); len(parts) == 3 {
		var c [3]uint8
		for i, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
			}
			c[i] = uint8(v)
		}
		return color.RGBA{c[0], c[1], c[2], 255}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
}

// Labels returns labels for n items, using the item index where labels is
// short or empty.
func Labels(n int, labels []string) []string {
	out := make([]string, n)
	for i := range out {
		if i < len(labels) && labels[i] != "" {
			out[i] = labels[i]
		} else {
			out[i] = strconv.Itoa(i)
		}
	}
	return out
}
