package cache

import "time"

// Keyer derives cache keys from content hashes and run options.
type Keyer interface {
	// TreeKey addresses a clustered, optionally ordered tree.
	TreeKey(dataHash string, opts TreeKeyOpts) string
	// ArtifactKey addresses a rendered dendrogram of a cached tree.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// TreeKeyOpts lists the options a clustered tree depends on.
type TreeKeyOpts struct {
	Attributes bool   `json:"attributes"`
	Measure    string `json:"measure"`
	Linkage    string `json:"linkage"`
	Order      bool   `json:"order"`
	LabelBy    string `json:"label_by,omitempty"`
}

// ArtifactKeyOpts lists the options a rendered artifact depends on.
type ArtifactKeyOpts struct {
	Renderer  string  `json:"renderer"`
	Format    string  `json:"format"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Font      string  `json:"font,omitempty"`
	FontSize  float64 `json:"font_size,omitempty"`
	LineWidth float64 `json:"line_width"`
	Clusters  int     `json:"clusters"`
	Heatmap   bool    `json:"heatmap"`
	LowColor  string  `json:"low_color,omitempty"`
	HighColor string  `json:"high_color,omitempty"`
	Title     string  `json:"title,omitempty"`
}

// Default time-to-live of cached entries. Trees depend only on the input
// bytes and options, so they are kept longer than drawings.
const (
	TTLTree     = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// DefaultKeyer hashes all key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey returns "tree:<sha256>".
func (DefaultKeyer) TreeKey(dataHash string, opts TreeKeyOpts) string {
	return hashKey("tree", dataHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}
