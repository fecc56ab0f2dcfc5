package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"png", []string{"png"}},
		{"PNG, json", []string{"png", "json"}},
		{"svg,,", []string{"svg"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/iris.tab", "data/iris"},
		{"out/iris.png", "iris.tab", "out/iris"},
		{"out/iris", "iris.tab", "out/iris"},
		{"iris.v2", "iris.tab", "iris.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name string
		p    artifactWriteParams
		fmt  string
		want string
	}{
		{"derived", artifactWriteParams{formats: []string{"png"}, input: "iris.tab"}, "png", "iris.png"},
		{"explicit single", artifactWriteParams{formats: []string{"svg"}, input: "iris.tab", output: "d.svg"}, "svg", "d.svg"},
		{"base for many", artifactWriteParams{formats: []string{"png", "json"}, input: "iris.tab", output: "d.png"}, "json", "d.json"},
		{"tree input kept", artifactWriteParams{formats: []string{"json"}, input: "iris.json"}, "json", "iris.tree.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactPath(tt.p, tt.fmt); got != tt.want {
				t.Errorf("artifactPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"png": []byte("img"), "json": []byte("{}")},
		formats:   []string{"png", "json"},
		input:     "iris.tab",
		output:    filepath.Join(dir, "sub", "iris"),
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	got, err := os.ReadFile(filepath.Join(dir, "sub", "iris.json"))
	if err != nil || string(got) != "{}" {
		t.Errorf("iris.json = %q, %v", got, err)
	}

	_, err = writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{},
		formats:   []string{"svg"},
		input:     "iris.tab",
		output:    filepath.Join(dir, "x"),
	})
	if err == nil {
		t.Error("writeArtifacts() should fail for a format that was not rendered")
	}
}
