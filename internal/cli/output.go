package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/orngkit/pkg/errors"
	"github.com/matzehuels/orngkit/pkg/pipeline"
)

// artifactWriteParams describes rendered outputs to put on disk.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// basePath derives the base output path. An empty output strips the
// extension from input; an output ending in a known format extension has
// that extension stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath returns where format is written. A single format written to
// an explicit output path keeps that path as is.
func artifactPath(p artifactWriteParams, format string) string {
	if len(p.formats) == 1 && p.output != "" && filepath.Ext(p.output) == "."+format {
		return p.output
	}
	base := basePath(p.output, p.input)
	if format == pipeline.FormatJSON && strings.HasSuffix(p.input, ".json") && base == strings.TrimSuffix(p.input, ".json") {
		// keep re-rendered trees from overwriting their source
		return base + ".tree.json"
	}
	return base + "." + format
}

// writeArtifacts writes every requested format and reports the paths.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	var paths []string
	for _, format := range p.formats {
		payload, ok := p.artifacts[format]
		if !ok {
			return paths, fmt.Errorf("missing %s output", format)
		}
		path := artifactPath(p, format)
		if err := errors.ValidateOutputPath(path); err != nil {
			return paths, err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
