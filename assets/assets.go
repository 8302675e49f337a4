package assets

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/richinsley/goshadergallery/registry"
	yaml "gopkg.in/yaml.v2"
)

//go:embed manifest.yaml shaders/*.frag
var embedded embed.FS

// ManifestFile is the manifest path inside an asset tree.
const ManifestFile = "manifest.yaml"

type manifest struct {
	Shaders []manifestEntry `yaml:"shaders"`
}

type manifestEntry struct {
	Name            string  `yaml:"name"`
	Fragment        string  `yaml:"fragment"`
	Vertex          string  `yaml:"vertex,omitempty"`
	ResolutionScale float64 `yaml:"resolution_scale,omitempty"`
}

// Load builds the registry from the shaders compiled into the binary.
func Load() (*registry.Registry, error) {
	return LoadFS(embedded, ManifestFile)
}

// LoadFS builds a registry from a manifest and the shader files it references.
// Paths in the manifest are relative to the root of fsys.
func LoadFS(fsys fs.FS, manifestPath string) (*registry.Registry, error) {
	data, err := fs.ReadFile(fsys, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m manifest
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", manifestPath, err)
	}

	entries := make([]registry.Entry, 0, len(m.Shaders))
	for _, s := range m.Shaders {
		if s.Fragment == "" {
			return nil, fmt.Errorf("shader %s has no fragment source", s.Name)
		}
		frag, err := fs.ReadFile(fsys, s.Fragment)
		if err != nil {
			return nil, fmt.Errorf("shader %s: %w", s.Name, err)
		}
		e := registry.Entry{
			Name:            s.Name,
			Fragment:        string(frag),
			ResolutionScale: s.ResolutionScale,
		}
		if s.Vertex != "" {
			vert, err := fs.ReadFile(fsys, s.Vertex)
			if err != nil {
				return nil, fmt.Errorf("shader %s: %w", s.Name, err)
			}
			e.Vertex = string(vert)
		}
		entries = append(entries, e)
	}

	return registry.New(entries...)
}
