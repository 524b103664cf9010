package assets

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Manifest lists assets shared by every level, such as HUD fonts and the
// bullet texture.
type Manifest struct {
	Textures []TextureEntry `yaml:"textures"`
	Fonts    []FontEntry    `yaml:"fonts"`
}

type TextureEntry struct {
	Id   string `yaml:"id"`
	File string `yaml:"file"`
}

type FontEntry struct {
	Id   string  `yaml:"id"`
	File string  `yaml:"file"`
	Size float64 `yaml:"size"`
}

// LoadManifest reads a YAML manifest. Relative file paths are resolved
// against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read manifest %s", path)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, eris.Wrapf(err, "manifest %s", path)
	}

	dir := filepath.Dir(path)
	for i := range m.Textures {
		m.Textures[i].File = resolve(dir, m.Textures[i].File)
	}
	for i := range m.Fonts {
		m.Fonts[i].File = resolve(dir, m.Fonts[i].File)
	}
	return m, nil
}

// ParseManifest decodes and validates manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "parse manifest")
	}

	seen := make(map[string]bool)
	check := func(kind, id, file string) error {
		if id == "" || file == "" {
			return eris.Errorf("%s entry needs both id and file", kind)
		}
		if seen[kind+":"+id] {
			return eris.Errorf("duplicate %s id %q", kind, id)
		}
		seen[kind+":"+id] = true
		return nil
	}
	for _, t := range m.Textures {
		if err := check("texture", t.Id, t.File); err != nil {
			return nil, err
		}
	}
	for i, f := range m.Fonts {
		if err := check("font", f.Id, f.File); err != nil {
			return nil, err
		}
		if f.Size <= 0 {
			m.Fonts[i].Size = 12
		}
	}
	return &m, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Load adds every manifest entry to s, stopping at the first failure.
func (s *Store) Load(m *Manifest) error {
	for _, t := range m.Textures {
		if err := s.AddTexture(t.Id, t.File); err != nil {
			return err
		}
	}
	for _, f := range m.Fonts {
		if err := s.AddFont(f.Id, f.File, f.Size); err != nil {
			return err
		}
	}
	return nil
}
