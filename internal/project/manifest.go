// Package project loads the muscript.toml package manifest and turns a
// package directory into a compiler.SourceInput: class names map to .uc
// file stems, files are lexed and preprocessed on demand, and parses are
// cached per class.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the driver looks for in a package root.
const ManifestName = "muscript.toml"

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing.
	ErrPackageNameMissing = errors.New("missing [package].name")
	// ErrManifestNotFound indicates no muscript.toml up the directory tree.
	ErrManifestNotFound = errors.New("muscript.toml not found")
)

// Manifest is the parsed muscript.toml.
type Manifest struct {
	// Name is the package name ([package].name).
	Name string
	// Flags are free-form package flags ([package].flags).
	Flags []string
	// Dirs are source directories relative to the root ([sources].dirs).
	// Defaults to ["Classes"].
	Dirs []string
	// Include is the `include search directory ([sources].include).
	Include string
	// Defines are preprocessor definitions applied before every file
	// ([defines]). The value may be empty.
	Defines map[string]string

	// Root is the directory the manifest was loaded from.
	Root string
}

type rawManifest struct {
	Package struct {
		Name  string   `toml:"name"`
		Flags []string `toml:"flags"`
	} `toml:"package"`
	Sources struct {
		Dirs    []string `toml:"dirs"`
		Include string   `toml:"include"`
	} `toml:"sources"`
	Defines map[string]string `toml:"defines"`
}

// LoadManifest parses a muscript.toml file.
func LoadManifest(path string) (*Manifest, error) {
	var cfg rawManifest
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	name := strings.TrimSpace(cfg.Package.Name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}

	m := &Manifest{
		Name:    name,
		Flags:   cfg.Package.Flags,
		Dirs:    cfg.Sources.Dirs,
		Include: cfg.Sources.Include,
		Defines: cfg.Defines,
		Root:    filepath.Dir(path),
	}
	if len(m.Dirs) == 0 {
		m.Dirs = []string{"Classes"}
	}
	if m.Defines == nil {
		m.Defines = map[string]string{}
	}
	return m, nil
}

// DefaultManifest builds a manifest for a bare directory without a
// muscript.toml: the package is named after the directory and sources are
// looked up in the directory itself.
func DefaultManifest(root string) *Manifest {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &Manifest{
		Name:    filepath.Base(abs),
		Dirs:    []string{"."},
		Defines: map[string]string{},
		Root:    root,
	}
}

// FindManifest walks up from startDir looking for muscript.toml.
func FindManifest(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// SourceDirs returns the absolute source directories of the manifest.
func (m *Manifest) SourceDirs() []string {
	dirs := make([]string, 0, len(m.Dirs))
	for _, d := range m.Dirs {
		if filepath.IsAbs(d) {
			dirs = append(dirs, d)
			continue
		}
		dirs = append(dirs, filepath.Join(m.Root, d))
	}
	return dirs
}

// IncludeDir returns the absolute `include search directory, or "" when
// the manifest does not configure one.
func (m *Manifest) IncludeDir() string {
	if m.Include == "" {
		return ""
	}
	if filepath.IsAbs(m.Include) {
		return m.Include
	}
	return filepath.Join(m.Root, m.Include)
}
