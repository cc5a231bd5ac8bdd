package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config location.
const EnvConfigPath = "FLOATWIN_CONFIG"

// SourceKind says where a config value came from.
type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source locates a config value.
type Source struct {
	Kind   SourceKind
	Name   string // for defaults
	File   string
	Line   int
	Column int
}

func (s Source) position() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// LoadResult is an effective config plus where each file-set key came from.
type LoadResult struct {
	Config *Config
	// Sources maps a dotted YAML path to the last file that set it.
	Sources map[string]Source
	// Files lists every file read, includes first.
	Files []string
}

// DefaultConfigPath returns $FLOATWIN_CONFIG or ~/.config/floatwin/config.yaml.
func DefaultConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "floatwin", "config.yaml"), nil
}

// Load reads the configuration from the default location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load with source tracking.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes. A missing file yields the
// defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &loader{
		visited: make(map[string]bool),
		sources: make(map[string]Source),
	}

	if _, err := os.Stat(path); err == nil {
		if err := l.load(path); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg, err := BuildEffectiveConfig(l.raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, l.locate(err)
	}
	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// loader reads a config file tree. Included files merge first and the
// including file wins; a file reached twice is read once.
type loader struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
	visited map[string]bool
	chain   []string
}

func (l *loader) load(path string) error {
	file, err := canonicalPath(path)
	if err != nil {
		return err
	}
	if slices.Contains(l.chain, file) {
		return fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), file)
	}
	if l.visited[file] {
		return nil
	}
	l.visited[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var raw RawConfig
	if err := decodeStrict(data, &raw); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	sources := make(map[string]Source)
	walkSources(rootNode(&doc), file, "", sources)

	l.chain = append(l.chain, file)
	for _, inc := range raw.Include {
		paths, err := includeTargets(file, inc)
		if err != nil {
			return fmt.Errorf("%s: include %q: %w", sources["include"].position(), inc, err)
		}
		for _, p := range paths {
			if err := l.load(p); err != nil {
				return err
			}
		}
	}
	l.chain = l.chain[:len(l.chain)-1]

	l.raw = l.raw.merge(raw)
	for k, src := range sources {
		l.sources[k] = src
	}
	l.files = append(l.files, file)
	return nil
}

// locate attaches the file position of a validation error's key, falling back
// to the nearest parent since sequences are tracked as a whole.
func (l *loader) locate(err error) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	for p := verr.Path; p != ""; {
		if src, ok := l.sources[p]; ok {
			verr.Source = src
			break
		}
		i := strings.LastIndex(p, ".")
		if i < 0 {
			break
		}
		p = p[:i]
	}
	return verr
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// includeTargets resolves an include entry relative to the including file. A
// directory expands to its *.yaml and *.yml files in name order.
func includeTargets(from, include string) ([]string, error) {
	if include == "" {
		return nil, errors.New("path is empty")
	}
	if include == "~" || strings.HasPrefix(include, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		include = filepath.Join(home, strings.TrimPrefix(include, "~"))
	}
	if !filepath.IsAbs(include) {
		include = filepath.Join(filepath.Dir(from), include)
	}

	info, err := os.Stat(include)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{include}, nil
	}
	var out []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(include, pattern))
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	slices.Sort(out)
	return out, nil
}

func rootNode(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

// walkSources records the position of every mapping value under its dotted
// path. Sequences are recorded as one value.
func walkSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if prefix != "" {
			key = prefix + "." + key
		}
		out[key] = Source{Kind: SourceFile, File: file, Line: val.Line, Column: val.Column}
		walkSources(val, file, key, out)
	}
}
