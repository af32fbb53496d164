// Package manifest handles intcode.toml run configuration.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the manifest file.
const FileName = "intcode.toml"

// Pipeline modes.
const (
	ModeChain = "chain"
	ModeRing  = "ring"
)

// minVerbosity silences every log level.
const minVerbosity = -4

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid manifest")

// Manifest represents an intcode.toml configuration.
type Manifest struct {
	Program  ProgramConfig  `toml:"program"`
	Run      RunConfig      `toml:"run"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Log      LogConfig      `toml:"log"`

	// Dir is the directory containing the intcode.toml file (set at load time).
	Dir string `toml:"-"`
}

// ProgramConfig locates the program text.
type ProgramConfig struct {
	Path string `toml:"path"`
}

// RunConfig configures a single machine run.
type RunConfig struct {
	Inputs      []int64 `toml:"inputs"`
	Trace       bool    `toml:"trace"`
	ASCII       bool    `toml:"ascii"`
	Interactive bool    `toml:"interactive"`
}

// PipelineConfig configures chain and ring runs.
type PipelineConfig struct {
	Mode    string  `toml:"mode"`
	Phases  []int64 `toml:"phases"`
	Search  bool    `toml:"search"`
	Values  []int64 `toml:"values"`
	Workers int     `toml:"workers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// Load reads the intcode.toml in dir.
func Load(dir string) (*Manifest, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	path := filepath.Join(abs, FileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	defer f.Close()

	m, err := Decode(f, abs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode parses manifest text from r. Relative paths in the result
// resolve against dir. Keys that match no setting are rejected, so a
// misspelt option is reported instead of silently ignored.
func Decode(r io.Reader, dir string) (*Manifest, error) {
	var m Manifest
	md, err := toml.NewDecoder(r).Decode(&m)
	if err != nil {
		return nil, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(names, ", "))
	}

	m.Dir = dir
	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Find returns the nearest directory at or above startDir holding an
// intcode.toml, or "" when there is none.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for ; ; dir = filepath.Dir(dir) {
		info, err := os.Stat(filepath.Join(dir, FileName))
		switch {
		case err == nil && !info.IsDir():
			return dir, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", err
		}
		if filepath.Dir(dir) == dir {
			return "", nil
		}
	}
}

// FindAndLoad loads the manifest Find locates from startDir. Returns nil
// if there is none.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := Find(startDir)
	if err != nil || dir == "" {
		return nil, err
	}
	return Load(dir)
}

// Write encodes m as intcode.toml in dir, refusing to replace an
// existing file.
func Write(dir string, m *Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return f.Close()
}

// Default returns a manifest with every default applied.
func Default() *Manifest {
	m := &Manifest{}
	m.applyDefaults()
	return m
}

func (m *Manifest) applyDefaults() {
	if m.Pipeline.Mode == "" {
		m.Pipeline.Mode = ModeChain
	}
	if len(m.Pipeline.Values) == 0 {
		m.Pipeline.Values = DefaultValues(m.Pipeline.Mode)
	}
}

// DefaultValues returns the phase values searched in the given mode:
// 0..4 for the chain and 5..9 for the ring.
func DefaultValues(mode string) []int64 {
	if mode == ModeRing {
		return []int64{5, 6, 7, 8, 9}
	}
	return []int64{0, 1, 2, 3, 4}
}

// Validate reports the first inconsistency in m.
func (m *Manifest) Validate() error {
	switch m.Pipeline.Mode {
	case "", ModeChain, ModeRing:
	default:
		return fmt.Errorf("%w: pipeline mode %q, want %q or %q", ErrInvalid, m.Pipeline.Mode, ModeChain, ModeRing)
	}
	if m.Pipeline.Workers < 0 {
		return fmt.Errorf("%w: pipeline workers %d", ErrInvalid, m.Pipeline.Workers)
	}
	if m.Log.Verbosity < minVerbosity {
		return fmt.Errorf("%w: log verbosity %d", ErrInvalid, m.Log.Verbosity)
	}
	return nil
}

// ProgramPath returns the absolute path of the configured program, or
// "" if none is configured. Relative paths resolve against Dir.
func (m *Manifest) ProgramPath() string {
	p := m.Program.Path
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// Ring reports whether pipeline runs use the feedback ring.
func (m *Manifest) Ring() bool {
	return m.Pipeline.Mode == ModeRing
}
