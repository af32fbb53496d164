package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[program]
path = "day07.txt"

[run]
inputs = [1, -2]
trace = true
ascii = true

[pipeline]
mode = "ring"
phases = [9, 8, 7, 6, 5]
search = true
values = [5, 6, 7, 8, 9]
workers = 2

[log]
verbosity = 2
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Program.Path != "day07.txt" {
		t.Errorf("program path = %q, want day07.txt", m.Program.Path)
	}
	if !reflect.DeepEqual(m.Run.Inputs, []int64{1, -2}) {
		t.Errorf("run inputs = %v, want [1 -2]", m.Run.Inputs)
	}
	if !m.Run.Trace || !m.Run.ASCII || m.Run.Interactive {
		t.Errorf("run flags = %+v", m.Run)
	}
	if !m.Ring() {
		t.Errorf("pipeline mode = %q, want ring", m.Pipeline.Mode)
	}
	if !reflect.DeepEqual(m.Pipeline.Phases, []int64{9, 8, 7, 6, 5}) {
		t.Errorf("pipeline phases = %v", m.Pipeline.Phases)
	}
	if !m.Pipeline.Search {
		t.Error("pipeline search = false, want true")
	}
	if m.Pipeline.Workers != 2 {
		t.Errorf("workers = %d, want 2", m.Pipeline.Workers)
	}
	if m.Log.Verbosity != 2 {
		t.Errorf("log verbosity = %d, want 2", m.Log.Verbosity)
	}

	abs, _ := filepath.Abs(dir)
	if m.Dir != abs {
		t.Errorf("dir = %q, want %q", m.Dir, abs)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[program]
path = "input.txt"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Pipeline.Mode != ModeChain {
		t.Errorf("default mode = %q, want chain", m.Pipeline.Mode)
	}
	if !reflect.DeepEqual(m.Pipeline.Values, []int64{0, 1, 2, 3, 4}) {
		t.Errorf("default values = %v, want [0 1 2 3 4]", m.Pipeline.Values)
	}
}

func TestLoadManifestRingDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[pipeline]
mode = "ring"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(m.Pipeline.Values, []int64{5, 6, 7, 8, 9}) {
		t.Errorf("ring values = %v, want [5 6 7 8 9]", m.Pipeline.Values)
	}
}

func TestLoadManifestInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"mode", "[pipeline]\nmode = \"star\"\n"},
		{"unknown key", "[pipeline]\nbuffer = 4\n"},
		{"unknown table", "[robot]\nspeed = 1\n"},
		{"workers", "[pipeline]\nworkers = -3\n"},
		{"verbosity", "[log]\nverbosity = -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, tt.content)
			_, err := Load(dir)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Load error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadManifestSyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[program\npath = 1\n")

	if _, err := Load(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestFindAndLoad(t *testing.T) {
	dir := t.TempDir()
	subDir := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeManifest(t, dir, `[program]
path = "found.txt"
`)

	m, err := FindAndLoad(subDir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if m.Program.Path != "found.txt" {
		t.Errorf("program path = %q, want found.txt", m.Program.Path)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	m, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if m != nil {
		t.Error("expected nil manifest when no intcode.toml exists")
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	subDir := filepath.Join(dir, "day07", "part2")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeManifest(t, dir, "")

	got, err := Find(subDir)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	abs, _ := filepath.Abs(dir)
	if got != abs {
		t.Errorf("Find = %q, want %q", got, abs)
	}

	// The nearest manifest wins.
	writeManifest(t, subDir, "")
	if got, _ := Find(subDir); got != subDir {
		t.Errorf("Find = %q, want %q", got, subDir)
	}
}

func TestFindSkipsDirectoryNamedLikeManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, FileName), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := Find(dir)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got == dir {
		t.Errorf("Find returned %q, whose %s is a directory", got, FileName)
	}
}

func TestDecode(t *testing.T) {
	m, err := Decode(strings.NewReader("[program]\npath = \"p.txt\"\n[run]\ninputs = [2]\n"), "/aoc")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if m.ProgramPath() != "/aoc/p.txt" {
		t.Errorf("ProgramPath = %q, want /aoc/p.txt", m.ProgramPath())
	}
	if !reflect.DeepEqual(m.Run.Inputs, []int64{2}) {
		t.Errorf("run inputs = %v, want [2]", m.Run.Inputs)
	}

	_, err = Decode(strings.NewReader("[run]\ninptus = [2]\n"), "/aoc")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Decode error = %v, want ErrInvalid", err)
	}
	if !strings.Contains(err.Error(), "run.inptus") {
		t.Errorf("error %q does not name the unknown key", err)
	}
}

func TestProgramPath(t *testing.T) {
	m := &Manifest{Dir: "/aoc", Program: ProgramConfig{Path: "day09.txt"}}
	if got := m.ProgramPath(); got != "/aoc/day09.txt" {
		t.Errorf("ProgramPath = %q, want /aoc/day09.txt", got)
	}

	m.Program.Path = "/abs/day09.txt"
	if got := m.ProgramPath(); got != "/abs/day09.txt" {
		t.Errorf("ProgramPath = %q, want /abs/day09.txt", got)
	}

	m.Program.Path = ""
	if got := m.ProgramPath(); got != "" {
		t.Errorf("ProgramPath = %q, want empty", got)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := Default()
	m.Program.Path = "input.txt"
	m.Run.Inputs = []int64{5}
	m.Pipeline.Phases = []int64{4, 3, 2, 1, 0}

	if err := Write(dir, m); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Program.Path != "input.txt" {
		t.Errorf("program path = %q, want input.txt", loaded.Program.Path)
	}
	if !reflect.DeepEqual(loaded.Run.Inputs, []int64{5}) {
		t.Errorf("run inputs = %v, want [5]", loaded.Run.Inputs)
	}
	if !reflect.DeepEqual(loaded.Pipeline.Phases, []int64{4, 3, 2, 1, 0}) {
		t.Errorf("pipeline phases = %v", loaded.Pipeline.Phases)
	}
	if loaded.Pipeline.Mode != ModeChain {
		t.Errorf("pipeline mode = %q, want chain", loaded.Pipeline.Mode)
	}

	// A second write must not clobber the first.
	if err := Write(dir, m); !errors.Is(err, os.ErrExist) {
		t.Errorf("second Write error = %v, want ErrExist", err)
	}
}

func TestWriteRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	m := Default()
	m.Pipeline.Mode = "star"

	if err := Write(dir, m); !errors.Is(err, ErrInvalid) {
		t.Errorf("Write error = %v, want ErrInvalid", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); !os.IsNotExist(err) {
		t.Error("invalid manifest was written")
	}
}
