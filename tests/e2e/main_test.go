package main_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// tvBinary is built once for the whole suite.
var tvBinary string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "tv-e2e-")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	tvBinary = filepath.Join(dir, "tv")

	build := exec.Command("go", "build", "-o", tvBinary, "./cmd/tv")
	build.Dir = filepath.Join("..", "..")
	if out, err := build.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "building tv: %v\n%s", err, out)
		os.RemoveAll(dir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestEndToEndBuildAndRun(t *testing.T) {
	out, err := runTvCommand(t, t.TempDir(), "--version")
	if err != nil {
		t.Fatalf("Execution failed: %v\n%s", err, out)
	}
	if !bytes.Contains(out, []byte("tv version")) {
		t.Errorf("unexpected version output: %s", out)
	}
}

// runTvCommand runs the binary in dir and returns stdout. Stderr is part of
// the error.
func runTvCommand(t *testing.T, dir string, args ...string) ([]byte, error) {
	t.Helper()
	cmd := exec.Command(tvBinary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("tv %v: %w: %s", args, err, stderr.String())
	}
	return out, nil
}

// runTvCommandJSON runs the binary and decodes its stdout into v.
func runTvCommandJSON(t *testing.T, dir string, v any, args ...string) error {
	t.Helper()
	out, err := runTvCommand(t, dir, args...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(out, v); err != nil {
		return fmt.Errorf("decoding output of %v: %w\n%s", args, err, out)
	}
	return nil
}

// detailedLogger prefixes test log lines with the elapsed time, so slow
// steps stand out in failing runs.
type detailedLogger struct {
	t     *testing.T
	start time.Time
	step  int
}

func newDetailedLogger(t *testing.T) *detailedLogger {
	return &detailedLogger{t: t, start: time.Now()}
}

func (l *detailedLogger) Step(format string, args ...any) {
	l.t.Helper()
	l.step++
	l.t.Logf("[%8s] step %d: %s", time.Since(l.start).Round(time.Millisecond), l.step, fmt.Sprintf(format, args...))
}

func (l *detailedLogger) Metric(name string, value float64) {
	l.t.Helper()
	l.t.Logf("[metric] %s=%g", name, value)
}

func (l *detailedLogger) MetricDuration(name string, d time.Duration) {
	l.t.Helper()
	l.t.Logf("[metric] %s=%s", name, d)
}

func (l *detailedLogger) Success(msg string) {
	l.t.Helper()
	l.t.Logf("[%8s] %s", time.Since(l.start).Round(time.Millisecond), msg)
}

// FixtureConfig shapes a generated directory tree.
type FixtureConfig struct {
	// Depth is the number of directory levels below the root.
	Depth int
	// Fanout is the number of subdirectories of each directory above Depth.
	Fanout int
	// FilesPerDir is the number of files in every directory, root included.
	FilesPerDir int
}

// Fixture is a generated directory.
type Fixture struct {
	Dir   string
	Dirs  int // root included
	Files int
}

// Nodes is the node count of the scanned tree.
func (f Fixture) Nodes() int { return f.Dirs + f.Files }

func createTreeFixture(t *testing.T, cfg FixtureConfig) Fixture {
	t.Helper()
	f := Fixture{Dir: t.TempDir()}
	var fill func(dir string, level int)
	fill = func(dir string, level int) {
		f.Dirs++
		for i := 0; i < cfg.FilesPerDir; i++ {
			path := filepath.Join(dir, fmt.Sprintf("f%02d.txt", i))
			if err := os.WriteFile(path, []byte(path+"\n"), 0644); err != nil {
				t.Fatal(err)
			}
			f.Files++
		}
		if level >= cfg.Depth {
			return
		}
		for i := 0; i < cfg.Fanout; i++ {
			sub := filepath.Join(dir, fmt.Sprintf("d%02d", i))
			if err := os.Mkdir(sub, 0755); err != nil {
				t.Fatal(err)
			}
			fill(sub, level+1)
		}
	}
	fill(f.Dir, 0)
	return f
}
