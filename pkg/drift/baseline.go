package drift

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/treeview/pkg/analysis"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// BaselineVersion is the schema version written by Save.
const BaselineVersion = 1

const baselineFileName = "baseline.json"

// Baseline is a saved snapshot of one tree.
type Baseline struct {
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	Source    string         `json:"source"`
	Root      string         `json:"root"`
	Stats     analysis.Stats `json:"stats"`
	Hash      string         `json:"hash"`

	// IDs lists every node id in pre-order.
	IDs []string `json:"ids"`
}

// New takes a baseline of t. A nil tree gives an empty baseline.
func New(t *tree.Tree, source string) *Baseline {
	b := &Baseline{
		Version:   BaselineVersion,
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Stats:     analysis.ComputeStats(t),
		Hash:      analysis.ComputeTreeHash(t),
	}
	if t == nil || t.Root() == nil {
		return b
	}
	b.Root = t.Root().ID()
	t.Walk(func(n *tree.Node, _ int) bool {
		b.IDs = append(b.IDs, n.ID())
		return true
	})
	return b
}

// Path returns the baseline file inside stateDir.
func Path(stateDir string) string {
	return filepath.Join(stateDir, baselineFileName)
}

// Save writes the baseline, creating the directory as needed.
func (b *Baseline) Save(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding baseline: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating baseline directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing baseline: %w", err)
	}
	return nil
}

// Load reads a baseline written by Save.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing baseline %s: %w", path, err)
	}
	if b.Version != BaselineVersion {
		return nil, fmt.Errorf("baseline %s: unsupported version %d", path, b.Version)
	}
	return &b, nil
}
