// Package analysis computes shape statistics and content fingerprints of trees.
package analysis

import (
	"crypto/sha256"
	"encoding/hex"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Stats summarises the shape of a tree.
type Stats struct {
	Nodes  int `json:"nodes"`
	Leaves int `json:"leaves"`
	// Depth is the number of edges on the longest root-to-leaf path.
	Depth int `json:"depth"`

	// Fan-out figures cover non-leaf nodes only.
	MeanFanout   float64 `json:"mean_fanout"`
	StdDevFanout float64 `json:"stddev_fanout"`
	MaxFanout    int     `json:"max_fanout"`

	// WidthPerLevel[d] is the number of nodes at depth d.
	WidthPerLevel []int `json:"width_per_level"`
}

// ComputeStats walks t once. A nil tree gives zero stats.
func ComputeStats(t *tree.Tree) Stats {
	var s Stats
	if t == nil || t.Root() == nil {
		return s
	}

	var fanouts []float64
	t.Walk(func(n *tree.Node, depth int) bool {
		s.Nodes++
		if depth >= len(s.WidthPerLevel) {
			s.WidthPerLevel = append(s.WidthPerLevel, 0)
		}
		s.WidthPerLevel[depth]++
		s.Depth = max(s.Depth, depth)

		k := len(n.Children())
		if k == 0 {
			s.Leaves++
			return true
		}
		fanouts = append(fanouts, float64(k))
		s.MaxFanout = max(s.MaxFanout, k)
		return true
	})

	if len(fanouts) > 0 {
		s.MeanFanout, s.StdDevFanout = stat.PopMeanStdDev(fanouts, nil)
	}
	return s
}

// ComputeTreeHash returns a hex SHA-256 of the tree's records, so two
// scans with the same ids, labels and shape hash equal.
func ComputeTreeHash(t *tree.Tree) string {
	if t == nil || t.Root() == nil {
		return ""
	}
	h := sha256.New()
	for _, r := range t.Flatten(-1) {
		h.Write([]byte(r.ID))
		h.Write([]byte{0})
		h.Write([]byte(r.Label))
		h.Write([]byte{0})
		h.Write([]byte(r.Parent))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
