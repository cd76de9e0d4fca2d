// Package drift compares a tree against a saved baseline and reports how its
// shape and content moved.
package drift

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// Severity represents the severity level of a drift alert
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// AlertType categorizes different kinds of drift alerts
type AlertType string

const (
	AlertRootChanged     AlertType = "root_changed"
	AlertNodeCountChange AlertType = "node_count_change"
	AlertNodesRemoved    AlertType = "nodes_removed"
	AlertNodesAdded      AlertType = "nodes_added"
	AlertDepthChange     AlertType = "depth_change"
	AlertFanoutGrowth    AlertType = "fanout_growth"
	AlertContentChanged  AlertType = "content_changed"
)

// Alert represents a single drift detection alert
type Alert struct {
	Type        AlertType `json:"type"`
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	BaselineVal float64   `json:"baseline_value,omitempty"`
	CurrentVal  float64   `json:"current_value,omitempty"`
	Delta       float64   `json:"delta,omitempty"`
	Details     []string  `json:"details,omitempty"`
	DetectedAt  time.Time `json:"detected_at,omitempty"`
}

// Result contains the complete drift analysis
type Result struct {
	// HasDrift is true if any alerts were generated
	HasDrift bool `json:"has_drift"`

	Alerts []Alert `json:"alerts"`

	CriticalCount int `json:"critical_count"`
	WarningCount  int `json:"warning_count"`
	InfoCount     int `json:"info_count"`
}

// Config holds the alert thresholds. Percentages are relative to the
// baseline value.
type Config struct {
	NodeChangeInfoPct    float64 `json:"node_change_info_pct"`
	NodeChangeWarningPct float64 `json:"node_change_warning_pct"`

	// RemovedWarningPct is the share of baseline nodes that may vanish
	// before removals are a warning instead of info.
	RemovedWarningPct float64 `json:"removed_warning_pct"`

	// DepthChangeWarning is the number of levels the tree may gain or lose
	// before it is a warning.
	DepthChangeWarning int `json:"depth_change_warning"`

	FanoutGrowthInfoPct float64 `json:"fanout_growth_info_pct"`

	// MaxDetails caps the ids listed per alert.
	MaxDetails int `json:"max_details"`
}

// DefaultConfig returns sensible default thresholds
func DefaultConfig() *Config {
	return &Config{
		NodeChangeInfoPct:    5,
		NodeChangeWarningPct: 25,
		RemovedWarningPct:    10,
		DepthChangeWarning:   2,
		FanoutGrowthInfoPct:  50,
		MaxDetails:           10,
	}
}

// Calculator performs drift detection
type Calculator struct {
	config   *Config
	baseline *Baseline
	current  *Baseline
	now      time.Time
}

// NewCalculator creates a drift calculator with the given baseline and current snapshot
func NewCalculator(bl *Baseline, current *Baseline, cfg *Config) *Calculator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Calculator{
		config:   cfg,
		baseline: bl,
		current:  current,
		now:      time.Now().UTC(),
	}
}

// Compare is NewCalculator(bl, New(t, source), cfg).Calculate().
func Compare(bl *Baseline, t *tree.Tree, source string, cfg *Config) *Result {
	return NewCalculator(bl, New(t, source), cfg).Calculate()
}

// Calculate performs drift detection and returns results
func (c *Calculator) Calculate() *Result {
	result := &Result{
		Alerts: make([]Alert, 0),
	}

	if c.checkRoot(result) {
		// Nothing else is comparable across different roots
		c.summarize(result)
		return result
	}
	c.checkNodeCount(result)
	c.checkMembership(result)
	c.checkDepth(result)
	c.checkFanout(result)
	c.checkContent(result)

	c.summarize(result)
	return result
}

func (c *Calculator) summarize(result *Result) {
	for _, alert := range result.Alerts {
		switch alert.Severity {
		case SeverityCritical:
			result.CriticalCount++
		case SeverityWarning:
			result.WarningCount++
		case SeverityInfo:
			result.InfoCount++
		}
	}
	result.HasDrift = len(result.Alerts) > 0
}

func (c *Calculator) alert(a Alert) Alert {
	a.DetectedAt = c.now
	return a
}

// checkRoot reports a baseline taken of a different root.
func (c *Calculator) checkRoot(result *Result) bool {
	if c.baseline.Root == c.current.Root {
		return false
	}
	result.Alerts = append(result.Alerts, c.alert(Alert{
		Type:     AlertRootChanged,
		Severity: SeverityCritical,
		Message:  fmt.Sprintf("Root changed from %q to %q", c.baseline.Root, c.current.Root),
	}))
	return true
}

func (c *Calculator) checkNodeCount(result *Result) {
	blNodes := c.baseline.Stats.Nodes
	curNodes := c.current.Stats.Nodes
	delta := curNodes - blNodes
	if blNodes == 0 || delta == 0 {
		return
	}

	pct := float64(delta) / float64(blNodes) * 100
	abs := pct
	if abs < 0 {
		abs = -abs
	}
	severity := SeverityInfo
	switch {
	case abs >= c.config.NodeChangeWarningPct:
		severity = SeverityWarning
	case abs < c.config.NodeChangeInfoPct:
		return
	}
	result.Alerts = append(result.Alerts, c.alert(Alert{
		Type:        AlertNodeCountChange,
		Severity:    severity,
		Message:     fmt.Sprintf("Node count changed by %+d (%.1f%%)", delta, pct),
		BaselineVal: float64(blNodes),
		CurrentVal:  float64(curNodes),
		Delta:       float64(delta),
	}))
}

// checkMembership lists ids that appeared or vanished.
func (c *Calculator) checkMembership(result *Result) {
	before := make(map[string]struct{}, len(c.baseline.IDs))
	for _, id := range c.baseline.IDs {
		before[id] = struct{}{}
	}
	after := make(map[string]struct{}, len(c.current.IDs))
	for _, id := range c.current.IDs {
		after[id] = struct{}{}
	}

	var removed, added []string
	for id := range before {
		if _, ok := after[id]; !ok {
			removed = append(removed, id)
		}
	}
	for id := range after {
		if _, ok := before[id]; !ok {
			added = append(added, id)
		}
	}

	if len(removed) > 0 {
		severity := SeverityInfo
		if pct := float64(len(removed)) / float64(len(before)) * 100; pct >= c.config.RemovedWarningPct {
			severity = SeverityWarning
		}
		result.Alerts = append(result.Alerts, c.alert(Alert{
			Type:     AlertNodesRemoved,
			Severity: severity,
			Message:  fmt.Sprintf("%d node(s) removed", len(removed)),
			Delta:    float64(-len(removed)),
			Details:  c.details(removed),
		}))
	}
	if len(added) > 0 {
		result.Alerts = append(result.Alerts, c.alert(Alert{
			Type:     AlertNodesAdded,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("%d node(s) added", len(added)),
			Delta:    float64(len(added)),
			Details:  c.details(added),
		}))
	}
}

// details sorts ids and keeps the first MaxDetails.
func (c *Calculator) details(ids []string) []string {
	sort.Strings(ids)
	if c.config.MaxDetails > 0 && len(ids) > c.config.MaxDetails {
		more := len(ids) - c.config.MaxDetails
		ids = append(ids[:c.config.MaxDetails:c.config.MaxDetails], fmt.Sprintf("... and %d more", more))
	}
	return ids
}

func (c *Calculator) checkDepth(result *Result) {
	delta := c.current.Stats.Depth - c.baseline.Stats.Depth
	if delta == 0 {
		return
	}
	severity := SeverityInfo
	if delta >= c.config.DepthChangeWarning || -delta >= c.config.DepthChangeWarning {
		severity = SeverityWarning
	}
	result.Alerts = append(result.Alerts, c.alert(Alert{
		Type:        AlertDepthChange,
		Severity:    severity,
		Message:     fmt.Sprintf("Depth changed by %+d", delta),
		BaselineVal: float64(c.baseline.Stats.Depth),
		CurrentVal:  float64(c.current.Stats.Depth),
		Delta:       float64(delta),
	}))
}

func (c *Calculator) checkFanout(result *Result) {
	blMax := c.baseline.Stats.MaxFanout
	curMax := c.current.Stats.MaxFanout
	if blMax == 0 || curMax <= blMax {
		return
	}
	pct := float64(curMax-blMax) / float64(blMax) * 100
	if pct < c.config.FanoutGrowthInfoPct {
		return
	}
	result.Alerts = append(result.Alerts, c.alert(Alert{
		Type:        AlertFanoutGrowth,
		Severity:    SeverityInfo,
		Message:     fmt.Sprintf("Largest fan-out grew by %.1f%%", pct),
		BaselineVal: float64(blMax),
		CurrentVal:  float64(curMax),
		Delta:       float64(curMax - blMax),
	}))
}

// checkContent flags label or order changes the counts do not show.
func (c *Calculator) checkContent(result *Result) {
	if c.baseline.Hash == c.current.Hash || len(result.Alerts) > 0 {
		return
	}
	result.Alerts = append(result.Alerts, c.alert(Alert{
		Type:     AlertContentChanged,
		Severity: SeverityInfo,
		Message:  "Labels or order changed",
	}))
}

// Summary returns a human-readable summary of drift results
func (r *Result) Summary() string {
	if !r.HasDrift {
		return "No drift detected. The tree matches its baseline.\n"
	}

	var sb strings.Builder
	sb.WriteString("Drift Analysis Summary\n")
	sb.WriteString("======================\n\n")

	if r.CriticalCount > 0 {
		fmt.Fprintf(&sb, "CRITICAL: %d alert(s)\n", r.CriticalCount)
	}
	if r.WarningCount > 0 {
		fmt.Fprintf(&sb, "WARNING: %d alert(s)\n", r.WarningCount)
	}
	if r.InfoCount > 0 {
		fmt.Fprintf(&sb, "INFO: %d alert(s)\n", r.InfoCount)
	}

	sb.WriteString("\nDetails:\n")
	for _, alert := range r.Alerts {
		fmt.Fprintf(&sb, "  [%s] %s: %s\n", alert.Severity, alert.Type, alert.Message)
		for _, detail := range alert.Details {
			fmt.Fprintf(&sb, "      - %s\n", detail)
		}
	}
	sb.WriteString("\n")

	return sb.String()
}

// HasCritical returns true if there are any critical alerts
func (r *Result) HasCritical() bool {
	return r.CriticalCount > 0
}

// HasWarnings returns true if there are any warning or critical alerts
func (r *Result) HasWarnings() bool {
	return r.CriticalCount > 0 || r.WarningCount > 0
}

// ExitCode returns suggested exit code for CI use
// 0 = no drift, 1 = critical, 2 = warning, 0 = info only
func (r *Result) ExitCode() int {
	if r.CriticalCount > 0 {
		return 1
	}
	if r.WarningCount > 0 {
		return 2
	}
	return 0
}
