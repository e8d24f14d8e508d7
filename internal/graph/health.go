package graph

import "math"

// HealthBreakdown shows the sub-scores of the health formula
type HealthBreakdown struct {
	Connectivity float64 `json:"connectivity"`
	Components   float64 `json:"components"`
	Staleness    float64 `json:"staleness"`
	Fragility    float64 `json:"fragility"`
	Coverage     float64 `json:"coverage"`
}

// AnalysisReport is the full analysis result
type AnalysisReport struct {
	HealthScore     float64          `json:"health_score"`
	HealthBreakdown HealthBreakdown  `json:"health_breakdown"`
	Topology        *TopologyReport  `json:"topology"`
	Staleness       *StalenessReport `json:"staleness"`
	Bridges         *BridgeReport    `json:"bridges"`
}

// AnalyzerConfig holds analysis parameters
type AnalyzerConfig struct {
	HubThreshold int
	TopN         int
	StaleDays    int64
}

// DefaultConfig returns the defaults used by the analyze command.
func DefaultConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		HubThreshold: 15,
		TopN:         10,
		StaleDays:    60,
	}
}

// Sub-score weights. They sum to 1.
const (
	weightConnectivity = 0.25
	weightComponents   = 0.20
	weightStaleness    = 0.20
	weightFragility    = 0.15
	weightCoverage     = 0.20
)

// Analyze runs every analysis and combines them into a health score in [0, 1].
func Analyze(snap *GraphSnapshot, config *AnalyzerConfig) *AnalysisReport {
	if config == nil {
		config = DefaultConfig()
	}
	r := &AnalysisReport{
		Topology:  ComputeTopology(snap, config.HubThreshold, config.TopN),
		Staleness: ComputeStaleness(snap, config.StaleDays),
		Bridges:   ComputeBridges(snap),
	}

	total := r.Topology.TotalNodes
	b := HealthBreakdown{
		Connectivity: penalty(r.Topology.OrphanCount, total, 0.2),
		Staleness:    penalty(r.Staleness.StaleNodeCount, total, 0.1),
		Fragility:    penalty(r.Bridges.APCount, total, 0.05),
		Coverage:     penalty(r.Staleness.MissingPageCount, total, 0.2),
	}
	if n := r.Topology.NumComponents; n > 0 {
		b.Components = 1 / float64(n)
	}

	r.HealthBreakdown = b
	r.HealthScore = weightConnectivity*b.Connectivity +
		weightComponents*b.Components +
		weightStaleness*b.Staleness +
		weightFragility*b.Fragility +
		weightCoverage*b.Coverage
	return r
}

// penalty scores the share of bad nodes: 1 with none, falling linearly to 0
// once the share reaches limit. An empty graph scores 0.
func penalty(bad, total int, limit float64) float64 {
	if total == 0 {
		return 0
	}
	share := math.Min(float64(bad)/float64(total), limit)
	return math.Max(0, 1-share/limit)
}
