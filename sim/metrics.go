package sim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wsn-sim/wsn-sim/sim/report"
)

// Metrics aggregates the network-lifetime statistics of a run: the standard
// death milestones plus the per-round trajectories consumed by the chart
// exporter.
type Metrics struct {
	FirstDeathRound int // round the first node died (0 = not yet)
	HalfDeathRound  int // round alive count first dropped to half or below (0 = not yet)
	LastDeathRound  int // round the last node died (0 = not yet)
	RoundsExecuted  int // total rounds executed

	TotalEnergyConsumedJ float64 // initial budget minus residual, summed over nodes

	// Per-round trajectories, one entry per executed round.
	Rounds         []int
	AliveCounts    []int
	MeanEnergiesJ  []float64
	TotalEnergiesJ []float64

	nodeCount      int
	initialTotalJ  float64
	halfAliveCount int
}

// NewMetrics creates Metrics for a network of nodeCount nodes each starting
// with initialEnergyJ.
func NewMetrics(nodeCount int, initialEnergyJ float64) *Metrics {
	return &Metrics{
		nodeCount:      nodeCount,
		initialTotalJ:  float64(nodeCount) * initialEnergyJ,
		halfAliveCount: nodeCount / 2,
	}
}

// ObserveRound folds one finished round into the aggregates. energies is the
// residual energy of every node (dead ones included), parallel to the arena.
func (m *Metrics) ObserveRound(round, aliveCount int, energies []float64) {
	m.RoundsExecuted = round

	if m.FirstDeathRound == 0 && aliveCount < m.nodeCount {
		m.FirstDeathRound = round
	}
	if m.HalfDeathRound == 0 && aliveCount <= m.halfAliveCount {
		m.HalfDeathRound = round
	}
	if m.LastDeathRound == 0 && aliveCount == 0 {
		m.LastDeathRound = round
	}

	totalJ := floats.Sum(energies)
	m.TotalEnergyConsumedJ = m.initialTotalJ - totalJ

	m.Rounds = append(m.Rounds, round)
	m.AliveCounts = append(m.AliveCounts, aliveCount)
	m.MeanEnergiesJ = append(m.MeanEnergiesJ, stat.Mean(energies, nil))
	m.TotalEnergiesJ = append(m.TotalEnergiesJ, totalJ)
}

// Series packages the trajectories for the chart exporter.
func (m *Metrics) Series() report.RoundSeries {
	return report.RoundSeries{
		Rounds:         m.Rounds,
		AliveCounts:    m.AliveCounts,
		MeanEnergiesJ:  m.MeanEnergiesJ,
		TotalEnergiesJ: m.TotalEnergiesJ,
	}
}

// Print displays the lifetime metrics at the end of a run.
func (m *Metrics) Print(protocol string) {
	fmt.Printf("=== Network Lifetime (%s) ===\n", protocol)
	fmt.Printf("Rounds executed      : %d\n", m.RoundsExecuted)
	fmt.Printf("First node death     : %s\n", formatRound(m.FirstDeathRound))
	fmt.Printf("Half nodes dead      : %s\n", formatRound(m.HalfDeathRound))
	fmt.Printf("Last node death      : %s\n", formatRound(m.LastDeathRound))
	fmt.Printf("Energy consumed      : %.4f J of %.4f J\n", m.TotalEnergyConsumedJ, m.initialTotalJ)
	if n := len(m.AliveCounts); n > 0 {
		fmt.Printf("Alive at end         : %d of %d nodes\n", m.AliveCounts[n-1], m.nodeCount)
	}
}

func formatRound(round int) string {
	if round == 0 {
		return "never"
	}
	return fmt.Sprintf("round %d", round)
}
