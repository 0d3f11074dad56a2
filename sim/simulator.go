// sim/simulator.go
package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/wsn-sim/wsn-sim/sim/report"
)

// Simulator is the core object that owns the node arena, the round counter,
// and the alive-count cache. It advances exactly one round per Advance call
// by handing its mutable state to the active protocol; it never decides
// termination itself.
type Simulator struct {
	// Nodes is the append-only node arena. Indices are stable for the whole
	// run; dead nodes remain in place, flagged.
	Nodes []Node

	// CurrentRound counts executed rounds, starting at 0 before the first.
	CurrentRound int

	// AliveNodeCount caches the number of nodes with IsAlive == true.
	AliveNodeCount int

	// Config is the validated scenario this simulator was built from.
	Config ScenarioConfig

	// Radio is the energy model shared by all protocols.
	Radio RadioModel

	// RNG provides the seeded per-subsystem random sources.
	RNG *PartitionedRNG

	// Recorder receives one record per node per round.
	Recorder *report.Recorder

	// Metrics aggregates lifetime statistics across rounds.
	Metrics *Metrics
}

// NodeSnapshot is the read-only per-node view handed to visualization
// consumers.
type NodeSnapshot struct {
	ID            int
	Position      Position
	IsAlive       bool
	IsClusterHead bool
}

// NewSimulator validates the scenario, deploys the network with the
// deployment RNG subsystem, and returns a simulator ready for round 1.
func NewSimulator(cfg ScenarioConfig, key SimulationKey) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := NewPartitionedRNG(key)
	s := &Simulator{
		Nodes:          DeployNetwork(cfg, rng.ForSubsystem(SubsystemDeployment)),
		CurrentRound:   0,
		AliveNodeCount: cfg.NodeCount,
		Config:         cfg,
		Radio:          cfg.Radio.Model(),
		RNG:            rng,
		Recorder:       report.NewRecorder(),
		Metrics:        NewMetrics(cfg.NodeCount, cfg.InitialEnergyJ),
	}
	return s, nil
}

// Advance increments the round counter, delegates the entire round to the
// protocol, and folds the resulting state into the record stream and metrics.
func (s *Simulator) Advance(p Protocol) {
	s.CurrentRound++
	p.RunRound(s)
	s.observeRound()
}

// Run advances rounds until every node is dead or maxRounds have executed.
// This is the external termination check of the round engine; Advance itself
// never stops the simulation.
func (s *Simulator) Run(p Protocol, maxRounds int) {
	logrus.Infof("starting %s run: %d nodes, %gx%g m area, p=%g, cap=%d rounds",
		p.Name(), s.Config.NodeCount, s.Config.AreaWidthM, s.Config.AreaHeightM,
		s.Config.CHProbability, maxRounds)

	for s.AliveNodeCount > 0 && s.CurrentRound < maxRounds {
		s.Advance(p)
	}

	logrus.Infof("%s run ended after %d rounds, %d nodes alive",
		p.Name(), s.CurrentRound, s.AliveNodeCount)
}

// Snapshot returns a read-only copy of positions and status flags for
// visualization consumers.
func (s *Simulator) Snapshot() []NodeSnapshot {
	snap := make([]NodeSnapshot, len(s.Nodes))
	for i := range s.Nodes {
		n := &s.Nodes[i]
		snap[i] = NodeSnapshot{
			ID:            n.ID,
			Position:      n.Position,
			IsAlive:       n.IsAlive,
			IsClusterHead: n.IsClusterHead,
		}
	}
	return snap
}

// markDead flips a node to dead and keeps the alive-count cache in sync.
// Death is permanent; callers must only pass currently-alive nodes.
func (s *Simulator) markDead(n *Node) {
	n.IsAlive = false
	s.AliveNodeCount--
	logrus.Debugf("[round %04d] node %d depleted, %d alive", s.CurrentRound, n.ID, s.AliveNodeCount)
}

// observeRound appends one record per node to the stream and updates metrics.
func (s *Simulator) observeRound() {
	energies := make([]float64, len(s.Nodes))
	for i := range s.Nodes {
		n := &s.Nodes[i]
		energies[i] = n.RemainingEnergyJ
		s.Recorder.Append(report.Record{
			Round:            s.CurrentRound,
			AliveCount:       s.AliveNodeCount,
			NodeID:           n.ID,
			RemainingEnergyJ: n.RemainingEnergyJ,
		})
	}
	s.Metrics.ObserveRound(s.CurrentRound, s.AliveNodeCount, energies)
}
