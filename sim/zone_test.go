package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zoneScenario pins the base station to the origin so that near/far geometry
// is easy to lay out along the x axis.
func zoneScenario() ScenarioConfig {
	cfg := DefaultScenario()
	x, y := 0.0, 0.0
	cfg.BaseStationX = &x
	cfg.BaseStationY = &y
	return cfg
}

func TestZoneRouting_ScoreTieSelectsFirstScanned(t *testing.T) {
	cfg := DefaultScenario()
	cfg.CHProbability = 0.5 // k = ceil(0.5 * 2) = 1
	bs := cfg.BaseStation()
	nodes := []Node{
		NewNode(0, Position{X: 200, Y: 200}, cfg.InitialEnergyJ, bs),
		NewNode(1, Position{X: 200, Y: 200}, cfg.InitialEnergyJ, bs),
	}
	s := newCraftedSimulator(cfg, nodes)

	s.Advance(NewZoneRouting(cfg.CHProbability))

	// Identical positions and energies mean exactly equal scores; the strict
	// greater-than comparison keeps the first-scanned candidate.
	assert.True(t, s.Nodes[0].IsClusterHead)
	assert.False(t, s.Nodes[1].IsClusterHead)
	assert.Equal(t, 0, s.Nodes[1].ClusterHeadID)
	assert.Equal(t, []int{1}, s.Nodes[0].ClusterMemberIDs)
}

func TestZoneRouting_HigherEnergyWinsSelection(t *testing.T) {
	cfg := DefaultScenario()
	cfg.CHProbability = 0.5
	bs := cfg.BaseStation()
	nodes := []Node{
		NewNode(0, Position{X: 200, Y: 200}, cfg.InitialEnergyJ, bs),
		NewNode(1, Position{X: 200, Y: 200}, cfg.InitialEnergyJ, bs),
	}
	nodes[0].RemainingEnergyJ = cfg.InitialEnergyJ / 2 // node 1 keeps the full budget
	s := newCraftedSimulator(cfg, nodes)

	s.Advance(NewZoneRouting(cfg.CHProbability))

	assert.False(t, s.Nodes[0].IsClusterHead)
	assert.True(t, s.Nodes[1].IsClusterHead)
}

func TestZoneRouting_FarHeadRelaysThroughNearHead(t *testing.T) {
	cfg := zoneScenario()
	cfg.CHProbability = 1.0 // k = 2: each node is its own cluster's head
	bs := cfg.BaseStation()
	nodes := []Node{
		NewNode(0, Position{X: 50, Y: 0}, cfg.InitialEnergyJ, bs),  // 50 m to sink: near zone
		NewNode(1, Position{X: 150, Y: 0}, cfg.InitialEnergyJ, bs), // 150 m to sink: far zone
	}
	s := newCraftedSimulator(cfg, nodes)
	require.Greater(t, 150.0, s.Radio.FSMultipathThresholdM)

	z := NewZoneRouting(cfg.CHProbability)
	s.Advance(z)

	require.Equal(t, []int{0}, z.NearZoneHeadIDs())
	require.Equal(t, []int{1}, z.FarZoneHeadIDs())

	bits := cfg.PacketSizeBits
	// The 100 m hop to the near head is strictly shorter than the 150 m
	// direct path, so the far head pays the relay transmit cost only.
	wantFar := s.Radio.TransmitEnergy(bits, 100.0)
	assert.InDelta(t, wantFar, cfg.InitialEnergyJ-s.Nodes[1].RemainingEnergyJ, 1e-12)

	// The near head pays its own direct transmit plus receive+aggregation
	// for the relayed packet.
	wantNear := s.Radio.TransmitEnergy(bits, 50.0) +
		s.Radio.ReceiveEnergy(bits) + s.Radio.AggregationEnergy(bits)
	assert.InDelta(t, wantNear, cfg.InitialEnergyJ-s.Nodes[0].RemainingEnergyJ, 1e-12)
}

func TestZoneRouting_FarHeadWithoutNearHeadGoesDirect(t *testing.T) {
	cfg := zoneScenario()
	cfg.CHProbability = 1.0
	bs := cfg.BaseStation()
	nodes := []Node{
		NewNode(0, Position{X: 150, Y: 0}, cfg.InitialEnergyJ, bs),
	}
	s := newCraftedSimulator(cfg, nodes)

	z := NewZoneRouting(cfg.CHProbability)
	s.Advance(z)

	require.Empty(t, z.NearZoneHeadIDs())
	require.Equal(t, []int{0}, z.FarZoneHeadIDs())
	want := s.Radio.TransmitEnergy(cfg.PacketSizeBits, 150.0)
	assert.InDelta(t, want, cfg.InitialEnergyJ-s.Nodes[0].RemainingEnergyJ, 1e-12)
}

func TestZoneRouting_RelayOnlyWhenStrictlyCloser(t *testing.T) {
	cfg := zoneScenario()
	cfg.CHProbability = 1.0
	bs := cfg.BaseStation()
	// The near head sits farther from the far head than the far
	// head's 150 m direct path, so direct wins.
	nodes := []Node{
		NewNode(0, Position{X: 0, Y: 50}, cfg.InitialEnergyJ, bs),
		NewNode(1, Position{X: 150, Y: 0}, cfg.InitialEnergyJ, bs),
	}
	relayDist := nodes[1].Position.DistanceTo(nodes[0].Position)
	require.Greater(t, relayDist, 150.0)
	s := newCraftedSimulator(cfg, nodes)

	z := NewZoneRouting(cfg.CHProbability)
	s.Advance(z)

	require.Equal(t, []int{1}, z.FarZoneHeadIDs())
	want := s.Radio.TransmitEnergy(cfg.PacketSizeBits, 150.0)
	assert.InDelta(t, want, cfg.InitialEnergyJ-s.Nodes[1].RemainingEnergyJ, 1e-12)
	// The near head had no relay traffic: it only paid its own direct transmit.
	wantNear := s.Radio.TransmitEnergy(cfg.PacketSizeBits, 50.0)
	assert.InDelta(t, wantNear, cfg.InitialEnergyJ-s.Nodes[0].RemainingEnergyJ, 1e-12)
}

func TestZoneRouting_RelayTieGoesDirect(t *testing.T) {
	cfg := zoneScenario()
	cfg.CHProbability = 1.0
	bs := cfg.BaseStation()
	// The near head sits on the sink, so the hop to it measures exactly the
	// far head's 150 m direct path. An equal-length relay must lose.
	nodes := []Node{
		NewNode(0, Position{X: 0, Y: 0}, cfg.InitialEnergyJ, bs),
		NewNode(1, Position{X: 150, Y: 0}, cfg.InitialEnergyJ, bs),
	}
	require.Equal(t, 150.0, nodes[1].Position.DistanceTo(nodes[0].Position))
	s := newCraftedSimulator(cfg, nodes)

	z := NewZoneRouting(cfg.CHProbability)
	s.Advance(z)

	require.Equal(t, []int{0}, z.NearZoneHeadIDs())
	require.Equal(t, []int{1}, z.FarZoneHeadIDs())

	bits := cfg.PacketSizeBits
	want := s.Radio.TransmitEnergy(bits, 150.0)
	assert.InDelta(t, want, cfg.InitialEnergyJ-s.Nodes[1].RemainingEnergyJ, 1e-12)
	// No relay traffic reached the near head: it paid only its own zero-length
	// transmit, the electronics cost.
	wantNear := s.Radio.TransmitEnergy(bits, 0.0)
	assert.InDelta(t, wantNear, cfg.InitialEnergyJ-s.Nodes[0].RemainingEnergyJ, 1e-12)
}

func TestZoneRouting_DeadNetworkIsCompleteNoOp(t *testing.T) {
	cfg := DefaultScenario()
	bs := cfg.BaseStation()
	nodes := []Node{
		NewNode(0, Position{X: 100, Y: 100}, cfg.InitialEnergyJ, bs),
	}
	nodes[0].IsAlive = false
	s := newCraftedSimulator(cfg, nodes)
	require.Equal(t, 0, s.AliveNodeCount)

	s.Advance(NewZoneRouting(cfg.CHProbability))

	assert.Equal(t, 1, s.CurrentRound)
	assert.Equal(t, cfg.InitialEnergyJ, s.Nodes[0].RemainingEnergyJ)
	assert.False(t, s.Nodes[0].IsClusterHead)
}

func TestZoneRouting_DepletedNodeExcludedFromSelection(t *testing.T) {
	cfg := DefaultScenario()
	cfg.CHProbability = 0.5
	bs := cfg.BaseStation()
	nodes := []Node{
		NewNode(0, Position{X: 200, Y: 200}, cfg.InitialEnergyJ, bs),
		NewNode(1, Position{X: 210, Y: 200}, cfg.InitialEnergyJ, bs),
	}
	nodes[0].RemainingEnergyJ = 0 // still flagged alive; dies in the sweep
	s := newCraftedSimulator(cfg, nodes)

	s.Advance(NewZoneRouting(cfg.CHProbability))

	assert.False(t, s.Nodes[0].IsAlive)
	assert.False(t, s.Nodes[0].IsClusterHead)
	assert.True(t, s.Nodes[1].IsClusterHead)
	assert.Equal(t, 1, s.AliveNodeCount)
}

// TestZoneRouting_RoundEnergyAccounting replays the realized clustering and
// zone decisions of one round and checks every node's energy delta against
// the radio model.
func TestZoneRouting_RoundEnergyAccounting(t *testing.T) {
	cfg := DefaultScenario()
	cfg.NodeCount = 40

	s, err := NewSimulator(cfg, NewSimulationKey(21))
	require.NoError(t, err)
	before := residualEnergies(s)

	z := NewZoneRouting(cfg.CHProbability)
	s.Advance(z)

	bits := cfg.PacketSizeBits
	perMember := s.Radio.ReceiveEnergy(bits) + s.Radio.AggregationEnergy(bits)
	want := make([]float64, len(s.Nodes))

	for i := range s.Nodes {
		n := &s.Nodes[i]
		if n.ClusterHeadID != NoClusterHead {
			head := &s.Nodes[n.ClusterHeadID]
			want[i] += s.Radio.TransmitEnergy(bits, n.Position.DistanceTo(head.Position))
		}
	}
	for _, id := range z.NearZoneHeadIDs() {
		head := &s.Nodes[id]
		want[id] += perMember*float64(len(head.ClusterMemberIDs)) +
			s.Radio.TransmitEnergy(bits, head.DistanceToBaseStationM)
	}
	for _, id := range z.FarZoneHeadIDs() {
		head := &s.Nodes[id]
		want[id] += perMember * float64(len(head.ClusterMemberIDs))

		relayID := NoClusterHead
		relayDist := math.Inf(1)
		for _, nid := range z.NearZoneHeadIDs() {
			if d := head.Position.DistanceTo(s.Nodes[nid].Position); d < relayDist {
				relayDist = d
				relayID = nid
			}
		}
		if relayID != NoClusterHead && relayDist < head.DistanceToBaseStationM {
			want[id] += s.Radio.TransmitEnergy(bits, relayDist)
			want[relayID] += perMember
		} else {
			want[id] += s.Radio.TransmitEnergy(bits, head.DistanceToBaseStationM)
		}
	}

	for i := range s.Nodes {
		assert.InDeltaf(t, want[i], before[i]-s.Nodes[i].RemainingEnergyJ, 1e-12, "node %d", i)
	}
}
