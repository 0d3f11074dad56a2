package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Leach implements the LEACH (Low-Energy Adaptive Clustering Hierarchy)
// protocol in its common simulation form:
//   - cluster heads are elected probabilistically with rotation,
//   - non-head nodes join the nearest head and pay the transmit cost to it,
//   - heads pay receive + aggregation per member and one aggregated transmit
//     to the base station.
type Leach struct {
	// electionThreshold is T(r), recomputed each round.
	electionThreshold float64

	// chProbability is the desired cluster-head probability p.
	chProbability float64

	// cycleLengthRounds is the rotation cycle, round(1/p) rounds.
	cycleLengthRounds int
}

// NewLeach creates a LEACH instance with the given cluster-head probability.
func NewLeach(chProbability float64) *Leach {
	cycle := int(math.Round(1.0 / chProbability))
	if cycle < 1 {
		cycle = 1
	}
	return &Leach{
		chProbability:     chProbability,
		cycleLengthRounds: cycle,
	}
}

// Name implements Protocol.
func (l *Leach) Name() string { return ProtocolLeach }

// updateElectionThreshold recomputes T(r) = p / (1 - p·(r mod cycle)).
// The denominator reaches zero (or below, for non-integer 1/p) late in a
// cycle; the threshold saturates at 1 instead of going invalid.
func (l *Leach) updateElectionThreshold(currentRound int) {
	rMod := float64(currentRound % l.cycleLengthRounds)
	denom := 1.0 - l.chProbability*rMod
	if denom <= 0 {
		l.electionThreshold = 1.0
		return
	}
	l.electionThreshold = math.Min(1.0, l.chProbability/denom)
}

// RunRound implements Protocol. It executes one full LEACH round: threshold
// update, reset/death sweep/election, cluster formation, head dissipation.
func (l *Leach) RunRound(s *Simulator) {
	l.updateElectionThreshold(s.CurrentRound)

	rng := s.RNG.ForSubsystem(SubsystemElection)
	var electedHeadIDs []int

	// Phase 1: reset transient state, sweep deaths, elect cluster heads.
	for i := range s.Nodes {
		node := &s.Nodes[i]
		node.ResetForRound()

		// Everyone regains eligibility at the start of a rotation cycle.
		if s.CurrentRound%l.cycleLengthRounds == 0 {
			node.IsEligibleForCH = true
		}

		if node.IsAlive && node.RemainingEnergyJ <= 0 {
			s.markDead(node)
			continue
		}
		if !node.IsAlive {
			continue
		}

		if node.IsEligibleForCH && rng.Float64() < l.electionThreshold {
			node.IsClusterHead = true
			node.IsEligibleForCH = false
			electedHeadIDs = append(electedHeadIDs, node.ID)
		}
	}

	// A round without heads is a valid silent no-op, not an error: members
	// have nobody to report to and spend nothing.
	if len(electedHeadIDs) == 0 {
		logrus.Debugf("[round %04d] leach: no cluster heads elected (threshold=%.4f)",
			s.CurrentRound, l.electionThreshold)
		return
	}

	// Phase 2: members join the nearest head and pay the transmit cost.
	l.formClusters(s, electedHeadIDs)

	// Phase 3: heads pay receive + aggregation per member, then one
	// aggregated transmit to the base station.
	bits := s.Config.PacketSizeBits
	for _, headID := range electedHeadIDs {
		head := &s.Nodes[headID]
		// The phase 1 sweep is the only death path, so an elected head is
		// still alive here; the guard just restates that invariant locally.
		if !head.IsAlive {
			continue
		}

		memberCount := float64(len(head.ClusterMemberIDs))
		head.RemainingEnergyJ -= (s.Radio.ReceiveEnergy(bits) + s.Radio.AggregationEnergy(bits)) * memberCount
		head.RemainingEnergyJ -= s.Radio.TransmitEnergy(bits, head.DistanceToBaseStationM)
	}
}

// formClusters assigns every alive non-head node to its nearest elected head,
// deducts the member's transmit energy over that distance, and records the
// membership on both sides.
func (l *Leach) formClusters(s *Simulator, electedHeadIDs []int) {
	bits := s.Config.PacketSizeBits
	for i := range s.Nodes {
		node := &s.Nodes[i]
		if !node.IsAlive || node.IsClusterHead {
			continue
		}

		minDistanceM := math.Inf(1)
		nearestHeadID := NoClusterHead
		for _, headID := range electedHeadIDs {
			if d := node.Position.DistanceTo(s.Nodes[headID].Position); d < minDistanceM {
				minDistanceM = d
				nearestHeadID = headID
			}
		}
		if nearestHeadID == NoClusterHead {
			continue
		}

		node.ClusterHeadID = nearestHeadID
		node.RemainingEnergyJ -= s.Radio.TransmitEnergy(bits, minDistanceM)
		head := &s.Nodes[nearestHeadID]
		head.ClusterMemberIDs = append(head.ClusterMemberIDs, node.ID)
	}
}
