package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// ZoneRouting is the zone-based spatial-clustering variant. Instead of
// probabilistic rotation it k-means-clusters the alive nodes every round,
// promotes the best-scored node of each cluster to head, and splits heads
// into a near and a far zone by their distance to the base station. Far-zone
// heads relay through the nearest near-zone head when that hop is strictly
// shorter than the direct path to the sink.
type ZoneRouting struct {
	// chProbability scales the desired head count: k = ceil(p · alive).
	chProbability float64

	// nearZoneHeadIDs / farZoneHeadIDs are this round's head buckets,
	// rebuilt from scratch every round.
	nearZoneHeadIDs []int
	farZoneHeadIDs  []int
}

// NewZoneRouting creates a zone-based protocol instance with the given
// cluster-head probability.
func NewZoneRouting(chProbability float64) *ZoneRouting {
	return &ZoneRouting{chProbability: chProbability}
}

// Name implements Protocol.
func (z *ZoneRouting) Name() string { return ProtocolZone }

// NearZoneHeadIDs returns this round's near-zone cluster-head ids.
func (z *ZoneRouting) NearZoneHeadIDs() []int { return z.nearZoneHeadIDs }

// FarZoneHeadIDs returns this round's far-zone cluster-head ids.
func (z *ZoneRouting) FarZoneHeadIDs() []int { return z.farZoneHeadIDs }

// RunRound implements Protocol.
//
// Clustering runs over the alive snapshot only, so every cluster is owned by
// nodes that can actually serve as heads; the assignment slice is parallel to
// that snapshot, with aliveIDs mapping entries back to node ids.
func (z *ZoneRouting) RunRound(s *Simulator) {
	// With nobody alive the desired head count is zero and the whole round
	// is a no-op.
	if s.AliveNodeCount == 0 {
		return
	}
	desiredHeads := int(math.Ceil(z.chProbability * float64(s.AliveNodeCount)))
	if desiredHeads == 0 {
		return
	}

	aliveIDs := make([]int, 0, s.AliveNodeCount)
	points := make([]Position, 0, s.AliveNodeCount)
	for i := range s.Nodes {
		if s.Nodes[i].IsAlive {
			aliveIDs = append(aliveIDs, i)
			points = append(points, s.Nodes[i].Position)
		}
	}
	// Never ask for more clusters than there are points.
	if desiredHeads > len(points) {
		desiredHeads = len(points)
	}

	kmeans := NewKMeans(desiredHeads)
	kmeans.Fit(points, s.RNG.ForSubsystem(SubsystemClustering))
	assignment := kmeans.Clusters()
	centroids := kmeans.Centroids()

	// Reset transient state and sweep deaths across the whole arena. Nodes
	// that die here stay in the clustering snapshot but are excluded from
	// head selection and membership below.
	for i := range s.Nodes {
		node := &s.Nodes[i]
		node.ResetForRound()
		if node.IsAlive && node.RemainingEnergyJ <= 0 {
			s.markDead(node)
		}
	}

	// Head selection: per cluster, the strictly best score wins; on an exact
	// tie the first-scanned (lowest id) candidate keeps the slot. A cluster
	// whose candidates all died this round simply produces no head.
	headByCluster := make([]int, desiredHeads)
	bestScore := make([]float64, desiredHeads)
	for c := range headByCluster {
		headByCluster[c] = NoClusterHead
		bestScore[c] = math.Inf(-1)
	}
	diagonalM := math.Hypot(s.Config.AreaWidthM, s.Config.AreaHeightM)
	for snapIdx, nodeID := range aliveIDs {
		node := &s.Nodes[nodeID]
		if !node.IsAlive {
			continue
		}

		cluster := assignment[snapIdx]
		energyScore := node.RemainingEnergyJ / s.Config.InitialEnergyJ
		distanceScore := node.Position.DistanceTo(centroids[cluster]) / diagonalM
		score := energyScore - distanceScore

		if score > bestScore[cluster] {
			bestScore[cluster] = score
			headByCluster[cluster] = nodeID
		}
	}

	// Zone bucketing: the free-space/multipath threshold splits heads into
	// those that can reach the sink cheaply and those that cannot.
	z.nearZoneHeadIDs = z.nearZoneHeadIDs[:0]
	z.farZoneHeadIDs = z.farZoneHeadIDs[:0]
	for _, headID := range headByCluster {
		if headID == NoClusterHead {
			continue
		}
		head := &s.Nodes[headID]
		head.IsClusterHead = true
		if head.DistanceToBaseStationM <= s.Radio.FSMultipathThresholdM {
			z.nearZoneHeadIDs = append(z.nearZoneHeadIDs, headID)
		} else {
			z.farZoneHeadIDs = append(z.farZoneHeadIDs, headID)
		}
	}
	logrus.Debugf("[round %04d] zone: %d near / %d far cluster heads",
		s.CurrentRound, len(z.nearZoneHeadIDs), len(z.farZoneHeadIDs))

	// Cluster formation: every alive member reports to its own cluster's
	// head and pays the transmit cost. A headless cluster sits this round out.
	bits := s.Config.PacketSizeBits
	for snapIdx, nodeID := range aliveIDs {
		node := &s.Nodes[nodeID]
		if !node.IsAlive || node.IsClusterHead {
			continue
		}
		headID := headByCluster[assignment[snapIdx]]
		if headID == NoClusterHead {
			continue
		}

		head := &s.Nodes[headID]
		node.ClusterHeadID = headID
		node.RemainingEnergyJ -= s.Radio.TransmitEnergy(bits, node.Position.DistanceTo(head.Position))
		head.ClusterMemberIDs = append(head.ClusterMemberIDs, nodeID)
	}

	// Near-zone heads: receive + aggregate from members, transmit direct.
	for _, headID := range z.nearZoneHeadIDs {
		head := &s.Nodes[headID]
		memberCount := float64(len(head.ClusterMemberIDs))
		head.RemainingEnergyJ -= (s.Radio.ReceiveEnergy(bits) + s.Radio.AggregationEnergy(bits)) * memberCount
		head.RemainingEnergyJ -= s.Radio.TransmitEnergy(bits, head.DistanceToBaseStationM)
	}

	// Far-zone heads: receive + aggregate, then relay through the nearest
	// near-zone head only when that hop is strictly shorter than the direct
	// path; the relay target pays for receiving and re-aggregating the
	// forwarded packet. No near-zone head means direct transmission, always.
	for _, headID := range z.farZoneHeadIDs {
		head := &s.Nodes[headID]
		memberCount := float64(len(head.ClusterMemberIDs))
		head.RemainingEnergyJ -= (s.Radio.ReceiveEnergy(bits) + s.Radio.AggregationEnergy(bits)) * memberCount

		relayID, relayDistanceM := z.nearestNearZoneHead(s, head)
		if relayID != NoClusterHead && relayDistanceM < head.DistanceToBaseStationM {
			head.RemainingEnergyJ -= s.Radio.TransmitEnergy(bits, relayDistanceM)
			relay := &s.Nodes[relayID]
			relay.RemainingEnergyJ -= s.Radio.ReceiveEnergy(bits) + s.Radio.AggregationEnergy(bits)
		} else {
			head.RemainingEnergyJ -= s.Radio.TransmitEnergy(bits, head.DistanceToBaseStationM)
		}
	}
}

// nearestNearZoneHead returns the id and distance of the near-zone head
// closest to the given far-zone head, or (NoClusterHead, +Inf) when the near
// bucket is empty.
func (z *ZoneRouting) nearestNearZoneHead(s *Simulator, from *Node) (int, float64) {
	nearestID := NoClusterHead
	minDistanceM := math.Inf(1)
	for _, id := range z.nearZoneHeadIDs {
		if d := from.Position.DistanceTo(s.Nodes[id].Position); d < minDistanceM {
			minDistanceM = d
			nearestID = id
		}
	}
	return nearestID, minDistanceM
}
