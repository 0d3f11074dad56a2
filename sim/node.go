package sim

import (
	"math"
	"math/rand"
)

// Position is a 2D point in the deployment area, in meters.
type Position struct {
	X float64
	Y float64
}

// DistanceTo returns the Euclidean distance to q in meters.
func (p Position) DistanceTo(q Position) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// NoClusterHead marks a node that is not assigned to any cluster head this
// round, either because it is a cluster head itself or because no head was
// available.
const NoClusterHead = -1

// Node is a single sensor in the network. Only state lives here; all protocol
// logic (election, cluster formation, energy dissipation) is external.
//
// Nodes are kept in an append-only slice with stable indices: a dead node
// stays in place with IsAlive == false so that ids recorded in previous
// rounds remain valid.
type Node struct {
	// ID is the node's index in the simulator's node slice. Never reused.
	ID int

	// Position is fixed at deployment.
	Position Position

	// RemainingEnergyJ is the node's residual energy. It only decreases.
	RemainingEnergyJ float64

	// IsAlive is true while the node has usable energy. Once false it never
	// flips back.
	IsAlive bool

	// IsClusterHead marks the node as this round's cluster head. Reset every
	// round.
	IsClusterHead bool

	// IsEligibleForCH is the rotation flag used by the election protocol:
	// cleared when the node serves as cluster head, restored at the start of
	// each rotation cycle.
	IsEligibleForCH bool

	// DistanceToBaseStationM is precomputed once at deployment.
	DistanceToBaseStationM float64

	// ClusterHeadID is the id of the cluster head this node reports to this
	// round, or NoClusterHead.
	ClusterHeadID int

	// ClusterMemberIDs lists the member nodes reporting to this node. Only
	// non-empty on a node currently acting as cluster head; cleared and
	// rebuilt every round.
	ClusterMemberIDs []int
}

// NewNode creates an alive node at pos with the full initial energy budget
// and its distance to the base station precomputed.
func NewNode(id int, pos Position, initialEnergyJ float64, baseStation Position) Node {
	return Node{
		ID:                     id,
		Position:               pos,
		RemainingEnergyJ:       initialEnergyJ,
		IsAlive:                true,
		IsClusterHead:          false,
		IsEligibleForCH:        true,
		DistanceToBaseStationM: pos.DistanceTo(baseStation),
		ClusterHeadID:          NoClusterHead,
		ClusterMemberIDs:       nil,
	}
}

// ResetForRound clears the per-round transient fields: cluster-head status,
// the assigned head, and the member list. Eligibility is rotation state and
// is not touched here.
func (n *Node) ResetForRound() {
	n.IsClusterHead = false
	n.ClusterHeadID = NoClusterHead
	n.ClusterMemberIDs = n.ClusterMemberIDs[:0]
}

// DeployNetwork places cfg.NodeCount nodes uniformly at random inside
// (1..width, 1..height) using the given RNG.
func DeployNetwork(cfg ScenarioConfig, rng *rand.Rand) []Node {
	baseStation := cfg.BaseStation()
	nodes := make([]Node, cfg.NodeCount)
	for id := range nodes {
		pos := Position{
			X: 1.0 + rng.Float64()*(cfg.AreaWidthM-1.0),
			Y: 1.0 + rng.Float64()*(cfg.AreaHeightM-1.0),
		}
		nodes[id] = NewNode(id, pos, cfg.InitialEnergyJ, baseStation)
	}
	return nodes
}
