package sim

import "fmt"

// Protocol names accepted by NewProtocol.
const (
	ProtocolLeach = "leach"
	ProtocolZone  = "zone"
)

// Protocol is the single extension point of the engine: one implementation
// receives the simulator's mutable state once per round and executes the full
// round: death sweep, head selection, cluster formation, energy dissipation.
//
// Implementations must leave the state consistent after every call: the
// alive-count cache matches the alive flags, and a degraded round (no heads
// elected, no heads desired) is a no-op rather than an error.
type Protocol interface {
	// Name is the protocol's short identifier, used in logs and reports.
	Name() string

	// RunRound executes one full round against the simulator state.
	RunRound(s *Simulator)
}

// NewProtocol builds the named protocol variant. The set is closed: exactly
// the rotation-election baseline and the zone-based variant exist.
func NewProtocol(name string, chProbability float64) (Protocol, error) {
	switch name {
	case ProtocolLeach:
		return NewLeach(chProbability), nil
	case ProtocolZone:
		return NewZoneRouting(chProbability), nil
	default:
		return nil, fmt.Errorf("unknown protocol %q (want %q or %q)", name, ProtocolLeach, ProtocolZone)
	}
}
