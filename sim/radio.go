package sim

import "math"

// RadioModel holds the first-order radio energy constants and exposes the
// pure cost functions used by every protocol. All costs are in Joules.
type RadioModel struct {
	// ElectronicsJPerBit is the energy the radio electronics spend per bit,
	// identical for transmit and receive (J/bit).
	ElectronicsJPerBit float64
	// FreeSpaceAmpJ is the free-space amplifier energy (J/bit/m²).
	FreeSpaceAmpJ float64
	// MultipathAmpJ is the multipath amplifier energy (J/bit/m⁴).
	MultipathAmpJ float64
	// AggregationJPerBit is the cost of aggregating one bit of member data (J/bit).
	AggregationJPerBit float64

	// FSMultipathThresholdM is the crossover distance sqrt(E_fs/E_mp) between
	// the free-space (d²) and multipath (d⁴) amplifier terms, in meters.
	// Distances at or below it use the free-space term. The same distance
	// splits cluster heads into near and far zones.
	FSMultipathThresholdM float64
}

// NewRadioModel derives the free-space/multipath threshold from the amplifier
// constants so that the amplifier switch and the zone boundary always agree.
func NewRadioModel(electronicsJPerBit, freeSpaceAmpJ, multipathAmpJ, aggregationJPerBit float64) RadioModel {
	return RadioModel{
		ElectronicsJPerBit:    electronicsJPerBit,
		FreeSpaceAmpJ:         freeSpaceAmpJ,
		MultipathAmpJ:         multipathAmpJ,
		AggregationJPerBit:    aggregationJPerBit,
		FSMultipathThresholdM: math.Sqrt(freeSpaceAmpJ / multipathAmpJ),
	}
}

// TransmitEnergy returns the cost of transmitting dataSizeBits over distanceM:
// electronics plus the amplifier term (free-space at or below the threshold,
// multipath above it).
func (m RadioModel) TransmitEnergy(dataSizeBits, distanceM float64) float64 {
	transmitEnergyJ := dataSizeBits * m.ElectronicsJPerBit

	if distanceM <= m.FSMultipathThresholdM {
		transmitEnergyJ += dataSizeBits * m.FreeSpaceAmpJ * distanceM * distanceM
	} else {
		d2 := distanceM * distanceM
		transmitEnergyJ += dataSizeBits * m.MultipathAmpJ * d2 * d2
	}

	return transmitEnergyJ
}

// ReceiveEnergy returns the cost of receiving dataSizeBits (electronics only).
func (m RadioModel) ReceiveEnergy(dataSizeBits float64) float64 {
	return dataSizeBits * m.ElectronicsJPerBit
}

// AggregationEnergy returns the cost a cluster head pays to aggregate
// dataSizeBits from one member signal.
func (m RadioModel) AggregationEnergy(dataSizeBits float64) float64 {
	return dataSizeBits * m.AggregationJPerBit
}
