// Package sim provides the round-based protocol engine for the wireless
// sensor network energy simulator.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - node.go: the node arena (stable indices, dead nodes stay flagged in place)
//   - simulator.go: the driver owning the arena, round counter, and alive count
//   - protocol.go: the single extension point, one RunRound per protocol variant
//
// The two variants are leach.go (probabilistic rotation election) and zone.go
// (k-means spatial clustering with near/far relay zones). Both share radio.go
// (first-order radio energy model) and draw randomness from the partitioned,
// seed-derived sources in rng.go so runs are reproducible.
//
// The sub-package sim/report holds the pure-data record stream plus its CSV
// and chart exporters; nothing in it depends back on sim.
package sim
