package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/wsn-sim/wsn-sim/sim"
	"github.com/wsn-sim/wsn-sim/sim/report"
)

var (
	// CLI flags for the simulation scenario
	seed           int64   // Master seed for deployment, election, and clustering RNG
	protocolName   string  // Protocol variant to run (leach or zone)
	maxRounds      int     // Round cap
	nodeCount      int     // Number of sensor nodes
	areaWidth      float64 // Deployment area width (m)
	areaHeight     float64 // Deployment area height (m)
	chProbability  float64 // Desired cluster-head probability
	packetSizeBits float64 // Data packet size (bits)
	initialEnergy  float64 // Per-node energy budget (J)
	scenarioPath   string  // Optional YAML scenario file (overrides the flags above)
	logLevel       string  // Log verbosity level

	// CLI flags for outputs
	csvOutPath   string // Per-round record stream CSV destination
	chartOutPath string // Lifetime chart HTML destination
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "wsnsim",
	Short: "Round-based energy simulator for wireless sensor network clustering protocols",
}

// buildScenario assembles the scenario from flags, or loads the YAML file
// when one is given.
func buildScenario() (sim.ScenarioConfig, error) {
	if scenarioPath != "" {
		return sim.LoadScenario(scenarioPath)
	}

	cfg := sim.DefaultScenario()
	cfg.AreaWidthM = areaWidth
	cfg.AreaHeightM = areaHeight
	cfg.NodeCount = nodeCount
	cfg.CHProbability = chProbability
	cfg.PacketSizeBits = packetSizeBits
	cfg.InitialEnergyJ = initialEnergy
	cfg.MaxRounds = maxRounds
	return cfg, cfg.Validate()
}

// runCmd executes one simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one protocol until the network dies or the round cap is hit",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := buildScenario()
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		protocol, err := sim.NewProtocol(protocolName, cfg.CHProbability)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		s, err := sim.NewSimulator(cfg, sim.NewSimulationKey(seed))
		if err != nil {
			logrus.Fatalf("Could not construct simulator: %v", err)
		}

		s.Run(protocol, cfg.MaxRounds)
		s.Metrics.Print(protocol.Name())

		if csvOutPath != "" {
			if err := report.WriteCSV(csvOutPath, s.Recorder.Records); err != nil {
				logrus.Fatalf("Could not write record stream: %v", err)
			}
			logrus.Infof("Record stream written to %s", csvOutPath)
		}
		if chartOutPath != "" {
			title := fmt.Sprintf("Network lifetime (%s)", protocol.Name())
			if err := report.WriteChart(chartOutPath, title, s.Metrics.Series()); err != nil {
				logrus.Fatalf("Could not write chart: %v", err)
			}
			logrus.Infof("Chart written to %s", chartOutPath)
		}
	},
}

// compareCmd runs both protocol variants from the same seed and scenario
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run both protocols from the same seed and print lifetime metrics side by side",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := buildScenario()
		if err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		for _, name := range []string{sim.ProtocolLeach, sim.ProtocolZone} {
			protocol, err := sim.NewProtocol(name, cfg.CHProbability)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			s, err := sim.NewSimulator(cfg, sim.NewSimulationKey(seed))
			if err != nil {
				logrus.Fatalf("Could not construct simulator: %v", err)
			}
			s.Run(protocol, cfg.MaxRounds)
			s.Metrics.Print(protocol.Name())
			fmt.Println()
		}
	},
}

// setupLogging parses the --log flag into a logrus level.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, compareCmd} {
		c.Flags().Int64Var(&seed, "seed", 42, "Master seed for deployment, election, and clustering randomness")
		c.Flags().IntVar(&maxRounds, "rounds", 2000, "Maximum number of rounds to simulate")
		c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

		c.Flags().IntVar(&nodeCount, "nodes", 100, "Number of sensor nodes")
		c.Flags().Float64Var(&areaWidth, "width", 500.0, "Deployment area width in meters")
		c.Flags().Float64Var(&areaHeight, "height", 500.0, "Deployment area height in meters")
		c.Flags().Float64Var(&chProbability, "ch-probability", 0.1, "Desired cluster-head probability, in (0,1]")
		c.Flags().Float64Var(&packetSizeBits, "packet-bits", 4000.0, "Data packet size in bits")
		c.Flags().Float64Var(&initialEnergy, "initial-energy", 0.5, "Per-node energy budget in Joules")
		c.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file (overrides the scenario flags)")
	}

	runCmd.Flags().StringVar(&protocolName, "protocol", sim.ProtocolLeach, "Protocol variant: leach or zone")
	runCmd.Flags().StringVar(&csvOutPath, "csv-out", "", "Write the per-round record stream CSV here")
	runCmd.Flags().StringVar(&chartOutPath, "chart-out", "", "Write a lifetime chart HTML here")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
}
