package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/factory-sim/factory-sim/ingest"
	"github.com/factory-sim/factory-sim/server"
	sim "github.com/factory-sim/factory-sim/sim"
)

var (
	// CLI flags shared by run and serve
	seed            int64   // Master seed for all random draws
	horizon         float64 // Total simulation time (in simulated time units)
	logLevel        string  // Log verbosity level
	configPath      string  // Optional YAML config file
	lines           int     // Number of production lines
	initialStock    int     // Starting raw-material stock
	supplyThreshold int     // Supply-chain low-water mark

	// run-only flags
	runs int // Number of back-to-back simulation runs

	// serve-only flags
	addr         string // HTTP listen address
	dbPath       string // SQLite path for ingested records
	flushSeconds int    // Ingestion flush interval (wall-clock seconds)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "factory-sim",
	Short: "Discrete-event simulator for a vehicle manufacturing facility",
}

// buildConfig assembles the simulation config from the optional YAML file
// and any explicit flag overrides.
func buildConfig(cmd *cobra.Command) (*sim.Config, error) {
	var cfg *sim.Config
	if configPath != "" {
		loaded, err := sim.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = sim.DefaultConfig()
	}
	if cmd.Flags().Changed("lines") {
		cfg.Lines = lines
	}
	if cmd.Flags().Changed("initial-stock") {
		cfg.InitialStock = initialStock
	}
	if cmd.Flags().Changed("supply-threshold") {
		cfg.Supply.Threshold = supplyThreshold
	}
	return cfg, nil
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd executes one or more simulation runs using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the factory simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := buildConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		logrus.Infof("Starting simulation with %d line(s), horizon=%.2f, seed=%d",
			cfg.Lines, horizon, seed)

		for i := 0; i < runs; i++ {
			report, err := sim.Run(cfg, horizon, seed+int64(i))
			if err != nil {
				logrus.Fatalf("Simulation failed: %v", err)
			}
			report.Print()
		}

		logrus.Info("Simulation complete.")
	},
}

// serveCmd runs one simulation and serves its snapshot over HTTP, flushing
// event records to SQLite until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulation and serve snapshots over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := buildConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		s, err := sim.NewSimulator(cfg, horizon, seed)
		if err != nil {
			logrus.Fatalf("Simulation setup failed: %v", err)
		}
		report := s.Run()
		report.Print()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		buffer, err := ingest.Open(dbPath, time.Duration(flushSeconds)*time.Second)
		if err != nil {
			logrus.Fatalf("Opening ingest database failed: %v", err)
		}
		buffer.IngestSnapshot(s.Snapshot())
		go buffer.Start(ctx)

		srv := server.New(addr, s, report, buffer)
		if err := srv.Start(ctx); err != nil {
			logrus.Errorf("HTTP server failed: %v", err)
		}
		if err := buffer.Close(); err != nil {
			logrus.Errorf("Closing ingest database failed: %v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, serveCmd} {
		c.Flags().Int64Var(&seed, "seed", 42, "Seed for all random draws")
		c.Flags().Float64Var(&horizon, "horizon", 1000, "Total simulation horizon (in time units)")
		c.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
		c.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")
		c.Flags().IntVar(&lines, "lines", 1, "Number of production lines")
		c.Flags().IntVar(&initialStock, "initial-stock", 100, "Starting raw-material stock")
		c.Flags().IntVar(&supplyThreshold, "supply-threshold", 20, "Stock level that triggers replenishment")
	}

	runCmd.Flags().IntVar(&runs, "runs", 1, "Number of back-to-back simulation runs")

	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().StringVar(&dbPath, "db", "factory.db", "SQLite database for ingested records")
	serveCmd.Flags().IntVar(&flushSeconds, "flush-interval", 10, "Ingestion flush interval in seconds")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}
