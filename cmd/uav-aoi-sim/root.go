package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"uav-aoi-sim/internal/config"
	"uav-aoi-sim/internal/logging"
	"uav-aoi-sim/internal/scenario"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	logFile    string
	adminAddr  string
	printOnly  bool
	useTUI     bool
	jitter     bool

	flagN          int
	flagT          float64
	flagBattery    float64
	flagSpeed      float64
	flagPayload    float64
	flagBeta       float64
	flagGamma      float64
	flagAlpha      float64
	flagPolicy     string
	flagSeed       int64
	flagCommRadius float64
	flagGreedy     bool
)

var rootCmd = &cobra.Command{
	Use:   "uav-aoi-sim",
	Short: "UAV data-collection mission simulator",
	Long: "uav-aoi-sim flies a single UAV over a field of sensor nodes and reports the " +
		"age of information and energy of each mission, alone or in experiments.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := logging.New(logging.Options{Level: logLevel, Format: logFormat, File: logFile})
		if err != nil {
			return err
		}
		cmd.SetContext(logging.NewContext(cmd.Context(), log))
		return nil
	},
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to YAML config (built-in defaults when empty)")
	pf.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "Log format (text or json)")
	pf.StringVar(&logFile, "log-file", "", "Write logs to a rotating file instead of STDOUT")
	pf.StringVar(&adminAddr, "admin-addr", "", "Serve run progress and metrics on this address")
	pf.BoolVar(&printOnly, "print-only", false, "Print rows to STDOUT even when GREPTIMEDB_ENDPOINT is set")
	pf.BoolVar(&useTUI, "tui", false, "Show a terminal UI instead of printing rows")
	pf.BoolVar(&jitter, "jitter", false, "Randomize the parameters not given on the command line")

	pf.IntVar(&flagN, "N", 0, "Number of sensor nodes")
	pf.Float64Var(&flagT, "T", 0, "Mission time in seconds")
	pf.Float64Var(&flagBattery, "battery", 0, "Battery capacity in Wh")
	pf.Float64Var(&flagSpeed, "speed", 0, "UAV cruise speed in m/s")
	pf.Float64Var(&flagPayload, "payload", 0, "Payload per contact in bits")
	pf.Float64Var(&flagBeta, "beta", 0, "AoI exponent of the selection score")
	pf.Float64Var(&flagGamma, "gamma", 0, "Energy exponent of the selection score")
	pf.Float64Var(&flagAlpha, "alpha", 0, "AoI/energy trade-off in [0, 1]")
	pf.StringVar(&flagPolicy, "policy", "", "Selection policy (RR, MAF or AWN)")
	pf.Int64Var(&flagSeed, "seed", 0, "Random seed for layouts and jitter")
	pf.Float64Var(&flagCommRadius, "comm-radius", 0, "Communication radius in meters")
	pf.BoolVar(&flagGreedy, "greedy", false, "Pick the next node greedily instead of following a tour")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(comparePoliciesCmd)
	rootCmd.AddCommand(sweepAlphaCmd)
	rootCmd.AddCommand(sweepNodesCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(summarizeCmd)
}

// overrides collects the flags the user actually set.
func overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	fs := cmd.Flags()
	if fs.Changed("N") {
		o.N = &flagN
	}
	if fs.Changed("T") {
		o.T = &flagT
	}
	if fs.Changed("battery") {
		o.Battery = &flagBattery
	}
	if fs.Changed("speed") {
		o.Speed = &flagSpeed
	}
	if fs.Changed("payload") {
		o.Payload = &flagPayload
	}
	if fs.Changed("beta") {
		o.Beta = &flagBeta
	}
	if fs.Changed("gamma") {
		o.Gamma = &flagGamma
	}
	if fs.Changed("alpha") {
		o.Alpha = &flagAlpha
	}
	if fs.Changed("policy") {
		o.Policy = &flagPolicy
	}
	if fs.Changed("seed") {
		o.Seed = &flagSeed
	}
	if fs.Changed("comm-radius") {
		o.CommRadius = &flagCommRadius
	}
	if fs.Changed("greedy") {
		o.Greedy = &flagGreedy
	}
	return o
}

// loadConfig resolves the configuration of a command: defaults or file,
// then flags, then jitter. keepPolicy and keepAlpha shield the parameter an
// experiment sweeps from jitter.
func loadConfig(cmd *cobra.Command, keepPolicy, keepAlpha bool) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	o := overrides(cmd)
	cfg.Override(o)
	if jitter {
		if o.Seed == nil {
			cfg.Seed = config.LockSeed(o, time.Now())
		}
		cfg.Jitter(scenario.NewRand(cfg.Seed), o, keepPolicy, keepAlpha)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
