// Command meshsim drives the mesh routing simulator end to end: it builds
// a topology preset, runs every requested routing algorithm across a
// fixed load ladder, and writes the JSON/CSV/PNG result bundle the harness
// defines. Topology construction, CLI parsing, plotting, and logging
// setup are the external collaborators wired around the harness core; this
// file is where that glue lives, wired to the package harness core.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/meshwcett/simulator/pkg/harness"
)

func main() {
	cfg, configPath, logDir := parseFlags()

	if configPath != "" {
		loaded, err := harness.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "meshsim: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	log, closeLog, err := buildLogger(logDir, cfg.Quiet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "meshsim: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg, log); err != nil {
		log.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

// parseFlags binds the harness's command surface to a fresh
// Config seeded from harness.DefaultConfig, plus two meshsim-only flags:
// an optional YAML config file (which supersedes every flag if given) and
// the directory the per-run timestamped log file is written under.
func parseFlags() (cfg *harness.Config, configPath, logDir string) {
	cfg = harness.DefaultConfig()

	flag.StringVar(&cfg.Topology, "topology", cfg.Topology, "network topology: 0/small or 1/big")
	flag.IntVar(&cfg.DurationSeconds, "duration", cfg.DurationSeconds, "simulation duration per load point, in seconds")
	flag.Float64Var(&cfg.BaseLoad, "load", cfg.BaseLoad, "base offered load in packets/second")
	flag.StringVar(&cfg.Algorithm, "algorithm", cfg.Algorithm, "hop, wcett, wcett_lb_post, wcett_lb_pre, or all")
	flag.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "directory to write the result bundle to")
	flag.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "suppress per-load-point console summaries")
	flag.BoolVar(&cfg.NoPlots, "no-plots", cfg.NoPlots, "skip PNG rendering, write only JSON/CSV")
	flag.StringVar(&configPath, "config", "", "YAML config file; overrides every other flag if set")
	flag.StringVar(&logDir, "log-dir", "meshsim-logs", "directory for per-run timestamped debug-level log files")

	flag.Parse()
	return cfg, configPath, logDir
}

// buildLogger assembles a zapcore.NewTee of a JSON file core under logDir
// (full Debug detail, timestamped per run) and a human console core at
// Info and above — individual packet failures are only in
// debug logs" split, after original_source/log_config.py's rotating
// file-plus-console setup.
func buildLogger(logDir string, quiet bool) (*zap.Logger, func(), error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir %q: %w", logDir, err)
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("meshsim_%s.log", time.Now().Format("20060102_150405")))
	f, err := os.Create(logPath)
	if err != nil {
		return nil, nil, fmt.Errorf("creating log file %q: %w", logPath, err)
	}

	fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleEncoder := zapcore.NewConsoleEncoder(consoleCfg)

	consoleLevel := zapcore.InfoLevel
	if quiet {
		consoleLevel = zapcore.WarnLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(fileEncoder, zapcore.AddSync(f), zapcore.DebugLevel),
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), consoleLevel),
	)

	logger := zap.New(core)
	return logger, func() {
		_ = logger.Sync()
		_ = f.Close()
	}, nil
}

// run executes the configured sweep and writes its JSON/CSV/PNG bundle.
func run(cfg *harness.Config, log *zap.Logger) error {
	timestamp := harness.Timestamp()

	sweep, err := harness.Sweep(cfg, log)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	resultsDir := filepath.Join(cfg.OutputDir, fmt.Sprintf("results_%s", timestamp))
	jsonPath, err := harness.WriteJSON(resultsDir, sweep, timestamp)
	if err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	log.Info("wrote results", zap.String("path", jsonPath))

	for alg, ar := range sweep.Results {
		if !alg.IsLoadBalanced() {
			continue
		}
		transits := ar.Transits()
		csvPath, err := harness.WriteTransitCSV(resultsDir, alg, transits)
		if err != nil {
			return fmt.Errorf("writing csv for %s: %w", alg, err)
		}
		log.Info("wrote transit csv", zap.String("algorithm", string(alg)), zap.String("path", csvPath))

		if cfg.NoPlots {
			continue
		}
		histPath, err := harness.WriteTransitHistogram(resultsDir, alg, transits)
		if err != nil {
			return fmt.Errorf("writing histogram for %s: %w", alg, err)
		}
		log.Info("wrote transit histogram", zap.String("algorithm", string(alg)), zap.String("path", histPath))
	}

	if !cfg.NoPlots {
		plotPaths, err := harness.WritePlots(resultsDir, sweep)
		if err != nil {
			return fmt.Errorf("writing plots: %w", err)
		}
		for _, path := range plotPaths {
			log.Info("wrote plot", zap.String("path", path))
		}
	}

	log.Info("simulation complete",
		zap.String("topology", sweep.Topology), zap.Int("duration", sweep.Duration),
		zap.Float64s("loads", sweep.Loads))
	return nil
}
