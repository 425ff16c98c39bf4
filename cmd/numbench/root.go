package main

import (
	"fmt"
	"io"
	"net"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meftunca/numbench/pkg/config"
	numbenchjson "github.com/meftunca/numbench/pkg/json"
	"github.com/meftunca/numbench/pkg/logging"
	"github.com/meftunca/numbench/pkg/metrics"
	"github.com/meftunca/numbench/pkg/perf"
	"github.com/meftunca/numbench/pkg/probe"
	"github.com/meftunca/numbench/pkg/version"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configPath string

	cmd := &cobra.Command{
		Use:   "numbench",
		Short: "Time formatting 1,000,000 with thousands grouping",
		Long: `numbench times a single case, one_million: formatting the integer
1,000,000 as "1,000,000". Each timed iteration makes 10 calls.

Results are printed as one summary line per case. Use --output to keep the
raw samples as JSON and --metrics-textfile to export them for Prometheus.
With --metrics-listen the metrics stay on /metrics until interrupted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(v, configPath)
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	// Unchanged flags still reach viper as values, so their defaults must
	// match the config defaults.
	defaults := config.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default ./numbench.yaml if present)")
	flags.StringP("output", "o", defaults.Output.Path, "write results as JSON to this file")
	flags.Int("samples", defaults.Runner.Samples, "measured samples per case")
	flags.Int("warmups", defaults.Runner.Warmups, "discarded samples before measuring")
	flags.Duration("min-time", defaults.Runner.MinTime, "minimum duration of one sample")
	flags.String("metrics-textfile", defaults.Metrics.Textfile, "write Prometheus metrics to this file")
	flags.String("metrics-listen", defaults.Metrics.Listen, "serve /metrics on this address after the run")
	flags.String("log-level", defaults.Logging.Level, "log level: debug, info, warn or error")

	for key, flag := range map[string]string{
		"output.path":      "output",
		"runner.samples":   "samples",
		"runner.warmups":   "warmups",
		"runner.min_time":  "min-time",
		"metrics.textfile": "metrics-textfile",
		"metrics.listen":   "metrics-listen",
		"logging.level":    "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	cmd.AddCommand(newFormatCmd(), newVersionCmd())
	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	if err := numbenchjson.InitializeFromConfig(numbenchjson.FromOutputConfig(cfg.Output)); err != nil {
		return fmt.Errorf("initialize json: %w", err)
	}

	prom := metrics.NewPrometheusMetrics(cfg.Metrics.Namespace)
	runner := perf.NewRunner(cfg.Runner,
		perf.WithLogger(logger),
		perf.WithRecorder(prom),
	)

	started := time.Now()
	results, err := probe.Main(cmd.Context(), runner)
	if err != nil {
		return fmt.Errorf("run %s: %w", probe.Name, err)
	}

	if err := perf.WriteSummaries(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	if cfg.Output.Path != "" {
		if err := perf.WriteSuite(cfg.Output.Path, perf.NewSuite(started, results)); err != nil {
			return err
		}
		logger.Info("results written", "path", cfg.Output.Path)
	}

	if cfg.Metrics.Textfile != "" {
		if err := prom.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return err
		}
		logger.Info("metrics written", "path", cfg.Metrics.Textfile)
	}

	if cfg.Metrics.Listen != "" {
		ln, err := net.Listen("tcp", cfg.Metrics.Listen)
		if err != nil {
			return fmt.Errorf("listen for metrics: %w", err)
		}
		logger.Info("serving metrics", "addr", ln.Addr().String(), "path", "/metrics")
		return prom.Serve(cmd.Context(), ln)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	info := version.GetVersionInfo()
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if info[k] != "" {
			fmt.Fprintf(w, "%-12s %s\n", k+":", info[k])
		}
	}
}
