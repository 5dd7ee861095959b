package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/born-ml/unarybench/internal/backend/cpu"
	"github.com/born-ml/unarybench/internal/backend/webgpu"
	"github.com/born-ml/unarybench/internal/benchmark"
	"github.com/born-ml/unarybench/internal/config"
	"github.com/born-ml/unarybench/internal/logging"
	"github.com/born-ml/unarybench/internal/tensor"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const version = "v0.1.0-dev"

// Swapped in tests.
var (
	exit             = os.Exit
	newEngineFunc    = defaultEngine
	gpuAvailableFunc = webgpu.IsAvailable
	newStoreFunc     = func(path string) (benchmark.Store, error) { return benchmark.NewFileStore(path) }
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"backend":      config.KeyBackend,
	"sizes":        config.KeySizes,
	"ops":          config.KeyOps,
	"warmup":       config.KeyWarmup,
	"metrics-addr": config.KeyMetricsAddr,
	"out":          config.KeyOutput,
	"log-level":    config.KeyLogLevel,
	"log-format":   config.KeyLogFormat,
	"log-file":     config.KeyLogFile,
}

func defaultEngine() *tensor.Engine {
	eng := tensor.NewEngine()
	eng.Register(benchmark.CPUBackend, func() (tensor.Backend, error) { return cpu.New(), nil })
	eng.Register(benchmark.GPUBackend, webgpu.NewBackend)
	return eng
}

// app carries state shared by subcommands for one execution.
type app struct {
	cfgFile  string
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	eng      *tensor.Engine
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n=== CRITICAL ERROR: Command Execution Panic ===\n")
			fmt.Fprintf(os.Stderr, "Error: %v\n", r)
			exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'unarybench --help' for usage.")
		exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "unarybench",
		Short: "Benchmark element-wise unary tensor operations",
		Long: `unarybench applies one of 36 element-wise operations (exp, relu, erf, ...)
to a random size×size float32 matrix and reports the wall-clock time in
milliseconds, on the CPU backend or the WebGPU backend.`,
		SilenceErrors:      true,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./unarybench.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")
	flags.String("log-file", "", "also append JSON logs to this file")

	root.AddCommand(
		newOpsCmd(),
		newBackendsCmd(a),
		newRunCmd(a),
		newSuiteCmd(a),
		newCompareCmd(),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration for cmd and builds the logger and engine.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v := config.New(a.cfgFile)
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(v, a.cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := logging.SetupWithFile(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.closeLog = closeLog
	a.eng = newEngineFunc()
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	if a.eng != nil {
		a.eng.Close()
	}
	if a.closeLog != nil {
		return a.closeLog()
	}
	return nil
}

// runner returns the runner for the configured backend.
func (a *app) runner() benchmark.Runner {
	if a.cfg.Backend == benchmark.GPUBackend {
		r := benchmark.NewGPURunner(a.eng)
		r.Warmup = a.cfg.Warmup
		r.Logger = a.logger
		return r
	}
	r := benchmark.NewCPURunner(a.eng)
	r.Logger = a.logger
	return r
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "unarybench %s\n", version)
		},
	}
}
