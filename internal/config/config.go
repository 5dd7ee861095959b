// Package config loads benchmark settings from flags, environment and a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/born-ml/unarybench/internal/benchmark"
	"github.com/born-ml/unarybench/internal/unaryops"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. UNARYBENCH_BACKEND.
const EnvPrefix = "UNARYBENCH"

// Keys shared by flags, environment and config file.
const (
	KeyBackend     = "backend"
	KeySizes       = "sizes"
	KeyOps         = "ops"
	KeyWarmup      = "warmup"
	KeyMetricsAddr = "metrics_addr"
	KeyOutput      = "output"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyLogFile     = "log_file"
)

// DefaultSizes are the matrix sizes a suite runs without configuration.
var DefaultSizes = []int{128, 512, 1024}

// Config holds the settings of one invocation.
type Config struct {
	Backend     string
	Sizes       []int
	Ops         []string
	Warmup      int
	MetricsAddr string
	Output      string
	LogLevel    string
	LogFormat   string
	LogFile     string
}

// New returns a viper instance with defaults and environment binding.
// When cfgFile is empty, ./unarybench.yaml is read if present.
func New(cfgFile string) *viper.Viper {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("unarybench")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyBackend, benchmark.CPUBackend)
	v.SetDefault(KeySizes, DefaultSizes)
	v.SetDefault(KeyOps, unaryops.Names())
	v.SetDefault(KeyWarmup, benchmark.DefaultWarmups)
	v.SetDefault(KeyMetricsAddr, "")
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")

	return v
}

// Load reads the config file, if any, and decodes v into a Config.
// cfgFile is the path given to New; a missing default file is not an error,
// a missing explicit one is.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	sizes, err := intList(v.Get(KeySizes))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeySizes, err)
	}

	cfg := &Config{
		Backend:     v.GetString(KeyBackend),
		Sizes:       sizes,
		Ops:         stringList(v.Get(KeyOps)),
		Warmup:      v.GetInt(KeyWarmup),
		MetricsAddr: v.GetString(KeyMetricsAddr),
		Output:      v.GetString(KeyOutput),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFormat:   v.GetString(KeyLogFormat),
		LogFile:     v.GetString(KeyLogFile),
	}
	return cfg, nil
}

// Validate checks the backend name, sizes, operation names and warmup count.
func (c *Config) Validate() error {
	switch c.Backend {
	case benchmark.CPUBackend, benchmark.GPUBackend:
	default:
		return fmt.Errorf("config: unknown backend %q (want %s or %s)", c.Backend, benchmark.CPUBackend, benchmark.GPUBackend)
	}
	if len(c.Sizes) == 0 {
		return errors.New("config: no sizes")
	}
	for _, size := range c.Sizes {
		if size <= 0 {
			return fmt.Errorf("config: %w: %d", benchmark.ErrInvalidSize, size)
		}
	}
	if len(c.Ops) == 0 {
		return errors.New("config: no ops")
	}
	for _, op := range c.Ops {
		if _, err := unaryops.Parse(op); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.Warmup < 0 {
		return fmt.Errorf("config: warmup must be >= 0, got %d", c.Warmup)
	}
	return nil
}

// intList accepts a list value or a comma separated string ("128,512").
func intList(value any) ([]int, error) {
	if s, ok := value.(string); ok {
		fields := splitList(s)
		out := make([]int, 0, len(fields))
		for _, f := range fields {
			n, err := cast.ToIntE(f)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	}
	return cast.ToIntSliceE(value)
}

// stringList accepts a list value or a comma separated string.
func stringList(value any) []string {
	if s, ok := value.(string); ok {
		return splitList(s)
	}
	var out []string
	for _, item := range cast.ToStringSlice(value) {
		out = append(out, splitList(item)...)
	}
	return out
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
