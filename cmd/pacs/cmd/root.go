package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	algebra "github.com/diantonioandrea/pacs-second"
	"github.com/diantonioandrea/pacs-second/market"
)

var (
	cfgFile  string
	verbose  bool
	ordering string
)

var rootCmd = &cobra.Command{
	Use:   "pacs",
	Short: "Sparse matrix toolbox for Matrix Market files",
	Long: `pacs inspects, benchmarks and converts sparse matrices stored in the
Matrix Market coordinate format. Files ending in .zst or .lz4 are
(de)compressed transparently.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&ordering, "ordering", "o", "row-major", "storage ordering: row-major or column-major")
}

// config holds the file-configurable defaults.
type config struct {
	Tolerance float64 `yaml:"tolerance"`
	Workers   int     `yaml:"workers"`
}

func loadConfig() (config, error) {
	cfg := config{Tolerance: algebra.DefaultTolerance, Workers: 1}
	if cfgFile == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(cfgFile)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", cfgFile, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func newLogger() *algebra.Logger {
	if verbose {
		return algebra.NewTextLogger(slog.LevelDebug)
	}
	return algebra.NewTextLogger(slog.LevelWarn)
}

func parseOrdering() (algebra.Ordering, error) {
	switch ordering {
	case "row-major", "row":
		return algebra.RowMajor, nil
	case "column-major", "column":
		return algebra.ColumnMajor, nil
	default:
		return 0, fmt.Errorf("unknown ordering %q", ordering)
	}
}

// loadMatrix reads a matrix per the global flags and config file.
func loadMatrix(path string, extra ...algebra.Option) (*algebra.Matrix[float64], error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	ord, err := parseOrdering()
	if err != nil {
		return nil, err
	}

	logger := algebra.NoopLogger()
	if verbose {
		logger = newLogger()
	}

	return market.ReadFile(path, func(o *market.Options) {
		o.Ordering = ord
		o.Logger = logger
		o.Matrix = append([]algebra.Option{
			algebra.WithTolerance(cfg.Tolerance),
			algebra.WithWorkers(cfg.Workers),
		}, extra...)
	})
}
