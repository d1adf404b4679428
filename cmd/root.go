package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	cfgpkg "github.com/KaramelBytes/actigraph-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	quiet   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "actigraph",
	Short: "Actigraph CLI: batch preprocessing for actigraphy recordings",
	Long: `Actigraph reads directories of time-indexed activity CSV files, splits them
by condition or circadian period, remaps light channels, computes mean ± SEM
waveforms and rhythm metrics, and writes the results next to the inputs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.actigraph/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress and non-essential output")
}

func loadConfig() {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c
	logger.Debug("config loaded", "file", cfgFile, "period", cfg.Period, "suffix", cfg.InputSuffix)
}

// settings returns the loaded configuration, or defaults when a command
// runs before loadConfig.
func settings() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}

// stdout returns the command's output writer, or io.Discard under --quiet.
func stdout(cmd *cobra.Command) io.Writer {
	if quiet {
		return io.Discard
	}
	return cmd.OutOrStdout()
}

func progressPrinter(w io.Writer) func(i, total int, file string) {
	return func(i, total int, file string) {
		fmt.Fprintf(w, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(file))
	}
}
