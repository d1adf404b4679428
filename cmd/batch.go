package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/actigraph-cli/internal/frame"
	"github.com/KaramelBytes/actigraph-cli/internal/period"
	"github.com/KaramelBytes/actigraph-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

// batchFlags are shared by every command that walks an input directory.
type batchFlags struct {
	saveDir    string
	subdir     string
	suffix     string
	saveSuffix string
	delimiter  string
	decimal    string
	thousands  string
}

// register adds the shared flags to c. An empty saveSuffix leaves out
// --save-suffix for commands with a fixed output format.
func (b *batchFlags) register(c *cobra.Command, subdir, saveSuffix string) {
	c.Flags().StringVar(&b.saveDir, "save-dir", "", "parent of the output subdirectory (default: input dir)")
	c.Flags().StringVar(&b.subdir, "subdir", subdir, "output subdirectory name")
	c.Flags().StringVar(&b.suffix, "suffix", "", "input file suffix (default from config: .csv)")
	if saveSuffix != "" {
		c.Flags().StringVar(&b.saveSuffix, "save-suffix", saveSuffix, "output file suffix")
	}
	registerReadFlags(c, &b.delimiter, &b.decimal, &b.thousands)
}

func registerReadFlags(c *cobra.Command, delimiter, decimal, thousands *string) {
	c.Flags().StringVar(delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	c.Flags().StringVar(decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	c.Flags().StringVar(thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
}

// readOptions maps the CSV dialect flags onto frame.Options.
func readOptions(suffix, delimiter, decimal, thousands string) (frame.Options, error) {
	opt := frame.DefaultOptions()
	if suffix != "" {
		opt.Suffix = suffix
	}
	switch delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", decimal)
	}
	switch strings.ToLower(strings.TrimSpace(thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", thousands)
	}
	return opt, nil
}

// open builds a pipeline over dir. read controls whether every file is
// loaded up front.
func (b *batchFlags) open(cmd *cobra.Command, dir string, read bool) (*pipeline.Pipeline, error) {
	s := settings()
	suffix := b.suffix
	if suffix == "" {
		suffix = s.InputSuffix
	}
	saveDir := b.saveDir
	if saveDir == "" {
		saveDir = s.SaveDir
	}
	ro, err := readOptions(suffix, b.delimiter, b.decimal, b.thousands)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(pipeline.Options{
		InputDir:     dir,
		SaveDir:      saveDir,
		SubdirName:   b.subdir,
		SearchSuffix: suffix,
		ReadFiles:    read,
		Read:         func(path string) (*frame.Dataset, error) { return frame.ReadFile(path, ro) },
		Logger:       logger,
		Progress:     progressPrinter(stdout(cmd)),
	})
	if err != nil {
		return nil, err
	}
	if len(p.Files) == 0 {
		return nil, fmt.Errorf("no %s files in %s", suffix, dir)
	}
	return p, nil
}

// stringSetting returns the flag value when it was set on the command
// line, otherwise the configured value.
func stringSetting(cmd *cobra.Command, name, flagVal, cfgVal string) string {
	if cmd.Flags().Changed(name) || cfgVal == "" {
		return flagVal
	}
	return cfgVal
}

func durationSetting(cmd *cobra.Command, name, flagVal, cfgVal string) (time.Duration, error) {
	v := stringSetting(cmd, name, flagVal, cfgVal)
	d, err := period.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

// periodOptions resolves --period and --ct against config.
func periodOptions(cmd *cobra.Command, p, ct string) (period.Options, error) {
	s := settings()
	pd, err := durationSetting(cmd, "period", p, s.Period)
	if err != nil {
		return period.Options{}, err
	}
	cd, err := durationSetting(cmd, "ct", ct, s.CTPeriod)
	if err != nil {
		return period.Options{}, err
	}
	if pd <= 0 {
		return period.Options{}, fmt.Errorf("--period must be positive, got %s", pd)
	}
	if cd <= 0 {
		return period.Options{}, fmt.Errorf("--ct must be positive, got %s", cd)
	}
	return period.Options{Period: pd, CT: cd}, nil
}

func registerPeriodFlags(c *cobra.Command, p, ct *string) {
	c.Flags().StringVar(p, "period", "24h", "true length of one period, e.g. 24h, \"24H 0T\", 25h")
	c.Flags().StringVar(ct, "ct", "24h", "circadian axis length each period is mapped onto")
}

func wrote(cmd *cobra.Command, p *pipeline.Pipeline) {
	fmt.Fprintf(stdout(cmd), "✓ Processed %d files into %s\n", len(p.Processed), p.SubdirPath)
}
