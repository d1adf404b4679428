package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Input discovery
	InputSuffix string `mapstructure:"input_suffix" yaml:"input_suffix"`
	SaveDir     string `mapstructure:"save_dir" yaml:"save_dir"`

	// Period slicing; durations accept Go ("24h") or pandas ("24H 0T") forms
	Period   string `mapstructure:"period" yaml:"period"`
	CTPeriod string `mapstructure:"ct_period" yaml:"ct_period"`

	// Light remap
	LightThreshold float64 `mapstructure:"light_threshold" yaml:"light_threshold"`
	LightInvert    bool    `mapstructure:"light_invert" yaml:"light_invert"`
	LightCol       string  `mapstructure:"light_col" yaml:"light_col"`

	// Condition labels and windows
	LabelCol       string `mapstructure:"label_col" yaml:"label_col"`
	SectionLabel   string `mapstructure:"section_label" yaml:"section_label"`
	BaselineLength string `mapstructure:"baseline_length" yaml:"baseline_length"`
	PostLength     string `mapstructure:"post_length" yaml:"post_length"`

	// Plotting
	PlotSuffix   string  `mapstructure:"plot_suffix" yaml:"plot_suffix"`
	PlotWidthIn  float64 `mapstructure:"plot_width_in" yaml:"plot_width_in"`
	PlotHeightIn float64 `mapstructure:"plot_height_in" yaml:"plot_height_in"`
	Bin          string  `mapstructure:"bin" yaml:"bin"`
}

// Dir returns ~/.actigraph.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".actigraph"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.actigraph/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by
// the caller on top of the result.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ACTIGRAPH")
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// a missing default file is fine; a named one must exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input_suffix", ".csv")
	v.SetDefault("save_dir", "")
	v.SetDefault("period", "24h")
	v.SetDefault("ct_period", "24h")
	v.SetDefault("light_threshold", 150.0)
	v.SetDefault("light_invert", true)
	v.SetDefault("light_col", "-1")
	v.SetDefault("label_col", "-1")
	v.SetDefault("section_label", "disrupted")
	v.SetDefault("baseline_length", "6D")
	v.SetDefault("post_length", "16D")
	v.SetDefault("plot_suffix", ".png")
	v.SetDefault("plot_width_in", 8.0)
	v.SetDefault("plot_height_in", 6.0)
	v.SetDefault("bin", "1h")
}

// Defaults returns the built-in configuration without reading any file
// or environment.
func Defaults() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}
