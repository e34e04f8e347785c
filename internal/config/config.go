// Package config loads the options a check run reads, matching
// spec.md §6's recognized options and the teacher's
// cmd/ipsw/cmd/root.go viper/TOML wiring.
package config

import (
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Settings is the run-wide configuration a check invocation reads. Field
// names match spec.md §6's recognized options exactly.
type Settings struct {
	ParallelProcessing bool     `toml:"parallel_processing" mapstructure:"parallel_processing"`
	ShowProgress       bool     `toml:"show_progress" mapstructure:"show_progress"`
	GracefulExit       bool     `toml:"graceful_exit" mapstructure:"graceful_exit"`
	ViolationIgnore    []string `toml:"violation_ignore" mapstructure:"violation_ignore"`
	ViolationReport    []string `toml:"violation_report" mapstructure:"violation_report"`
	PrintSymbolPaths   bool     `toml:"print_symbol_paths" mapstructure:"print_symbol_paths"`
}

// Default matches orc's out-of-the-box behavior: parallel, with progress,
// no graceful exit (reported violations are errors and the run exits
// non-zero), and no category filters.
func Default() Settings {
	return Settings{
		ParallelProcessing: true,
		ShowProgress:       true,
	}
}

// sortedCopy returns a sorted copy of violation category lists, matching
// settings::_violation_ignore/_violation_report being kept sorted so
// sorted_has (a binary search) works.
func sortedCopy(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

func (s *Settings) normalize() {
	s.ViolationIgnore = sortedCopy(s.ViolationIgnore)
	s.ViolationReport = sortedCopy(s.ViolationReport)
}

// Load reads path as TOML if it exists, then layers spf13/viper's
// environment-variable overrides ("ODRV_" prefix, matching the teacher's
// "ipsw" prefix in cmd/ipsw/cmd/root.go's initConfig) on top. A missing
// path is not an error: Default() is used as the base.
func Load(path string) (Settings, error) {
	settings := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &settings); err != nil {
				return Settings{}, errors.Wrapf(err, "parse config %s", path)
			}
		case os.IsNotExist(err):
			// fall through with defaults
		default:
			return Settings{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("odrv")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("parallel_processing", settings.ParallelProcessing)
	v.SetDefault("show_progress", settings.ShowProgress)
	v.SetDefault("graceful_exit", settings.GracefulExit)
	v.SetDefault("print_symbol_paths", settings.PrintSymbolPaths)

	settings.ParallelProcessing = v.GetBool("parallel_processing")
	settings.ShowProgress = v.GetBool("show_progress")
	settings.GracefulExit = v.GetBool("graceful_exit")
	settings.PrintSymbolPaths = v.GetBool("print_symbol_paths")

	settings.normalize()
	return settings, nil
}

// SortedHas reports whether category is present in a list already kept
// sorted by Load/normalize, matching orc.cpp's sorted_has (std::binary_search
// over a pre-sorted vector).
func SortedHas(sorted []string, category string) bool {
	i := sort.SearchStrings(sorted, category)
	return i < len(sorted) && sorted[i] == category
}
