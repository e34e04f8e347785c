package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// Verbose turns on debug-level logging.
	Verbose bool
	// Color forces colorized report output.
	Color bool
)

var rootCmd = &cobra.Command{
	Use:   "odrv",
	Short: "Detect One-Definition-Rule violations across Mach-O object files",
}

// Execute adds all child commands to the root command and runs it. Called
// once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	log.SetHandler(clihandler.Default)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&Color, "color", false, "colorize output")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	viper.BindEnv("color", "CLICOLOR")

	rootCmd.AddCommand(checkCmd)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// initConfig reads the config file set by --config, if any, and applies
// ODRV_-prefixed environment overrides; internal/config.Load does the same
// work for the Settings actually used by check, this just controls
// logging/viper's own bootstrap the way the teacher's initConfig does.
func initConfig() {
	if Verbose {
		log.SetLevel(log.DebugLevel)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}

	viper.SetEnvPrefix("odrv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}
