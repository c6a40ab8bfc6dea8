package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/impexls/internal/config"
	"github.com/zjrosen/impexls/internal/log"
)

var (
	version    = "dev"
	cfgFile    string
	configPath string
	debugFlag  bool
	cfg        config.Config
	logCleanup = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "impexls",
	Short: "Language server for ImpEx data files",
	Long: `impexls is a language server for ImpEx-style, semicolon-delimited data files.

Run without a subcommand it serves the Language Server Protocol over stdio:
placing the cursor on a header attribute highlights that column in every row
of the record, and placing it on a row value highlights the attribute it
belongs to.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) { logCleanup() },
	RunE:              runServe,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./"+config.LocalConfigPath+" or ~/"+config.UserConfigDir+"/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (path from "+log.EnvPath+", default "+log.DefaultPath+")")
}

// initConfig only records where the config lives; setup loads it so that
// errors surface through the command.
func initConfig() {
	configPath = resolveConfigPath(cfgFile)
}

func setup(cmd *cobra.Command, _ []string) error {
	cleanup, err := log.InitFromEnv(debugFlag, "impexls")
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	logCleanup = cleanup

	loaded, err := loadConfig(viper.GetViper(), configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	log.Info(log.CatConfig, "configuration loaded", "path", configPath, "command", cmd.Name())
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
