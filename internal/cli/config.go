package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/codereg/internal/config"
)

var flagForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage codereg configuration",
}

func configFile() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	return config.ConfigPath()
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := configFile()
		if err != nil {
			fail(err)
			return
		}
		if _, err := os.Stat(path); err == nil && !flagForce {
			fmt.Fprintf(os.Stderr, "Config file already exists at %s\n", path)
			return
		}
		if err := config.Init(path, flagForce); err != nil {
			fail(fmt.Errorf("writing config: %w", err))
			return
		}
		fmt.Fprintf(os.Stdout, "Config file created at %s\n", path)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: "Set a configuration value in the config file. List values are comma-separated.\n\nKeys:\n  " +
		strings.Join(config.Keys(), "\n  "),
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		path, err := configFile()
		if err != nil {
			fail(err)
			return
		}
		if err := config.Set(path, args[0], args[1]); err != nil {
			fail(err)
			return
		}
		fmt.Fprintf(os.Stdout, "Set %s = %s\n", args[0], args[1])
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fail(err)
			return
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			fail(err)
			return
		}
		if err := enc.Close(); err != nil {
			fail(err)
		}
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}
