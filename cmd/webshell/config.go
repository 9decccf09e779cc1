package main

import (
	"fmt"
	"io"
	"os"

	"github.com/CageChen/webshell/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const flagForce = "force"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file.",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration, with any given flags applied.",
	Long: `Writes a configuration file to --config, or to ~/.config/webshell/config.yaml
when --config is not set. An existing file is only replaced with --force.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString(flagConfig)
		force, _ := cmd.Flags().GetBool(flagForce)
		return initConfig(path, force, cmd.Flags(), cmd.OutOrStdout())
	},
}

func init() {
	config.Flags(configInitCmd.Flags())
	configInitCmd.Flags().Bool(flagForce, false, "Overwrite an existing configuration file")
	configCmd.AddCommand(configInitCmd)
}

func initConfig(path string, force bool, flags *pflag.FlagSet, out io.Writer) error {
	cfg := config.DefaultConfigAt(path)
	if err := cfg.ApplyFlags(flags); err != nil {
		return err
	}

	target := cfg.GetConfigFilePath()
	if _, err := os.Stat(target); err == nil && !force {
		return errors.Errorf("%s already exists, use --%s to replace it", target, flagForce)
	}
	if err := cfg.Save(); err != nil {
		return errors.Wrapf(err, "writing %s", target)
	}

	fmt.Fprintf(out, "wrote %s\n", target)
	return nil
}
