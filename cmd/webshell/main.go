// Package main is the entry point for the webshell server and local terminal.
package main

import (
	"os"

	"github.com/CageChen/webshell/internal/config"
	"github.com/CageChen/webshell/internal/source"
	"github.com/CageChen/webshell/internal/store"
	"github.com/CageChen/webshell/internal/vfs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
)

var log = logrus.NewEntry(logrus.StandardLogger())

var rootCmd = &cobra.Command{
	Use:           "webshell",
	Short:         "A toy shell over a virtual file tree, served as a web page.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})

		level, _ := cmd.Flags().GetString(flagLogLevel)
		if level == "" {
			return nil
		}
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		logrus.SetLevel(lvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String(flagConfig, "", "Configuration file path")
	rootCmd.PersistentFlags().String(flagLogLevel, "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, replCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("webshell failed")
		os.Exit(1)
	}
}

// loadConfig reads the config file and overlays the command's flags. The
// config's log level applies unless --log-level was given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString(flagConfig)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	if !cmd.Flags().Changed(flagLogLevel) && cfg.LogLevel != "" {
		lvl, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		logrus.SetLevel(lvl)
	}
	return cfg, nil
}

// loadTree builds the configured source and its first tree.
func loadTree(cfg *config.Config) (source.Source, *vfs.Directory, error) {
	src, err := source.New(cfg.SourceOptions())
	if err != nil {
		return nil, nil, err
	}
	root, err := src.Load()
	if err != nil {
		return nil, nil, err
	}
	return src, root, nil
}

func openStore(cfg *config.Config) (store.KV, error) {
	if cfg.SessionStore == "" {
		return store.NewMemory(), nil
	}
	return store.OpenYAMLFile(cfg.SessionStore)
}
