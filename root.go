package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mrdg/vizzy/config"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(*c.configFlag))
		c.config, c.configPath, c.configErr = cfg, path, err
	})
	return c.config, c.configErr
}

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := &commandContext{configFlag: &configFlag}

	rootCmd := &cobra.Command{
		Use:           "vizzy",
		Short:         "MIDI-reactive envelope engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default ~/.config/vizzy/config.toml)")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newPortsCommand())
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	return rootCmd
}
