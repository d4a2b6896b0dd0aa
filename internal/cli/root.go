package cli

import (
	"github.com/spf13/cobra"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the root command loads the .env file, reads
// the config file and attaches the logger to the command context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "fontnode renders Google Fonts text into image and mask tensors",
		Long:         `fontnode renders text in any Google Fonts family with a headless browser and packages the result as an RGB image tensor plus an alpha mask, for use as nodes in image-generation workflows.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default ~/.config/fontnode/config.toml)")
	root.PersistentFlags().StringVar(&c.envDir, "env-dir", c.envDir, "directory holding the .env file")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.nodesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the environment and configuration for cmd.
func (c *CLI) setup(cmd *cobra.Command) error {
	created, err := loadEnv(c.envDir)
	if err != nil {
		return err
	}
	if created {
		c.Logger.Info("Created .env from .env.example; set " + envAPIKey + " to load the full catalog")
	}

	path := c.configFile
	if path == "" {
		if path, err = configPath(); err != nil {
			c.Logger.Debug("No config directory", "error", err)
		}
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("Loaded configuration", "path", path, "cache", cfg.Cache.Backend)

	registerLogHooks(c.Logger)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
