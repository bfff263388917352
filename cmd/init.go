package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/maskd/internal/cmd"
	cmdopts "github.com/mozilla-ai/maskd/internal/cmd/options"
	"github.com/mozilla-ai/maskd/internal/config"
	"github.com/mozilla-ai/maskd/internal/flags"
)

// InitCmd writes a default configuration file.
type InitCmd struct {
	*cmd.BaseCmd
	cfgInitializer config.Initializer
}

// NewInitCmd creates a newly configured (Cobra) command.
func NewInitCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &InitCmd{
		BaseCmd:        baseCmd,
		cfgInitializer: opts.ConfigInitializer,
	}

	cobraCommand := &cobra.Command{
		Use:   "init",
		Short: "Creates a `maskd` configuration file with default settings",
		Long:  c.longDescription(),
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	return cobraCommand, nil
}

func (c *InitCmd) longDescription() string {
	return fmt.Sprintf(
		"Creates a %s configuration file holding every `maskd` setting at its default value.\n\n"+
			"An existing file is never overwritten.\n\n"+
			"The configuration file path can be overridden using the `--%s` flag or the `%s` environment variable",
		flags.DefaultConfigFile,
		flags.FlagNameConfigFile,
		flags.EnvVarConfigFile,
	)
}

func (c *InitCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	initFilePath := flags.ConfigFile

	// If the config file flag just has the default value, we're expecting to create it in the current working directory.
	if flags.ConfigFile == flags.DefaultConfigFile {
		cwd, err := os.Getwd()
		if err != nil {
			logger.Error("Failed to get working directory", "error", err)
			return fmt.Errorf("error getting current directory: %w", err)
		}
		initFilePath = filepath.Join(cwd, flags.DefaultConfigFile)
	}

	if err := c.cfgInitializer.Init(initFilePath); err != nil {
		logger.Error("Config initialization failed", "error", err)
		return fmt.Errorf("error initializing maskd config: %w", err)
	}

	logger.Info("Config file created", "path", initFilePath)
	if _, err := fmt.Fprintf(cobraCmd.OutOrStdout(), "✓ Config file created: %s\n", initFilePath); err != nil {
		return err
	}

	return nil
}
