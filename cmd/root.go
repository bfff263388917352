package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mozilla-ai/maskd/internal/cmd"
	"github.com/mozilla-ai/maskd/internal/flags"
)

// RootCmd represents the top-level 'maskd' command.
type RootCmd struct {
	*cmd.BaseCmd
}

// Execute builds the command tree and runs it.
// Variables from a .env file in the working directory are loaded first, without overriding the environment.
func Execute() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error loading .env file: %w", err)
	}

	baseCmd := &cmd.BaseCmd{}
	defer func() { _ = baseCmd.Close() }()

	rootCmd, err := NewRootCmd(baseCmd)
	if err != nil {
		return err
	}

	return rootCmd.Execute()
}

// NewRootCmd creates the root command and registers every subcommand.
func NewRootCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	c := &RootCmd{
		BaseCmd: baseCmd,
	}

	rootCmd := &cobra.Command{
		Use:          "maskd <command> [args]",
		Short:        "'maskd' serves an HTTP API that masks sensitive client errors.",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      cmd.Version(),
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	fns := []func(*cmd.BaseCmd) (*cobra.Command, error){
		func(b *cmd.BaseCmd) (*cobra.Command, error) { return NewDaemonCmd(b) },
		func(b *cmd.BaseCmd) (*cobra.Command, error) { return NewInitCmd(b) },
		func(b *cmd.BaseCmd) (*cobra.Command, error) { return NewPolicyCmd(b) },
	}

	for _, fn := range fns {
		tempCmd, err := fn(c.BaseCmd)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(tempCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The 'maskd' CLI runs the error masking daemon and inspects its policy.

Client errors that could reveal validation rules, constraint names or business thresholds
are replaced with a generic server error before they reach the client, while the full
error is recorded in the diagnostic log.`
}
