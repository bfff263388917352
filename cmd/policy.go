package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/maskd/internal/cmd"
	cmdopts "github.com/mozilla-ai/maskd/internal/cmd/options"
	"github.com/mozilla-ai/maskd/internal/masking"
	"github.com/mozilla-ai/maskd/internal/printer"
)

// PolicyCmd prints how the masking classifier treats status codes.
type PolicyCmd struct {
	*cmd.BaseCmd
	Format cmd.OutputFormat
}

// NewPolicyCmd creates a newly configured (Cobra) command.
func NewPolicyCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	if _, err := cmdopts.NewOptions(opt...); err != nil {
		return nil, err
	}

	c := &PolicyCmd{
		BaseCmd: baseCmd,
		Format:  cmd.FormatText,
	}

	cobraCommand := &cobra.Command{
		Use:   "policy [status...]",
		Short: "Shows whether errors with each status code are masked or passed through",
		Long: "Shows the disposition the masking classifier assigns to a structured error with each status code.\n\n" +
			"'mask' replaces the error with a generic 500, 'passthrough' sends it unchanged and " +
			"'opaque-rethrow' forwards a status code the classifier does not recognize.\n\n" +
			"Without arguments a set of common status codes is shown.",
		RunE: c.run,
	}

	allowed := cmd.AllowedOutputFormats()
	cobraCommand.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCommand, nil
}

func (c *PolicyCmd) run(cobraCmd *cobra.Command, args []string) error {
	handler, err := cmd.NewHandler[masking.PolicyEntry](c.Format, cobraCmd.OutOrStdout(), printer.NewPolicyPrinter())
	if err != nil {
		return err
	}

	statuses, err := parseStatuses(args)
	if err != nil {
		return handler.HandleError(err)
	}

	entries := make([]masking.PolicyEntry, 0, len(statuses))
	for _, status := range statuses {
		entries = append(entries, masking.Describe(status))
	}

	return handler.HandleResults(entries...)
}

// parseStatuses converts arguments to status codes, defaulting to the common set when none are given.
func parseStatuses(args []string) ([]int, error) {
	if len(args) == 0 {
		return masking.DefaultPolicyStatuses(), nil
	}

	statuses := make([]int, 0, len(args))
	for _, arg := range args {
		status, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || status < 100 || status > 999 {
			return nil, fmt.Errorf("invalid status code: %s", arg)
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}
