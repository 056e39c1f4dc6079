package commands

import (
	"github.com/spf13/cobra"

	"github.com/ShaoG-R/seal-flow/internal/logic"
)

// NewDecryptCommand creates the decrypt subcommand.
func NewDecryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] paths...",
		Aliases: []string{"dec"},
		Short:   "Decrypt files",
		Args:    cobra.MinimumNArgs(1),
		RunE:    runE(true, logic.Run),
	}
}
