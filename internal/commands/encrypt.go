package commands

import (
	"github.com/spf13/cobra"

	"github.com/ShaoG-R/seal-flow/internal/logic"
)

// NewEncryptCommand creates the encrypt subcommand.
func NewEncryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags] paths...",
		Aliases: []string{"enc"},
		Short:   "Encrypt files",
		Args:    cobra.MinimumNArgs(1),
		RunE:    runE(false, logic.Run),
	}
}
