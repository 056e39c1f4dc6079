package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ShaoG-R/seal-flow/pkg/aead"
)

// NewKeygenCommand creates the keygen subcommand, printing a fresh
// hex-encoded master key sized for the selected algorithm.
func NewKeygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "keygen",
		Aliases: []string{"gen"},
		Short:   "Generate a new master key",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			algorithm, err := aead.ParseAlgorithm(viper.GetString("algorithm"))
			if err != nil {
				return err
			}

			key := make([]byte, algorithm.KeySize())
			if _, err := rand.Read(key); err != nil {
				return fmt.Errorf("generating key: %w", err)
			}

			fmt.Println(hex.EncodeToString(key)) //nolint:forbidigo

			return nil
		},
	}
}
