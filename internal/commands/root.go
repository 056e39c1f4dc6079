package commands

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand creates the root command with the shared flag set.
// Flags can also be set through SEALFLOW_* environment variables.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "sealflow [flags] command [flags]",
		Short: "Chunked streaming file encryption utility",
		Long: `A file encryption utility built on chunked authenticated encryption.
Files of any size are processed in fixed-size chunks, each sealed and
verified independently, so nothing larger than one chunk is ever held
in memory.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			viper.SetEnvPrefix("SEALFLOW")
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			viper.AutomaticEnv()

			return viper.BindPFlags(cmd.Root().PersistentFlags())
		},
	}

	flags := root.PersistentFlags()

	flags.StringP("key", "k", "", "Master key (hex-encoded)")
	flags.StringP("key-file", "f", "", "Path to a file holding the hex-encoded master key")
	flags.StringP("algorithm", "a", "xchacha20-poly1305",
		"AEAD algorithm: aes256-gcm, chacha20-poly1305, xchacha20-poly1305")
	flags.Int("chunk-size", 64*1024, "Plaintext bytes per encrypted chunk")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.BoolP("delete", "d", false, "Delete the original file after successful processing")
	flags.Bool("stats", false, "Print processing statistics")
	flags.Bool("preserve-timestamps", false, "Carry the source modification time over to the output")

	flags.String("encrypt-ext", ".sealed", "Suffix to append to encrypted files")
	flags.String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	flags.StringSlice("include", nil, "Include patterns applied while walking directories")
	flags.StringSlice("exclude", nil, "Exclude patterns applied while walking directories")
	flags.String("include-from", "", "JSONC file with include patterns")
	flags.String("exclude-from", "", "JSONC file with exclude patterns")

	root.AddCommand(NewEncryptCommand(), NewDecryptCommand(), NewKeygenCommand())

	return root
}
