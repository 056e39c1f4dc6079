// Package commands provides the command-line interface for the sealflow tool.
//
// It implements commands for:
//   - key generation
//   - encryption
//   - decryption
//
// Command-line parsing, configuration validation, and environment variable
// binding are handled through cobra and viper.
package commands
