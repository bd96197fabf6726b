package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "chainrelief",
	Short: "Crypto donations settled through cross-chain swaps",
	Long: `chainrelief runs the ChainRelief donation API and offers operator commands for
inspecting the swap provider: quotes and the supported asset catalog.

Examples:
  chainrelief serve
  chainrelief quote 1 ETH to USDC
  chainrelief quote 0.01 BTC to USDC --to-network ethereum --json
  chainrelief assets --network ethereum`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

// cliLogger keeps provider warnings off the terminal unless --verbose is set.
func cliLogger(cmd *cobra.Command) *zap.Logger {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		if log, err := zap.NewDevelopment(); err == nil {
			return log
		}
	}
	return zap.NewNop()
}

func printError(err error) {
	color.Red("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
