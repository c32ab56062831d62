// Package cmd implements the command line interface for running
// rollout collection experiments and plotting their recorded data.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	saveFile string
)

// GetRootCommand returns the root command line argument parser
func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "goac",
		Short: "Batched on-policy rollout collection and advantage estimation",
	}
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s",
		"data.bin", "File to save or load recorded training data")
	// adding the subcommands here
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(PlotCommand())
	return rootCommand
}
