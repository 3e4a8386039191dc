package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "patchwork",
	Short: "patchwork generates, patches and launches Minecraft instances",
	Long:  `patchwork is a tool for generating, patching and launching Minecraft instances. It provides a command line interface for managing an instance's component list and generating its launch profile.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug mode")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
