package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the catnip release version.
const Version = "0.2.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the catnip version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("catnip %s\n", Version)
	},
}
