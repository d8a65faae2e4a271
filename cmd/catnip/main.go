// Command catnip is the reconciliation service: it ingests entity
// snapshots from collectors over the streaming RPC, reconciles them
// into SQLite, and serves the current state over a read-only HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/untoldecay/Catnip/internal/config"
	"github.com/untoldecay/Catnip/internal/rpc"
)

var rootCmd = &cobra.Command{
	Use:           "catnip",
	Short:         "VTuber data reconciliation service",
	Long:          "catnip ingests streamed entity snapshots, reconciles them against the store of record, and republishes the current state.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	config.Initialize()
	rpc.ServerVersion = Version
	rpc.ClientVersion = Version

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// clientEndpoint resolves the RPC endpoint the client commands dial.
func clientEndpoint() (network, addr string) {
	if socket := config.GetString("socket"); socket != "" {
		return "unix", socket
	}
	return "tcp", config.GetString("rpc-addr")
}
