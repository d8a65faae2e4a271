package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/untoldecay/Catnip/internal/rpc"
)

var fetchKind string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Stream the current state of one entity kind as JSONL",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchKind, "kind", "", "entity kind: affiliation|liver|channel|video (required)")
	_ = fetchCmd.MarkFlagRequired("kind")
}

func runFetch(cmd *cobra.Command, args []string) error {
	network, addr := clientEndpoint()
	client := rpc.NewClient(network, addr)

	enc := json.NewEncoder(os.Stdout)
	switch fetchKind {
	case "affiliation":
		return client.FetchAllAffiliations(func(m rpc.AffiliationMsg) error { return enc.Encode(m) })
	case "liver":
		return client.FetchAllLivers(func(m rpc.LiverMsg) error { return enc.Encode(m) })
	case "channel":
		return client.FetchAllChannels(func(m rpc.ChannelMsg) error { return enc.Encode(m) })
	case "video":
		return client.FetchAllVideos(func(m rpc.VideoMsg) error { return enc.Encode(m) })
	default:
		return fmt.Errorf("unknown kind %q (want affiliation|liver|channel|video)", fetchKind)
	}
}
