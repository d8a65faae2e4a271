package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/untoldecay/Catnip/internal/reconcile"
	"github.com/untoldecay/Catnip/internal/rpc"
)

var pushKind string

var pushCmd = &cobra.Command{
	Use:   "push <file.jsonl>",
	Short: "Stream a JSONL file of snapshots to a running server",
	Long: `Reads one wire record per line from the given JSONL file and streams
the whole file as a single ingest batch. The batch summary is printed
as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runPush,
}

func init() {
	pushCmd.Flags().StringVar(&pushKind, "kind", "", "entity kind: affiliation|liver|channel|video (required)")
	_ = pushCmd.MarkFlagRequired("kind")
}

func runPush(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	network, addr := clientEndpoint()
	client := rpc.NewClient(network, addr)

	var sum *reconcile.Summary
	switch pushKind {
	case "affiliation":
		msgs, err := decodeLines[rpc.AffiliationMsg](file)
		if err != nil {
			return err
		}
		sum, err = client.IngestAffiliations(msgs)
		if err != nil {
			return err
		}
	case "liver":
		msgs, err := decodeLines[rpc.LiverMsg](file)
		if err != nil {
			return err
		}
		sum, err = client.IngestLivers(msgs)
		if err != nil {
			return err
		}
	case "channel":
		msgs, err := decodeLines[rpc.ChannelMsg](file)
		if err != nil {
			return err
		}
		sum, err = client.IngestChannels(msgs)
		if err != nil {
			return err
		}
	case "video":
		msgs, err := decodeLines[rpc.VideoMsg](file)
		if err != nil {
			return err
		}
		sum, err = client.IngestVideos(msgs)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown kind %q (want affiliation|liver|channel|video)", pushKind)
	}

	fmt.Println(sum.Message())
	return nil
}

func decodeLines[M any](file *os.File) ([]M, error) {
	var msgs []M
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var msg M
		if err := json.Unmarshal(line, &msg); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, scanner.Err()
}
