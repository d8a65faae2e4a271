package rpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/untoldecay/Catnip/internal/debug"
	"github.com/untoldecay/Catnip/internal/reconcile"
)

// ClientVersion is the version of this RPC client. It is set at
// startup and sent with every request; the server does not inspect it.
var ClientVersion = "0.0.0"

// Client talks the ingestion protocol. Each operation opens its own
// connection; the client itself only holds the endpoint.
type Client struct {
	network string
	addr    string
	timeout time.Duration
}

// NewClient returns a client for the given endpoint. network is "unix"
// or "tcp".
func NewClient(network, addr string) *Client {
	return &Client{network: network, addr: addr, timeout: 30 * time.Second}
}

// SetTimeout overrides the per-operation dial and I/O timeout.
func (c *Client) SetTimeout(d time.Duration) { c.timeout = d }

func (c *Client) dial() (net.Conn, error) {
	conn, err := net.DialTimeout(c.network, c.addr, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s %s: %w", c.network, c.addr, err)
	}
	_ = conn.SetDeadline(time.Now().Add(c.timeout))
	return conn, nil
}

func (c *Client) sendRequest(conn net.Conn, op string) error {
	req := Request{Operation: op, ClientVersion: ClientVersion}
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	debug.Logf("rpc request: %s", string(data))
	_, err = conn.Write(append(data, '\n'))
	return err
}

func readResponse(reader *bufio.Reader) (*Response, error) {
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	return &resp, nil
}

// Ping checks the server is alive and returns its version.
func (c *Client) Ping() (string, error) {
	conn, err := c.dial()
	if err != nil {
		return "", err
	}
	defer func() { _ = conn.Close() }()

	if err := c.sendRequest(conn, OpPing); err != nil {
		return "", err
	}
	resp, err := readResponse(bufio.NewReader(conn))
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", fmt.Errorf("ping failed: %s", resp.Error)
	}
	var data map[string]string
	_ = json.Unmarshal(resp.Data, &data)
	return data["version"], nil
}

// Status returns the server status payload.
func (c *Client) Status() (*StatusInfo, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	if err := c.sendRequest(conn, OpStatus); err != nil {
		return nil, err
	}
	resp, err := readResponse(bufio.NewReader(conn))
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("status failed: %s", resp.Error)
	}
	var info StatusInfo
	if err := json.Unmarshal(resp.Data, &info); err != nil {
		return nil, fmt.Errorf("invalid status payload: %w", err)
	}
	return &info, nil
}

// IngestAffiliations streams affiliation snapshots and returns the
// batch summary.
func (c *Client) IngestAffiliations(msgs []AffiliationMsg) (*reconcile.Summary, error) {
	return ingest(c, OpIngestAffiliations, msgs)
}

// IngestLivers streams liver snapshots and returns the batch summary.
func (c *Client) IngestLivers(msgs []LiverMsg) (*reconcile.Summary, error) {
	return ingest(c, OpIngestLivers, msgs)
}

// IngestChannels streams channel snapshots and returns the batch
// summary.
func (c *Client) IngestChannels(msgs []ChannelMsg) (*reconcile.Summary, error) {
	return ingest(c, OpIngestChannels, msgs)
}

// IngestVideos streams video snapshots and returns the batch summary.
func (c *Client) IngestVideos(msgs []VideoMsg) (*reconcile.Summary, error) {
	return ingest(c, OpIngestVideos, msgs)
}

// FetchAllAffiliations consumes the server stream, calling fn per
// record.
func (c *Client) FetchAllAffiliations(fn func(AffiliationMsg) error) error {
	return fetchAll(c, OpFetchAllAffiliations, fn)
}

// FetchAllLivers consumes the server stream, calling fn per record.
func (c *Client) FetchAllLivers(fn func(LiverMsg) error) error {
	return fetchAll(c, OpFetchAllLivers, fn)
}

// FetchAllChannels consumes the server stream, calling fn per record.
func (c *Client) FetchAllChannels(fn func(ChannelMsg) error) error {
	return fetchAll(c, OpFetchAllChannels, fn)
}

// FetchAllVideos consumes the server stream, calling fn per record.
func (c *Client) FetchAllVideos(fn func(VideoMsg) error) error {
	return fetchAll(c, OpFetchAllVideos, fn)
}

func ingest[M any](c *Client, op string, msgs []M) (*reconcile.Summary, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	if err := c.sendRequest(conn, op); err != nil {
		return nil, err
	}
	writer := bufio.NewWriter(conn)
	for i, msg := range msgs {
		record, err := json.Marshal(msg)
		if err != nil {
			return nil, fmt.Errorf("failed to encode record %d: %w", i, err)
		}
		item, err := json.Marshal(StreamItem{Record: record})
		if err != nil {
			return nil, err
		}
		if _, err := writer.Write(append(item, '\n')); err != nil {
			return nil, fmt.Errorf("failed to send record %d: %w", i, err)
		}
	}
	done, _ := json.Marshal(StreamItem{Done: true})
	if _, err := writer.Write(append(done, '\n')); err != nil {
		return nil, fmt.Errorf("failed to finish stream: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush stream: %w", err)
	}

	resp, err := readResponse(bufio.NewReader(conn))
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%s failed: %s", op, resp.Error)
	}
	var sum reconcile.Summary
	if err := json.Unmarshal(resp.Data, &sum); err != nil {
		return nil, fmt.Errorf("invalid summary payload: %w", err)
	}
	return &sum, nil
}

func fetchAll[M any](c *Client, op string, fn func(M) error) error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if err := c.sendRequest(conn, op); err != nil {
		return err
	}
	reader := bufio.NewReader(conn)
	for {
		// Streams are paced server-side; keep the deadline moving.
		_ = conn.SetReadDeadline(time.Now().Add(c.timeout))
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return fmt.Errorf("stream read failed: %w", err)
		}
		var item StreamItem
		if err := json.Unmarshal(line, &item); err != nil {
			return fmt.Errorf("invalid stream item: %w", err)
		}
		if item.Error != "" {
			return fmt.Errorf("%s failed: %s", op, item.Error)
		}
		if item.Done {
			return nil
		}
		var msg M
		if err := json.Unmarshal(item.Record, &msg); err != nil {
			return fmt.Errorf("invalid record: %w", err)
		}
		if err := fn(msg); err != nil {
			return err
		}
	}
}
