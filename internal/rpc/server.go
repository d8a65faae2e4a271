package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/untoldecay/Catnip/internal/reconcile"
	"github.com/untoldecay/Catnip/internal/storage"
)

// ServerVersion is the version of this RPC server. The catnip command
// sets it at startup; the ping and status operations report it.
var ServerVersion = "0.0.0"

// Config carries the server's listen endpoint and tuning knobs.
type Config struct {
	// Network is "unix" or "tcp"; Addr is the socket path or host:port.
	Network string
	Addr    string

	MaxConns       int
	RequestTimeout time.Duration
	// StreamPace is the soft floor between records on fetch_all
	// streams, bounding peak downstream load.
	StreamPace time.Duration
}

// Server accepts collector connections and feeds the reconciliation
// engine. One operation per connection.
type Server struct {
	cfg     Config
	storage storage.Storage
	log     *slog.Logger

	listener     net.Listener
	mu           sync.RWMutex
	shutdown     bool
	shutdownChan chan struct{}
	stopOnce     sync.Once
	readyChan    chan struct{}
	wg           sync.WaitGroup

	startTime     time.Time
	metrics       *Metrics
	connSemaphore chan struct{}
}

// NewServer creates a new RPC server.
func NewServer(cfg Config, store storage.Storage, log *slog.Logger) *Server {
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 100
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.StreamPace <= 0 {
		cfg.StreamPace = 20 * time.Millisecond
	}
	return &Server{
		cfg:           cfg,
		storage:       store,
		log:           log,
		shutdownChan:  make(chan struct{}),
		readyChan:     make(chan struct{}),
		startTime:     time.Now(),
		metrics:       NewMetrics(),
		connSemaphore: make(chan struct{}, cfg.MaxConns),
	}
}

// WaitReady returns a channel closed once the listener is accepting.
func (s *Server) WaitReady() <-chan struct{} { return s.readyChan }

// Addr returns the bound listen address once the server is ready.
// Useful when the configured address carries port 0.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return s.cfg.Addr
	}
	return s.listener.Addr().String()
}

// Start listens and serves until Stop is called or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.Network == "unix" {
		// Remove a stale socket from an unclean shutdown.
		_ = os.Remove(s.cfg.Addr)
	}
	ln, err := net.Listen(s.cfg.Network, s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s %s: %w", s.cfg.Network, s.cfg.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	close(s.readyChan)
	s.log.Info("ingest server listening", "network", s.cfg.Network, "addr", s.cfg.Addr)

	go func() {
		select {
		case <-ctx.Done():
			_ = s.Stop()
		case <-s.shutdownChan:
		}
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isShutdown() {
				s.wg.Wait()
				return nil
			}
			s.log.Error("accept failed", "error", err)
			return err
		}

		select {
		case s.connSemaphore <- struct{}{}:
		case <-s.shutdownChan:
			_ = conn.Close()
			s.wg.Wait()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() { <-s.connSemaphore }()
			s.handleConnection(ctx, conn)
		}()
	}
}

// Stop shuts the server down and waits for in-flight connections.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.shutdown = true
		ln := s.listener
		s.mu.Unlock()
		close(s.shutdownChan)
		if ln != nil {
			_ = ln.Close()
		}
		if s.cfg.Network == "unix" {
			_ = os.Remove(s.cfg.Addr)
		}
	})
	s.wg.Wait()
	return nil
}

func (s *Server) isShutdown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shutdown
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return
	}
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		writeJSONLine(conn, Response{Success: false, Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	s.metrics.RecordRequest(req.Operation)

	switch req.Operation {
	case OpPing:
		data, _ := json.Marshal(map[string]string{"version": ServerVersion})
		writeJSONLine(conn, Response{Success: true, Data: data})

	case OpStatus:
		data, _ := json.Marshal(StatusInfo{
			Version:      ServerVersion,
			UptimeSecs:   int64(time.Since(s.startTime).Seconds()),
			DatabasePath: s.storage.Path(),
			Requests:     s.metrics.Total(),
		})
		writeJSONLine(conn, Response{Success: true, Data: data})

	case OpIngestAffiliations:
		ingestStream(ctx, s, conn, reader, affiliationFromMsg, reconcile.Affiliations)
	case OpIngestLivers:
		ingestStream(ctx, s, conn, reader, liverFromMsg, reconcile.Livers)
	case OpIngestChannels:
		ingestStream(ctx, s, conn, reader, channelFromMsg, reconcile.Channels)
	case OpIngestVideos:
		ingestStream(ctx, s, conn, reader, videoFromMsg, reconcile.Videos)

	case OpFetchAllAffiliations:
		streamAll(ctx, s, conn, s.storage.Affiliations().FetchAll, msgFromAffiliation)
	case OpFetchAllLivers:
		streamAll(ctx, s, conn, s.storage.Livers().FetchAll, msgFromLiver)
	case OpFetchAllChannels:
		streamAll(ctx, s, conn, s.storage.Channels().FetchAll, msgFromChannel)
	case OpFetchAllVideos:
		streamAll(ctx, s, conn, s.storage.Videos().FetchAll, msgFromVideo)

	default:
		writeJSONLine(conn, Response{Success: false, Error: fmt.Sprintf("unknown operation: %s", req.Operation)})
	}
}

// named is the logging handle every entity record carries.
type named interface {
	PrimaryName() string
	SecondaryName() string
}

// ingestStream drains the client stream into an in-memory queue in
// arrival order, then reconciles the whole queue under one
// transaction. A client abort before the done marker abandons the
// batch without touching the store.
func ingestStream[M any, T named](
	ctx context.Context,
	s *Server,
	conn net.Conn,
	reader *bufio.Reader,
	conv func(M) (T, bool),
	driver func(storage.Transaction) reconcile.Driver[T],
) {
	start := time.Now()
	var items []reconcile.Item[T]
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Warn("ingest stream aborted", "error", err, "received", len(items))
			} else {
				s.log.Warn("ingest stream closed before done marker", "received", len(items))
			}
			return
		}
		var item StreamItem
		if err := json.Unmarshal(line, &item); err != nil {
			writeJSONLine(conn, Response{Success: false, Error: fmt.Sprintf("invalid stream item %d: %v", len(items), err)})
			return
		}
		if item.Done {
			break
		}
		var msg M
		if err := json.Unmarshal(item.Record, &msg); err != nil {
			writeJSONLine(conn, Response{Success: false, Error: fmt.Sprintf("invalid record %d: %v", len(items), err)})
			return
		}
		rec, tombstone := conv(msg)
		s.log.Info("receive", "name", rec.PrimaryName(), "key", rec.SecondaryName(), "tombstone", tombstone)
		items = append(items, reconcile.Item[T]{Record: rec, Tombstone: tombstone})
	}
	receiveElapsed := time.Since(start).Milliseconds()

	txCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	start = time.Now()
	var sum *reconcile.Summary
	err := s.storage.RunInTransaction(txCtx, func(tx storage.Transaction) error {
		var runErr error
		sum, runErr = reconcile.Run(txCtx, s.log, driver(tx), items)
		return runErr
	})
	if err != nil {
		s.log.Error("batch failed", "error", err)
		writeJSONLine(conn, Response{Success: false, Error: err.Error()})
		return
	}
	sum.ReceiveElapsedMS = receiveElapsed
	sum.TransactionElapsedMS = time.Since(start).Milliseconds()
	s.log.Info("transaction complete",
		"received", sum.Received, "inserted", sum.Inserted, "updated", sum.Updated,
		"deleted", sum.Deleted, "skipped", sum.Skipped, "elapsed_ms", sum.TransactionElapsedMS)

	data, _ := json.Marshal(sum)
	writeJSONLine(conn, Response{Success: true, Data: data})
}

// streamAll projects a repository fetch over the egress stream, paced
// so a slow consumer is never flooded. A failed write means the
// consumer is gone; the producer exits cleanly.
func streamAll[M any, T any](
	ctx context.Context,
	s *Server,
	conn net.Conn,
	fetch func(context.Context) ([]T, error),
	conv func(T) M,
) {
	recs, err := fetch(ctx)
	if err != nil {
		writeJSONLine(conn, StreamItem{Error: err.Error()})
		return
	}
	for _, rec := range recs {
		data, err := json.Marshal(conv(rec))
		if err != nil {
			writeJSONLine(conn, StreamItem{Error: err.Error()})
			return
		}
		if !writeJSONLine(conn, StreamItem{Record: data}) {
			return
		}
		select {
		case <-time.After(s.cfg.StreamPace):
		case <-ctx.Done():
			return
		}
	}
	writeJSONLine(conn, StreamItem{Done: true})
}

func writeJSONLine(conn net.Conn, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	_, err = conn.Write(append(data, '\n'))
	return err == nil
}
