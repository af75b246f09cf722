package usage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"lifelayer/relay/pkg/relay"
)

// RecorderConfig contains configuration for the usage recorder.
type RecorderConfig struct {
	// Buffer is the async write channel capacity (default 1000)
	Buffer int

	// WriteTimeout bounds each storage write (default 5s)
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		Buffer:       1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder accepts usage summaries from the dispatcher and writes them
// to storage asynchronously, so a slow database never delays an event
// stream. When the buffer is full the record is dropped and counted in
// a warning; usage logging is best-effort.
//
// Recorder implements relay.UsageSink.
type Recorder struct {
	storage    Storage
	config     *RecorderConfig
	recordChan chan *Record
	done       chan struct{}
	wg         sync.WaitGroup
	logger     *slog.Logger

	mu      sync.Mutex
	dropped int64
	closed  bool
}

// NewRecorder creates a recorder over the given storage backend and
// starts its background writer.
func NewRecorder(storage Storage, config *RecorderConfig) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *Record, config.Buffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "usage.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// RecordChat converts one chat usage summary into a record and enqueues
// it. It returns immediately.
func (r *Recorder) RecordChat(ctx context.Context, u relay.ChatUsage) {
	record := &Record{
		ID:         uuid.NewString(),
		Time:       time.Now().UTC(),
		SessionID:  u.SessionID,
		RequestID:  u.RequestID,
		Provider:   u.Provider,
		Model:      u.Model,
		Status:     u.Status,
		Tokens:     u.Tokens,
		DurationMS: u.Duration.Milliseconds(),
		Error:      u.Error,
	}

	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return
	}

	select {
	case r.recordChan <- record:
	default:
		r.mu.Lock()
		r.dropped++
		dropped := r.dropped
		r.mu.Unlock()

		r.logger.Warn("usage record dropped, buffer full",
			"request_id", u.RequestID,
			"total_dropped", dropped,
		)
	}
}

// Close drains pending records and stops the writer. Safe to call once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	close(r.recordChan)
	r.wg.Wait()
	close(r.done)

	return nil
}

// worker drains the record channel into storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for record := range r.recordChan {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
		if err := r.storage.Store(ctx, record); err != nil {
			r.logger.Error("failed to store usage record",
				"record_id", record.ID,
				"error", err,
			)
		}
		cancel()
	}
}
