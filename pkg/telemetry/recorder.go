// Package telemetry records per-query search telemetry to Parquet files for
// offline relevance analysis. Recording is best-effort: a failed flush is
// logged and never fails the search that produced the record.
package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
)

// SearchRecord is one row of search telemetry.
type SearchRecord struct {
	QueryID             string    `parquet:"query_id"`
	Timestamp           time.Time `parquet:"timestamp"`
	QueryText           string    `parquet:"query_text"`
	TopK                int       `parquet:"top_k"`
	GraphBoost          bool      `parquet:"graph_boost"`
	CandidatesRetrieved int       `parquet:"candidates_retrieved"`
	ResultsReturned     int       `parquet:"results_returned"`
	GraphDegraded       bool      `parquet:"graph_degraded"`
	TopCombinedScore    float64   `parquet:"top_combined_score"`
	TookMillis          int64     `parquet:"took_millis"`
	Warnings            string    `parquet:"warnings"` // semicolon-joined
}

// Recorder buffers search records and writes them to timestamped Parquet
// files. Safe for concurrent use.
type Recorder struct {
	outputDir string
	batchSize int
	logger    *slog.Logger

	mu     sync.Mutex
	buffer []SearchRecord
	closed bool
}

// NewRecorder creates a Recorder writing under outputDir, creating the
// directory if needed.
func NewRecorder(outputDir string, logger *slog.Logger) (*Recorder, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("telemetry output directory is required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Recorder{
		outputDir: outputDir,
		batchSize: 100,
		logger:    logger,
		buffer:    make([]SearchRecord, 0, 100),
	}, nil
}

// NewQueryID returns a fresh query identifier.
func NewQueryID() string {
	return uuid.New().String()
}

// Record buffers one search record, flushing when the batch fills. A flush
// failure is logged, not returned; telemetry must not fail searches.
func (r *Recorder) Record(record SearchRecord) {
	if record.QueryID == "" {
		record.QueryID = NewQueryID()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.buffer = append(r.buffer, record)
	if len(r.buffer) >= r.batchSize {
		if err := r.flush(); err != nil {
			r.logger.Warn("failed to flush search telemetry", "error", err)
		}
	}
}

// Flush writes any buffered records to a new Parquet file.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flush()
}

// Close flushes remaining records and stops accepting new ones.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.flush()
}

// flush writes the current buffer. Caller must hold the lock.
func (r *Recorder) flush() error {
	if len(r.buffer) == 0 {
		return nil
	}

	filename := fmt.Sprintf("searches_%s_%d.parquet", time.Now().Format("20060102_150405"), time.Now().UnixNano())
	path := filepath.Join(r.outputDir, filename)

	if err := parquet.WriteFile(path, r.buffer); err != nil {
		return fmt.Errorf("failed to write telemetry parquet file: %w", err)
	}

	r.buffer = r.buffer[:0]
	return nil
}

// JoinWarnings flattens diagnostic warnings for the Parquet row.
func JoinWarnings(warnings []string) string {
	return strings.Join(warnings, "; ")
}
