package mdblink

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/mdblink-go/mdbfile"
)

// DefaultBatchSize is the Arrow record batch size used when neither the
// connection config nor the scan request specifies one.
const DefaultBatchSize = 1024

// Config configures a connection to one Access database file.
type Config struct {
	// Open is the reader capability used to open the file.
	// REQUIRED: MUST NOT be nil.
	Open mdbfile.OpenFunc

	// Tables is an optional allow-list limiting which tables get
	// registered. OPTIONAL: nil registers every user table.
	Tables []string

	// Allocator for Arrow memory management.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	Logger *slog.Logger

	// LogLevel sets the logging level for the default logger.
	// OPTIONAL: If nil, uses Info level. Ignored when Logger is provided.
	LogLevel *slog.Level

	// BatchSize is the default Arrow record batch size for Scan.
	// OPTIONAL: If 0, DefaultBatchSize is used.
	BatchSize int
}

// Standard errors returned by the mdblink package.
var (
	// ErrInvalidConfig indicates Config validation failed.
	ErrInvalidConfig = errors.New("invalid connection config")

	// ErrConnectionClosed indicates an operation on a closed connection.
	ErrConnectionClosed = errors.New("connection is closed")

	// ErrTableClosed indicates an operation on a closed table provider.
	ErrTableClosed = errors.New("table provider is closed")
)

// OpenError indicates the database file could not be opened: missing,
// unreadable, or failing the format's header validation. It is fatal to
// connection establishment and never retried internally.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

func validateConfig(cfg Config) error {
	if cfg.Open == nil {
		return fmt.Errorf("reader capability (Open) is required")
	}
	if cfg.BatchSize < 0 {
		return fmt.Errorf("batch size must not be negative")
	}
	return nil
}

func (cfg Config) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	if cfg.LogLevel != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: *cfg.LogLevel}))
	}
	return slog.Default()
}

func (cfg Config) allocator() memory.Allocator {
	if cfg.Allocator != nil {
		return cfg.Allocator
	}
	return memory.DefaultAllocator
}

func (cfg Config) batchSize() int {
	if cfg.BatchSize > 0 {
		return cfg.BatchSize
	}
	return DefaultBatchSize
}
