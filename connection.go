package mdblink

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/hugr-lab/mdblink-go/catalog"
	"github.com/hugr-lab/mdblink-go/mdbfile"
)

// Registry is the minimal engine-session surface the facade registers
// providers with. Host engines adapt their pluggable-table mechanism to
// this interface.
type Registry interface {
	// RegisterTable makes a table provider visible under its name.
	RegisterTable(ctx context.Context, t catalog.Table) error

	// UnregisterTable removes a previously registered provider.
	UnregisterTable(ctx context.Context, name string) error
}

// RegisterReport summarizes one RegisterAll pass. A table whose schema could
// not be read is reported in Failed and does not block its siblings.
type RegisterReport struct {
	// Registered lists the table names now visible to the engine.
	Registered []string

	// Failed maps table names to the per-table error (*catalog.SchemaError
	// or the registry's rejection).
	Failed map[string]error
}

// Connection owns one open database file: the reader handle, the providers
// built over it, and their registrations. All derived schemas and cursors
// live inside the connection's lifetime; Close finalizes them before
// releasing the reader.
//
// The reader is assumed non-reentrant. Connection bookkeeping is
// mutex-guarded so teardown may race queries safely, but callers needing
// concurrent query execution open independent connections.
type Connection struct {
	path   string
	reader mdbfile.Reader
	cfg    Config
	logger *slog.Logger

	mu         sync.Mutex
	closed     bool
	providers  []*table
	registry   Registry
	registered []string
}

// Connect opens the database file and validates its header through the
// reader capability. Fails with *OpenError on a missing, unreadable, or
// invalid file; such failures are permanent and not retried.
func Connect(path string, cfg Config) (*Connection, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	reader, err := cfg.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	logger := cfg.logger()
	logger.Debug("Opened database file", "path", path)

	return &Connection{
		path:   path,
		reader: reader,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Tables enumerates the user tables visible through this connection,
// honoring the configured allow-list.
func (c *Connection) Tables() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrConnectionClosed
	}
	return c.tableNames()
}

func (c *Connection) tableNames() ([]string, error) {
	names, err := catalog.ListTables(c.reader)
	if err != nil {
		return nil, err
	}
	if len(c.cfg.Tables) == 0 {
		return names, nil
	}
	var out []string
	for _, name := range names {
		if slices.Contains(c.cfg.Tables, name) {
			out = append(out, name)
		}
	}
	return out, nil
}

// RegisterAll builds one table provider per visible table and registers each
// with the engine session. A table with an unreadable definition is skipped
// and reported per-table; the remaining tables still register and are
// queryable. The connection remembers the registrations and undoes them on
// Close.
func (c *Connection) RegisterAll(ctx context.Context, reg Registry) (*RegisterReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrConnectionClosed
	}

	names, err := c.tableNames()
	if err != nil {
		return nil, err
	}

	report := &RegisterReport{Failed: make(map[string]error)}
	for _, name := range names {
		schema, err := catalog.Describe(c.reader, name)
		if err != nil {
			c.logger.Warn("Skipping table with unreadable schema",
				"path", c.path,
				"table", name,
				"error", err,
			)
			report.Failed[name] = err
			continue
		}

		t := newTable(c.reader, schema, c.logger, c.cfg.allocator(), c.cfg.batchSize())
		if err := reg.RegisterTable(ctx, t); err != nil {
			report.Failed[name] = fmt.Errorf("register table %q: %w", name, err)
			t.Close()
			continue
		}

		c.providers = append(c.providers, t)
		c.registered = append(c.registered, name)
		report.Registered = append(report.Registered, name)
	}

	c.registry = reg
	c.logger.Info("Registered table providers",
		"path", c.path,
		"registered", len(report.Registered),
		"failed", len(report.Failed),
	)
	return report, nil
}

// Snapshot serializes the connection's translated catalog as a compressed
// payload engine sessions can cache. Tables with unreadable schemas are
// omitted, matching RegisterAll.
func (c *Connection) Snapshot(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrConnectionClosed
	}

	names, err := c.tableNames()
	if err != nil {
		return nil, err
	}
	var schemas []*catalog.TableSchema
	for _, name := range names {
		schema, err := catalog.Describe(c.reader, name)
		if err != nil {
			c.logger.Warn("Omitting table from snapshot", "table", name, "error", err)
			continue
		}
		schemas = append(schemas, schema)
	}
	return catalog.NewSnapshot(schemas).Marshal()
}

// Close unregisters every provider (force-closing their outstanding
// cursors) and then releases the reader handle. Idempotent.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	ctx := context.Background()
	for _, name := range c.registered {
		if err := c.registry.UnregisterTable(ctx, name); err != nil {
			c.logger.Warn("Failed to unregister table", "table", name, "error", err)
		}
	}
	for _, t := range c.providers {
		if err := t.Close(); err != nil {
			c.logger.Warn("Failed to close table provider", "table", t.Name(), "error", err)
		}
	}
	c.providers = nil
	c.registered = nil
	c.registry = nil

	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("close reader for %s: %w", c.path, err)
	}
	c.logger.Debug("Closed database file", "path", c.path)
	return nil
}
