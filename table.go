package mdblink

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"

	"github.com/hugr-lab/mdblink-go/catalog"
	"github.com/hugr-lab/mdblink-go/mdbfile"
	"github.com/hugr-lab/mdblink-go/scan"
	"github.com/hugr-lab/mdblink-go/value"
)

// table is the provider registered with the host engine for one foreign
// table. It owns the per-query cursor lifecycle: every live cursor is
// tracked by scan ID so connection teardown or an explicit Close can
// force-close outstanding scans before the provider finalizes.
type table struct {
	reader    mdbfile.Reader
	schema    *catalog.TableSchema
	logger    *slog.Logger
	alloc     memory.Allocator
	batchSize int

	mu      sync.Mutex
	closed  bool
	cursors map[uuid.UUID]catalog.Cursor
}

func newTable(r mdbfile.Reader, schema *catalog.TableSchema, logger *slog.Logger, alloc memory.Allocator, batchSize int) *table {
	return &table{
		reader:    r,
		schema:    schema,
		logger:    logger,
		alloc:     alloc,
		batchSize: batchSize,
		cursors:   make(map[uuid.UUID]catalog.Cursor),
	}
}

// Name implements catalog.Table.
func (t *table) Name() string { return t.schema.Table }

// Schema implements catalog.Table.
func (t *table) Schema() *catalog.TableSchema { return t.schema }

// Open implements catalog.Table.
func (t *table) Open(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTableClosed
	}
	return nil
}

// BestPlan implements catalog.Table by delegating to the scan advisor.
func (t *table) BestPlan(ctx context.Context, req *catalog.ScanRequest) (*catalog.PlanHint, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, ErrTableClosed
	}
	t.mu.Unlock()
	return scan.Plan(t.reader, t.schema, req)
}

// BeginScan implements catalog.Table. The returned cursor is tracked until
// its Close, so abandoning a query never leaks reader resources: provider
// teardown closes whatever the engine left open.
func (t *table) BeginScan(ctx context.Context, req *catalog.ScanRequest) (catalog.Cursor, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrTableClosed
	}

	cur, err := scan.Open(t.reader, t.schema, req)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	tracked := &trackedCursor{Cursor: cur, id: id, owner: t}
	t.cursors[id] = tracked
	t.logger.Debug("Opened cursor", "table", t.schema.Table, "scan_id", id)
	return tracked, nil
}

// Scan implements catalog.Table: it drives a cursor to completion and
// returns the rows as Arrow record batches over the projected schema.
// The caller MUST call Release on the returned reader.
func (t *table) Scan(ctx context.Context, req *catalog.ScanRequest) (array.RecordReader, error) {
	if req == nil {
		req = &catalog.ScanRequest{}
	}

	cur, err := t.BeginScan(ctx, req)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	schema := catalog.ProjectSchema(t.schema.Arrow(), req.Columns)
	builder := array.NewRecordBuilder(t.alloc, schema)
	defer builder.Release()

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = t.batchSize
	}

	var batches []arrow.RecordBatch
	release := func() {
		for _, b := range batches {
			b.Release()
		}
	}

	inBatch := 0
	for {
		select {
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		default:
		}

		ok, err := cur.Step()
		if err != nil {
			release()
			return nil, fmt.Errorf("scan %s: %w", t.schema.Table, err)
		}
		if !ok {
			break
		}

		cells, err := cur.Current()
		if err != nil {
			release()
			return nil, fmt.Errorf("scan %s: %w", t.schema.Table, err)
		}
		for i, cell := range cells {
			if err := value.AppendTo(builder.Field(i), cell); err != nil {
				release()
				return nil, fmt.Errorf("scan %s: column %s: %w", t.schema.Table, schema.Field(i).Name, err)
			}
		}

		inBatch++
		if inBatch >= batchSize {
			batches = append(batches, builder.NewRecordBatch())
			inBatch = 0
		}
	}
	if inBatch > 0 {
		batches = append(batches, builder.NewRecordBatch())
	}

	reader, err := array.NewRecordReader(schema, batches)
	if err != nil {
		release()
		return nil, fmt.Errorf("scan %s: %w", t.schema.Table, err)
	}
	release()
	return reader, nil
}

// Close implements catalog.Table: force-closes every outstanding cursor for
// this provider, then marks it closed. Idempotent.
func (t *table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	open := make([]catalog.Cursor, 0, len(t.cursors))
	for _, c := range t.cursors {
		open = append(open, c)
	}
	t.cursors = nil
	t.mu.Unlock()

	for _, c := range open {
		if err := c.Close(); err != nil {
			t.logger.Warn("Failed to close cursor", "table", t.schema.Table, "error", err)
		}
	}
	if len(open) > 0 {
		t.logger.Debug("Force-closed outstanding cursors",
			"table", t.schema.Table,
			"count", len(open),
		)
	}
	return nil
}

func (t *table) forget(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cursors != nil {
		delete(t.cursors, id)
	}
}

// trackedCursor deregisters itself from the owning provider on Close.
type trackedCursor struct {
	catalog.Cursor
	id    uuid.UUID
	owner *table

	once sync.Once
}

func (c *trackedCursor) Close() error {
	var err error
	c.once.Do(func() {
		err = c.Cursor.Close()
		c.owner.forget(c.id)
	})
	return err
}
