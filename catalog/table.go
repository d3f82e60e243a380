package catalog

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/hugr-lab/mdblink-go/value"
)

// Cursor is a single, stateful iteration over one table's rows for one
// query execution. A cursor is exclusively owned by the query that opened
// it and is never shared across scans.
//
// The state machine is Unpositioned -> Positioned(i) -> ... -> Exhausted.
// Step advances one physical row and reports whether a row is available;
// Current is valid only while positioned. Close releases scan resources
// from any state and is idempotent.
type Cursor interface {
	// Step advances to the next row that passes the pushed-down
	// predicates. It returns false once no rows remain. A decode failure
	// leaves the cursor positioned on the failing row and returns the
	// error; the caller decides whether to Step past it or abort.
	Step() (bool, error)

	// Current returns the projected cells of the current row. Calling it
	// on an unpositioned, exhausted, or closed cursor is a contract
	// violation and fails with a *scan.CursorStateError.
	Current() ([]value.Value, error)

	// Close releases the cursor's resources. Safe from any state,
	// idempotent, and required on every exit path including cancellation.
	Close() error
}

// Table is the provider contract one registered table implements for the
// host engine: open, plan, scan, close. Implementations MUST be safe for
// concurrent bookkeeping calls (Close racing BeginScan), but row access
// serializes through the connection's single reader.
type Table interface {
	// Name returns the table name under which the provider is registered.
	Name() string

	// Schema returns the immutable schema snapshot taken at registration.
	Schema() *TableSchema

	// Open prepares the provider for use. It fails if the provider or its
	// connection has been closed.
	Open(ctx context.Context) error

	// BestPlan negotiates how a scan with the given request would execute.
	BestPlan(ctx context.Context, req *ScanRequest) (*PlanHint, error)

	// BeginScan opens a cursor for the request. Each call returns an
	// independent cursor with its own position. The provider tracks live
	// cursors and force-closes them when it is closed.
	BeginScan(ctx context.Context, req *ScanRequest) (Cursor, error)

	// Scan executes the request and streams the result as Arrow record
	// batches. The reader's schema is the projected table schema. The
	// caller MUST call Release on the returned reader.
	Scan(ctx context.Context, req *ScanRequest) (array.RecordReader, error)

	// Close force-closes outstanding cursors and detaches the provider.
	// Idempotent.
	Close() error
}
