// Package scan implements row iteration and plan negotiation over one
// Access table: the cursor state machine driving the foreign reader and the
// advisor that answers the engine's pushdown negotiation.
package scan

import (
	"errors"
	"fmt"
	"math"

	"github.com/hugr-lab/mdblink-go/catalog"
	"github.com/hugr-lab/mdblink-go/mdbfile"
	"github.com/hugr-lab/mdblink-go/value"
)

// State is the cursor lifecycle state.
type State uint8

const (
	// Unpositioned is the state after Open, before the first Step.
	Unpositioned State = iota
	// Positioned means Current() is valid for the row reached by Step.
	Positioned
	// Exhausted means Step has run past the last row.
	Exhausted
	// Closed means Close has been called.
	Closed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unpositioned:
		return "unpositioned"
	case Positioned:
		return "positioned"
	case Exhausted:
		return "exhausted"
	case Closed:
		return "closed"
	default:
		return "invalid"
	}
}

// CursorStateError reports a contract violation: an operation invoked in a
// state that does not permit it. It marks a programming error in the caller
// and is never retried.
type CursorStateError struct {
	Op    string
	State State
}

func (e *CursorStateError) Error() string {
	return fmt.Sprintf("cursor: %s called in %s state", e.Op, e.State)
}

// ErrUnknownColumn is returned by Open when the request names a column the
// table does not have.
var ErrUnknownColumn = errors.New("unknown column")

// pushed is a pushdown constraint resolved against the physical schema.
type pushed struct {
	col catalog.ColumnDescriptor
	idx int
	op  catalog.CompareOp
	val value.Value
}

// Cursor iterates one table's rows for one scan. It is exclusively owned by
// the query execution that opened it; concurrent scans each open their own.
type Cursor struct {
	r      mdbfile.Reader
	schema *catalog.TableSchema

	proj   []int // physical indices of projected columns, in result order
	pushed []pushed
	limit  int64

	state    State
	pos      int64
	produced int64
	raw      mdbfile.RawRow
	cells    []value.Value // lazy decode cache, aligned with proj
	decoded  []bool
}

// Open creates an unpositioned cursor for the request. The pushed-down
// predicate set is the same subset BestPlan reports as pushable; constraints
// outside it are ignored here and re-checked by the engine.
func Open(r mdbfile.Reader, schema *catalog.TableSchema, req *catalog.ScanRequest) (*Cursor, error) {
	c := &Cursor{
		r:      r,
		schema: schema,
		state:  Unpositioned,
		pos:    -1,
	}

	if req == nil {
		req = &catalog.ScanRequest{}
	}
	c.limit = req.Limit

	if len(req.Columns) == 0 {
		c.proj = make([]int, len(schema.Columns))
		for i := range schema.Columns {
			c.proj[i] = i
		}
	} else {
		c.proj = make([]int, len(req.Columns))
		for i, name := range req.Columns {
			idx := schema.ColumnIndex(name)
			if idx < 0 {
				return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, schema.Table, name)
			}
			c.proj[i] = idx
		}
	}

	for _, con := range pushableConstraints(schema, req.Constraints) {
		idx := schema.ColumnIndex(con.Column)
		c.pushed = append(c.pushed, pushed{
			col: schema.Columns[idx],
			idx: idx,
			op:  con.Op,
			val: con.Value,
		})
	}

	c.cells = make([]value.Value, len(c.proj))
	c.decoded = make([]bool, len(c.proj))
	return c, nil
}

// State returns the cursor's lifecycle state.
func (c *Cursor) State() State { return c.state }

// Step advances to the next row passing the pushed-down predicates. Rows
// failing a predicate are skipped transparently. Step returns false once no
// rows remain (or the request limit is reached) and the cursor is Exhausted.
//
// A decode failure on a predicate column leaves the cursor positioned on the
// failing row and returns the error without advancing past it; the caller
// decides whether to Step again or abort the scan.
func (c *Cursor) Step() (bool, error) {
	switch c.state {
	case Closed:
		return false, &CursorStateError{Op: "Step", State: c.state}
	case Exhausted:
		return false, nil
	}

	if c.limit > 0 && c.produced >= c.limit {
		c.exhaust()
		return false, nil
	}

	for {
		next := c.pos + 1
		raw, err := c.r.ReadRow(c.schema.Table, next)
		if errors.Is(err, mdbfile.ErrEndOfTable) {
			c.exhaust()
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("read row %d of %s: %w", next, c.schema.Table, err)
		}

		c.position(next, raw)

		ok, err := c.matches()
		if err != nil {
			return false, err
		}
		if ok {
			c.produced++
			return true, nil
		}
	}
}

// Current returns the projected cells of the current row, decoded on demand.
// Only projected columns are ever decoded. The returned slice is valid until
// the next Step or Close. Calling Current in any state but Positioned fails
// with a *CursorStateError.
func (c *Cursor) Current() ([]value.Value, error) {
	if c.state != Positioned {
		return nil, &CursorStateError{Op: "Current", State: c.state}
	}
	for i, idx := range c.proj {
		if c.decoded[i] {
			continue
		}
		v, err := value.DecodeCell(c.schema.Columns[idx].ColumnInfo, c.cell(idx))
		if err != nil {
			return nil, err
		}
		c.cells[i] = v
		c.decoded[i] = true
	}
	return c.cells, nil
}

// Close releases the cursor's row buffers. Safe to call from any state and
// idempotent; after Close only Close itself may be called again.
func (c *Cursor) Close() error {
	c.state = Closed
	c.raw = nil
	c.cells = nil
	c.decoded = nil
	return nil
}

func (c *Cursor) exhaust() {
	c.state = Exhausted
	c.raw = nil
}

func (c *Cursor) position(pos int64, raw mdbfile.RawRow) {
	c.state = Positioned
	c.pos = pos
	c.raw = raw
	for i := range c.decoded {
		c.decoded[i] = false
	}
}

// cell returns the raw bytes of a physical column in the current row.
// Readers align RawRow with the full column list; a short row means the
// trailing columns are NULL.
func (c *Cursor) cell(idx int) []byte {
	if idx >= len(c.raw) {
		return nil
	}
	return c.raw[idx]
}

// matches evaluates the pushed-down predicates against the current row.
// NULL cells never satisfy a comparison. A NaN operand follows IEEE
// semantics: every comparison is false except <>, which is true.
func (c *Cursor) matches() (bool, error) {
	for _, p := range c.pushed {
		v, err := value.DecodeCell(p.col.ColumnInfo, c.cell(p.idx))
		if err != nil {
			return false, err
		}
		if v.IsNull() {
			return false, nil
		}
		if isNaN(v) || isNaN(p.val) {
			if p.op != catalog.OpNotEqual {
				return false, nil
			}
			continue
		}
		cmp, err := value.Compare(v, p.val)
		if err != nil {
			return false, nil
		}
		var ok bool
		switch p.op {
		case catalog.OpEqual:
			ok = cmp == 0
		case catalog.OpNotEqual:
			ok = cmp != 0
		case catalog.OpLess:
			ok = cmp < 0
		case catalog.OpLessEqual:
			ok = cmp <= 0
		case catalog.OpGreater:
			ok = cmp > 0
		case catalog.OpGreaterEqual:
			ok = cmp >= 0
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func isNaN(v value.Value) bool {
	return v.Kind() == value.KindReal && math.IsNaN(v.Real())
}
