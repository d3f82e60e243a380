package catalog

import (
	"github.com/hugr-lab/mdblink-go/value"
)

// CompareOp is a predicate operator the engine may ask to push down.
type CompareOp string

const (
	OpEqual        CompareOp = "="
	OpNotEqual     CompareOp = "<>"
	OpLess         CompareOp = "<"
	OpLessEqual    CompareOp = "<="
	OpGreater      CompareOp = ">"
	OpGreaterEqual CompareOp = ">="

	// OpLike is a text pattern match. Listed for completeness of the
	// request form; it is never pushable and always stays with the engine.
	OpLike CompareOp = "LIKE"
)

// Constraint is one predicate of the form <column> <op> <literal>.
type Constraint struct {
	// Column is the constrained column name.
	Column string

	// Op is the comparison operator.
	Op CompareOp

	// Value is the literal operand in the engine value domain.
	Value value.Value
}

// OrderBy is one key of a requested ordering.
type OrderBy struct {
	Column string
	Desc   bool
}

// ScanRequest describes what the engine asks of one scan: projection,
// candidate pushdown predicates, an optional ordering hint, and limits.
// A request is transient; it is consumed once by the plan advisor and once
// by the cursor it opens.
type ScanRequest struct {
	// Columns to return, in result order. Nil or empty means all columns
	// in physical order.
	Columns []string

	// Constraints the engine offers for pushdown. The advisor reports the
	// pushable subset in PlanHint.Pushable; the cursor applies exactly that
	// subset and the engine re-checks the rest after the scan.
	Constraints []Constraint

	// Order is the engine's desired row order. The adapter exposes no
	// ordered access paths beyond physical order, so a non-empty Order
	// makes PlanHint.ProvidesOrder false.
	Order []OrderBy

	// Limit is the maximum number of rows to produce. Zero or negative
	// means no limit.
	Limit int64

	// BatchSize is a hint for Arrow record batch sizing. Zero means the
	// connection default.
	BatchSize int
}

// PlanHint is the advisor's answer to a scan request. Hints are advisory:
// the engine is the final authority on plan choice, and a rejected or
// ignored hint changes performance, never results.
type PlanHint struct {
	// EstimatedRows is the table's physical row count, the cost input for
	// the engine's join ordering.
	EstimatedRows int64

	// Pushable is the subset of the request's constraints the cursor will
	// evaluate during the scan.
	Pushable []Constraint

	// ProvidesOrder reports whether the scan delivers rows in the
	// requested order. True only when the request carries no ordering
	// (physical order is the only access path).
	ProvidesOrder bool
}
