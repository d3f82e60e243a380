package scan

import (
	"fmt"

	"github.com/hugr-lab/mdblink-go/catalog"
	"github.com/hugr-lab/mdblink-go/mdbfile"
	"github.com/hugr-lab/mdblink-go/value"
)

// Plan answers the engine's scan negotiation for one table. The hint carries
// the physical row count as the cost estimate, the pushable predicate
// subset, and whether the scan satisfies the requested ordering. The format
// exposes no access path beyond physical row order, so an explicit ordering
// request is never provided by the scan.
//
// Hints are advisory. The engine may ignore them entirely; the cursor then
// runs an unfiltered physical scan and the engine evaluates everything
// itself, with identical results.
func Plan(r mdbfile.Reader, schema *catalog.TableSchema, req *catalog.ScanRequest) (*catalog.PlanHint, error) {
	rows, err := r.RowCount(schema.Table)
	if err != nil {
		return nil, fmt.Errorf("row count of %s: %w", schema.Table, err)
	}
	if req == nil {
		req = &catalog.ScanRequest{}
	}
	return &catalog.PlanHint{
		EstimatedRows: rows,
		Pushable:      pushableConstraints(schema, req.Constraints),
		ProvidesOrder: len(req.Order) == 0,
	}, nil
}

// pushableConstraints selects the constraints the cursor will evaluate:
// comparison operators on fixed-width numeric, boolean, and date columns
// whose literal has an exact cell encoding. Text pattern predicates and
// literals outside the column's value range stay with the engine.
func pushableConstraints(schema *catalog.TableSchema, cons []catalog.Constraint) []catalog.Constraint {
	var out []catalog.Constraint
	for _, c := range cons {
		if !comparisonOp(c.Op) {
			continue
		}
		col, ok := schema.Column(c.Column)
		if !ok || !value.Pushable(col.Tag) {
			continue
		}
		if _, err := value.EncodeLiteral(c.Value, col.ColumnInfo); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func comparisonOp(op catalog.CompareOp) bool {
	switch op {
	case catalog.OpEqual, catalog.OpNotEqual, catalog.OpLess,
		catalog.OpLessEqual, catalog.OpGreater, catalog.OpGreaterEqual:
		return true
	default:
		return false
	}
}
