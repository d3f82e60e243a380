package scan

import (
	"reflect"
	"testing"

	"github.com/hugr-lab/mdblink-go/catalog"
	"github.com/hugr-lab/mdblink-go/value"
)

func TestPlanEstimatedRows(t *testing.T) {
	r := peopleReader()
	hint, err := Plan(r, peopleSchema(t, r), nil)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if hint.EstimatedRows != 3 {
		t.Errorf("EstimatedRows = %d, want 3", hint.EstimatedRows)
	}
	if len(hint.Pushable) != 0 {
		t.Errorf("unconstrained plan reports pushable %v", hint.Pushable)
	}
}

func TestPlanPushableSubset(t *testing.T) {
	r := peopleReader()
	schema := peopleSchema(t, r)

	req := &catalog.ScanRequest{
		Constraints: []catalog.Constraint{
			{Column: "active", Op: catalog.OpEqual, Value: value.Bool(true)},
			{Column: "id", Op: catalog.OpLessEqual, Value: value.Int(10)},
			// Text comparisons stay with the engine.
			{Column: "name", Op: catalog.OpEqual, Value: value.Text("Ada")},
			// So do pattern matches, whatever the column.
			{Column: "name", Op: catalog.OpLike, Value: value.Text("A%")},
			// And literals the column type cannot represent exactly.
			{Column: "id", Op: catalog.OpGreater, Value: value.Real(1.5)},
			// And columns the table does not have.
			{Column: "nope", Op: catalog.OpEqual, Value: value.Int(1)},
		},
	}
	hint, err := Plan(r, schema, req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	want := []catalog.Constraint{req.Constraints[0], req.Constraints[1]}
	if !reflect.DeepEqual(hint.Pushable, want) {
		t.Errorf("Pushable = %v, want %v", hint.Pushable, want)
	}
}

func TestPlanProvidesOrder(t *testing.T) {
	r := peopleReader()
	schema := peopleSchema(t, r)

	hint, err := Plan(r, schema, &catalog.ScanRequest{})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if !hint.ProvidesOrder {
		t.Error("scan with no ordering request should satisfy it trivially")
	}

	hint, err = Plan(r, schema, &catalog.ScanRequest{
		Order: []catalog.OrderBy{{Column: "id"}},
	})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if hint.ProvidesOrder {
		t.Error("physical scan must not claim to satisfy an ordering request")
	}
}

// TestPlanMatchesCursor pins the contract between the advisor and the
// cursor: the constraint subset the cursor applies is exactly the subset the
// hint advertises, never more.
func TestPlanMatchesCursor(t *testing.T) {
	r := peopleReader()
	schema := peopleSchema(t, r)

	req := &catalog.ScanRequest{
		Constraints: []catalog.Constraint{
			{Column: "active", Op: catalog.OpEqual, Value: value.Bool(true)},
			{Column: "name", Op: catalog.OpLike, Value: value.Text("%d%")},
		},
	}
	hint, err := Plan(r, schema, req)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	c, err := Open(r, schema, req)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer c.Close()

	if len(c.pushed) != len(hint.Pushable) {
		t.Fatalf("cursor applies %d constraints, hint advertises %d", len(c.pushed), len(hint.Pushable))
	}
	for i, p := range c.pushed {
		want := hint.Pushable[i]
		if p.col.Name != want.Column || p.op != want.Op {
			t.Errorf("pushed %d: cursor has %s %s, hint has %s %s",
				i, p.col.Name, p.op, want.Column, want.Op)
		}
	}
}
