package mdblink

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/hugr-lab/mdblink-go/catalog"
	"github.com/hugr-lab/mdblink-go/mdbfile"
	"github.com/hugr-lab/mdblink-go/value"
)

// fakeRegistry records registrations like an engine session would.
type fakeRegistry struct {
	tables    map[string]catalog.Table
	rejects   map[string]error
	unregCall []string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{tables: make(map[string]catalog.Table)}
}

func (r *fakeRegistry) RegisterTable(_ context.Context, t catalog.Table) error {
	if err := r.rejects[t.Name()]; err != nil {
		return err
	}
	r.tables[t.Name()] = t
	return nil
}

func (r *fakeRegistry) UnregisterTable(_ context.Context, name string) error {
	delete(r.tables, name)
	r.unregCall = append(r.unregCall, name)
	return nil
}

func le32b(u uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, u)
	return b
}

func boolCell(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func testTables() map[string]mdbfile.StaticTable {
	return map[string]mdbfile.StaticTable{
		"People": {
			Columns: []mdbfile.ColumnInfo{
				{Name: "id", Tag: mdbfile.TypeLongInt, Width: 4},
				{Name: "name", Tag: mdbfile.TypeText, Width: 50, Variable: true},
				{Name: "active", Tag: mdbfile.TypeBool, Width: 1},
			},
			Rows: []mdbfile.RawRow{
				{le32b(1), []byte("Ada"), boolCell(true)},
				{le32b(2), []byte("Grace"), boolCell(false)},
				{le32b(3), []byte("Edsger"), boolCell(true)},
			},
		},
		"Broken":      {Corrupt: true},
		"MSysObjects": {Columns: []mdbfile.ColumnInfo{{Name: "id", Tag: mdbfile.TypeLongInt, Width: 4}}},
	}
}

func staticOpen(tables map[string]mdbfile.StaticTable) (mdbfile.OpenFunc, *mdbfile.StaticReader) {
	r := mdbfile.NewStaticReader(tables)
	return func(path string) (mdbfile.Reader, error) { return r, nil }, r
}

func testConnect(t *testing.T, tables map[string]mdbfile.StaticTable) (*Connection, *mdbfile.StaticReader) {
	t.Helper()
	open, r := staticOpen(tables)
	conn, err := Connect("legacy.mdb", Config{Open: open})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return conn, r
}

func TestConnectValidatesConfig(t *testing.T) {
	if _, err := Connect("legacy.mdb", Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("nil Open: got %v, want ErrInvalidConfig", err)
	}

	open, _ := staticOpen(testTables())
	if _, err := Connect("legacy.mdb", Config{Open: open, BatchSize: -1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("negative batch size: got %v, want ErrInvalidConfig", err)
	}
}

func TestConnectOpenFailure(t *testing.T) {
	boom := errors.New("not a jet database")
	cfg := Config{Open: func(path string) (mdbfile.Reader, error) { return nil, boom }}

	_, err := Connect("garbage.mdb", cfg)
	var oe *OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("got %v, want *OpenError", err)
	}
	if oe.Path != "garbage.mdb" || !errors.Is(err, boom) {
		t.Errorf("OpenError = %+v", oe)
	}
}

func TestConnectionTables(t *testing.T) {
	conn, _ := testConnect(t, testTables())
	defer conn.Close()

	names, err := conn.Tables()
	if err != nil {
		t.Fatalf("Tables failed: %v", err)
	}
	want := []string{"Broken", "People"}
	if len(names) != 2 || names[0] != want[0] || names[1] != want[1] {
		t.Errorf("Tables = %v, want %v", names, want)
	}
}

func TestConnectionTablesAllowList(t *testing.T) {
	open, _ := staticOpen(testTables())
	conn, err := Connect("legacy.mdb", Config{Open: open, Tables: []string{"People"}})
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer conn.Close()

	names, err := conn.Tables()
	if err != nil {
		t.Fatalf("Tables failed: %v", err)
	}
	if len(names) != 1 || names[0] != "People" {
		t.Errorf("Tables = %v, want [People]", names)
	}
}

func TestRegisterAllSkipsUnreadableTables(t *testing.T) {
	conn, _ := testConnect(t, testTables())
	defer conn.Close()

	reg := newFakeRegistry()
	report, err := conn.RegisterAll(context.Background(), reg)
	if err != nil {
		t.Fatalf("RegisterAll failed: %v", err)
	}

	if len(report.Registered) != 1 || report.Registered[0] != "People" {
		t.Errorf("Registered = %v, want [People]", report.Registered)
	}
	var se *catalog.SchemaError
	if !errors.As(report.Failed["Broken"], &se) {
		t.Errorf("Broken failure = %v, want *catalog.SchemaError", report.Failed["Broken"])
	}
	if _, ok := reg.tables["People"]; !ok {
		t.Error("People was not registered with the session")
	}
	if _, ok := reg.tables["Broken"]; ok {
		t.Error("Broken must not be registered")
	}
}

func TestRegisterAllRegistryRejection(t *testing.T) {
	conn, _ := testConnect(t, testTables())
	defer conn.Close()

	reg := newFakeRegistry()
	reg.rejects = map[string]error{"People": errors.New("duplicate name")}

	report, err := conn.RegisterAll(context.Background(), reg)
	if err != nil {
		t.Fatalf("RegisterAll failed: %v", err)
	}
	if len(report.Registered) != 0 {
		t.Errorf("Registered = %v, want none", report.Registered)
	}
	if report.Failed["People"] == nil {
		t.Error("registry rejection missing from report")
	}
}

// TestQueryThroughRegisteredTable walks the whole path an engine takes for
// SELECT name FROM People WHERE active = true.
func TestQueryThroughRegisteredTable(t *testing.T) {
	conn, _ := testConnect(t, testTables())
	defer conn.Close()

	reg := newFakeRegistry()
	if _, err := conn.RegisterAll(context.Background(), reg); err != nil {
		t.Fatalf("RegisterAll failed: %v", err)
	}
	people := reg.tables["People"]
	if people == nil {
		t.Fatal("People provider missing")
	}

	ctx := context.Background()
	req := &catalog.ScanRequest{
		Columns: []string{"name"},
		Constraints: []catalog.Constraint{
			{Column: "active", Op: catalog.OpEqual, Value: value.Bool(true)},
		},
	}

	hint, err := people.BestPlan(ctx, req)
	if err != nil {
		t.Fatalf("BestPlan failed: %v", err)
	}
	if hint.EstimatedRows != 3 {
		t.Errorf("EstimatedRows = %d, want 3", hint.EstimatedRows)
	}
	if len(hint.Pushable) != 1 || hint.Pushable[0].Column != "active" {
		t.Errorf("Pushable = %v, want the active predicate", hint.Pushable)
	}

	cur, err := people.BeginScan(ctx, req)
	if err != nil {
		t.Fatalf("BeginScan failed: %v", err)
	}
	defer cur.Close()

	var names []string
	for {
		ok, err := cur.Step()
		if err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		if !ok {
			break
		}
		cells, err := cur.Current()
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		names = append(names, cells[0].Text())
	}
	if len(names) != 2 || names[0] != "Ada" || names[1] != "Edsger" {
		t.Errorf("names = %v, want [Ada Edsger]", names)
	}
}

func TestCloseUnregistersAndForceCloses(t *testing.T) {
	conn, r := testConnect(t, testTables())

	reg := newFakeRegistry()
	if _, err := conn.RegisterAll(context.Background(), reg); err != nil {
		t.Fatalf("RegisterAll failed: %v", err)
	}
	people := reg.tables["People"]

	// Leave a cursor open to verify teardown finalizes it.
	cur, err := people.BeginScan(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginScan failed: %v", err)
	}
	if ok, err := cur.Step(); !ok || err != nil {
		t.Fatalf("Step = (%v, %v)", ok, err)
	}

	if err := conn.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if len(reg.tables) != 0 {
		t.Errorf("tables still registered after Close: %v", reg.unregCall)
	}
	if !r.Closed() {
		t.Error("reader not closed")
	}

	// The abandoned cursor was force-closed by teardown.
	if _, err := cur.Step(); err == nil {
		t.Error("Step on force-closed cursor should fail")
	}

	// Idempotent.
	if err := conn.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if _, err := conn.Tables(); !errors.Is(err, ErrConnectionClosed) {
		t.Errorf("Tables on closed connection: got %v, want ErrConnectionClosed", err)
	}
}

func TestSnapshotOmitsUnreadableTables(t *testing.T) {
	conn, _ := testConnect(t, testTables())
	defer conn.Close()

	payload, err := conn.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	snap, err := catalog.UnmarshalSnapshot(payload)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot failed: %v", err)
	}
	schemas := snap.Schemas()
	if len(schemas) != 1 || schemas[0].Table != "People" {
		t.Errorf("snapshot schemas = %+v, want just People", schemas)
	}
}
