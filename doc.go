// Package mdblink exposes the tables of an Access (.mdb) database file as
// relations inside a host relational query engine.
//
// The package is the bridge between a read-only binary table format and an
// engine's pluggable-table contract: it discovers the file's tables and
// columns, maps Access column types into the engine's value domain, serves
// rows through per-scan cursors, and negotiates predicate pushdown so the
// engine can cost and order its plans. The native file reader and the engine
// itself stay behind interfaces (mdbfile.Reader and Registry); mdblink never
// writes to the file and never evaluates SQL beyond pushed-down comparisons.
//
// # Quick Start
//
// Open a file through a reader implementation and register its tables:
//
//	conn, err := mdblink.Connect("northwind.mdb", mdblink.Config{
//	    Open: libmdb.Open, // any mdbfile.OpenFunc
//	})
//	if err != nil {
//	    log.Fatal(err) // *mdblink.OpenError: missing or invalid file
//	}
//	defer conn.Close()
//
//	report, err := conn.RegisterAll(ctx, engineSession)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for name, err := range report.Failed {
//	    log.Printf("table %s skipped: %v", name, err)
//	}
//
// The engine then drives each registered provider through the
// catalog.Table contract:
//
//	hint, _ := t.BestPlan(ctx, req)    // row estimate + pushable predicates
//	cur, _ := t.BeginScan(ctx, req)    // one cursor per scan
//	defer cur.Close()
//	for {
//	    ok, err := cur.Step()
//	    if err != nil || !ok {
//	        break
//	    }
//	    cells, _ := cur.Current()      // projected values, decoded lazily
//	    _ = cells
//	}
//
// Engines that consume Arrow use Scan instead and receive the result as
// record batches over the projected schema.
//
// # Architecture
//
//   - mdbfile: the reader capability contract and raw cell encodings
//   - catalog: schema translation, scan requests, plan hints, the Table
//     and Cursor interfaces, serializable catalog snapshots
//   - value: the typed value domain and total cell coercion
//   - scan: the cursor state machine and the plan advisor
//   - mdblink (this package): connection facade, provider implementation,
//     registration lifecycle
//
// # Concurrency
//
// A reader handle is assumed non-reentrant: one Connection owns one reader,
// and callers needing concurrent query execution open independent
// connections over the same file. Connection and provider bookkeeping is
// goroutine-safe so teardown can race running queries without leaking
// cursors.
package mdblink
