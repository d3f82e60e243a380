package catalog

import (
	"fmt"

	"github.com/hugr-lab/mdblink-go/internal/msgpack"
	"github.com/hugr-lab/mdblink-go/value"
)

// Wire forms for scan requests. Engines that carry scan specifications as
// opaque tickets (one session plans, another executes) serialize requests
// with MarshalScanRequest and hand the bytes back verbatim.

type wireValue struct {
	Kind uint8   `msgpack:"k"`
	Int  int64   `msgpack:"i,omitempty"`
	Real float64 `msgpack:"r,omitempty"`
	Text string  `msgpack:"s,omitempty"`
	Bin  []byte  `msgpack:"b,omitempty"`
}

type wireConstraint struct {
	Column string    `msgpack:"column"`
	Op     string    `msgpack:"op"`
	Value  wireValue `msgpack:"value"`
}

type wireOrder struct {
	Column string `msgpack:"column"`
	Desc   bool   `msgpack:"desc,omitempty"`
}

type wireScanRequest struct {
	Columns     []string         `msgpack:"columns,omitempty"`
	Constraints []wireConstraint `msgpack:"constraints,omitempty"`
	Order       []wireOrder      `msgpack:"order,omitempty"`
	Limit       int64            `msgpack:"limit,omitempty"`
	BatchSize   int              `msgpack:"batch_size,omitempty"`
}

func toWireValue(v value.Value) wireValue {
	w := wireValue{Kind: uint8(v.Kind())}
	switch v.Kind() {
	case value.KindBool:
		if v.Bool() {
			w.Int = 1
		}
	case value.KindInt:
		w.Int = v.Int()
	case value.KindReal:
		w.Real = v.Real()
	case value.KindText:
		w.Text = v.Text()
	case value.KindBinary:
		w.Bin = v.Bytes()
	case value.KindTimestamp:
		w.Int = v.Time().UnixMicro()
	}
	return w
}

func fromWireValue(w wireValue) (value.Value, error) {
	switch value.Kind(w.Kind) {
	case value.KindNull:
		return value.Null(), nil
	case value.KindBool:
		return value.Bool(w.Int != 0), nil
	case value.KindInt:
		return value.Int(w.Int), nil
	case value.KindReal:
		return value.Real(w.Real), nil
	case value.KindText:
		return value.Text(w.Text), nil
	case value.KindBinary:
		return value.Binary(w.Bin), nil
	case value.KindTimestamp:
		return value.FromUnixMicro(w.Int), nil
	default:
		return value.Null(), fmt.Errorf("unknown value kind %d", w.Kind)
	}
}

// MarshalScanRequest encodes a scan request as a MessagePack ticket.
func MarshalScanRequest(req *ScanRequest) ([]byte, error) {
	w := wireScanRequest{
		Columns:   req.Columns,
		Limit:     req.Limit,
		BatchSize: req.BatchSize,
	}
	for _, c := range req.Constraints {
		w.Constraints = append(w.Constraints, wireConstraint{
			Column: c.Column,
			Op:     string(c.Op),
			Value:  toWireValue(c.Value),
		})
	}
	for _, o := range req.Order {
		w.Order = append(w.Order, wireOrder{Column: o.Column, Desc: o.Desc})
	}
	return msgpack.Encode(w)
}

// UnmarshalScanRequest decodes a ticket produced by MarshalScanRequest.
func UnmarshalScanRequest(data []byte) (*ScanRequest, error) {
	var w wireScanRequest
	if err := msgpack.Decode(data, &w); err != nil {
		return nil, fmt.Errorf("scan request ticket: %w", err)
	}
	req := &ScanRequest{
		Columns:   w.Columns,
		Limit:     w.Limit,
		BatchSize: w.BatchSize,
	}
	for _, c := range w.Constraints {
		v, err := fromWireValue(c.Value)
		if err != nil {
			return nil, fmt.Errorf("scan request ticket: constraint on %q: %w", c.Column, err)
		}
		req.Constraints = append(req.Constraints, Constraint{
			Column: c.Column,
			Op:     CompareOp(c.Op),
			Value:  v,
		})
	}
	for _, o := range w.Order {
		req.Order = append(req.Order, OrderBy{Column: o.Column, Desc: o.Desc})
	}
	return req, nil
}
