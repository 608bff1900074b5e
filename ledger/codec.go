package ledger

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"holdem-arena/holdem"
)

// Event is one audit record in its stored form: a base64 protobuf Struct.
type Event struct {
	Seq         int64  `json:"seq"`
	EventType   string `json:"event_type"`
	EnvelopeB64 string `json:"envelope_b64"`
}

// map 顺序不固定，必须用 Deterministic，同一条记录才能编出同样的字节
var marshalOpts = proto.MarshalOptions{Deterministic: true}

// EncodeRecord turns an audit record into base64 protobuf bytes.
func EncodeRecord(r holdem.AuditRecord) (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal record %d: %w", r.Seq, err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", fmt.Errorf("flatten record %d: %w", r.Seq, err)
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return "", fmt.Errorf("struct record %d: %w", r.Seq, err)
	}
	bin, err := marshalOpts.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("encode record %d: %w", r.Seq, err)
	}
	return base64.StdEncoding.EncodeToString(bin), nil
}

// DecodeRecord is the inverse of EncodeRecord.
func DecodeRecord(envelopeB64 string) (holdem.AuditRecord, error) {
	var r holdem.AuditRecord
	bin, err := base64.StdEncoding.DecodeString(envelopeB64)
	if err != nil {
		return r, fmt.Errorf("decode base64: %w", err)
	}
	var st structpb.Struct
	if err := proto.Unmarshal(bin, &st); err != nil {
		return r, fmt.Errorf("decode envelope: %w", err)
	}
	raw, err := json.Marshal(st.AsMap())
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, fmt.Errorf("decode record: %w", err)
	}
	return r, nil
}

// EncodeEvents encodes records in order.
func EncodeEvents(records []holdem.AuditRecord) ([]Event, error) {
	out := make([]Event, 0, len(records))
	for _, r := range records {
		b64, err := EncodeRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, Event{Seq: r.Seq, EventType: string(r.Kind), EnvelopeB64: b64})
	}
	return out, nil
}

// DecodeEvents decodes events in order.
func DecodeEvents(events []Event) ([]holdem.AuditRecord, error) {
	out := make([]holdem.AuditRecord, 0, len(events))
	for _, e := range events {
		r, err := DecodeRecord(e.EnvelopeB64)
		if err != nil {
			return nil, fmt.Errorf("event seq=%d: %w", e.Seq, err)
		}
		out = append(out, r)
	}
	return out, nil
}
