//go:build js && wasm

// Command replaywasm exposes hand replay to the browser.
//
//	__replayInit(json)   {"spec": HandSpec}          -> {"ok", "tape" | "error"}
//	__replayDecode(json) {"events": [Event, ...]}     -> {"ok", "records" | "error"}
package main

import (
	"encoding/json"
	"errors"
	"syscall/js"

	"holdem-arena/holdem"
	"holdem-arena/ledger"
	"holdem-arena/replay"
)

type generateRequest struct {
	Spec replay.HandSpec `json:"spec"`
}

type decodeRequest struct {
	Events []ledger.Event `json:"events"`
}

type response struct {
	OK      bool                 `json:"ok"`
	Tape    *replay.Tape         `json:"tape,omitempty"`
	Records []holdem.AuditRecord `json:"records,omitempty"`
	Error   *replay.ReplayError  `json:"error,omitempty"`
}

func main() {
	export("__replayInit", handleGenerate)
	export("__replayDecode", handleDecode)
	select {}
}

// export registers fn as a global taking one JSON string and returning one.
func export(name string, fn func(raw string) response) {
	js.Global().Set(name, js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return encode(failure("invalid_request", "missing request payload"))
		}
		return encode(fn(args[0].String()))
	}))
}

func handleGenerate(raw string) response {
	var req generateRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return failure("invalid_json", err.Error())
	}
	tape, err := replay.Generate(req.Spec)
	if err != nil {
		var re *replay.ReplayError
		if errors.As(err, &re) {
			return response{Error: re}
		}
		return failure("replay_generation_failed", err.Error())
	}
	return response{OK: true, Tape: tape}
}

func handleDecode(raw string) response {
	var req decodeRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return failure("invalid_json", err.Error())
	}
	records, err := ledger.DecodeEvents(req.Events)
	if err != nil {
		return failure("decode_failed", err.Error())
	}
	return response{OK: true, Records: records}
}

func failure(reason, msg string) response {
	return response{Error: &replay.ReplayError{StepIndex: -1, Reason: reason, Message: msg}}
}

func encode(v response) string {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(failure("marshal_failed", err.Error()))
	}
	return string(b)
}
