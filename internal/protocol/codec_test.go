package protocol

import (
	"bytes"
	"io"
	"testing"
)

func TestCodec_RoundTripAllKinds(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	lint := LintMessage{WorkerID: 1, ConfigPath: "/cfg.json", Files: []string{"a.go", "b.go"}}
	result := ResultMessage{WorkerID: 1, Results: []ResultRecord{{Path: "a.go", ErrorCount: 2}}, PeakRSS: 1024, DurationMs: 50}
	errMsg := ErrorMessage{WorkerID: 1, ErrorType: ErrorParseError, Message: "Parsing error", File: "b.go"}
	mem := MemoryMessage{WorkerID: 1, RSS: 2048, HeapUsed: 512, Timestamp: 99}

	if err := enc.EncodeLint(lint); err != nil {
		t.Fatalf("EncodeLint: %v", err)
	}
	if err := enc.EncodeResult(result); err != nil {
		t.Fatalf("EncodeResult: %v", err)
	}
	if err := enc.EncodeError(errMsg); err != nil {
		t.Fatalf("EncodeError: %v", err)
	}
	if err := enc.EncodeMemory(mem); err != nil {
		t.Fatalf("EncodeMemory: %v", err)
	}

	dec := NewDecoder(&buf)

	m1, err := dec.Decode()
	if err != nil || m1.Kind != KindLint || m1.Lint == nil || m1.Lint.ConfigPath != "/cfg.json" {
		t.Fatalf("decode lint: msg=%+v err=%v", m1, err)
	}
	m2, err := dec.Decode()
	if err != nil || m2.Kind != KindResult || m2.Result == nil || m2.Result.PeakRSS != 1024 {
		t.Fatalf("decode result: msg=%+v err=%v", m2, err)
	}
	m3, err := dec.Decode()
	if err != nil || m3.Kind != KindError || m3.Error == nil || m3.Error.ErrorType != ErrorParseError {
		t.Fatalf("decode error: msg=%+v err=%v", m3, err)
	}
	m4, err := dec.Decode()
	if err != nil || m4.Kind != KindMemory || m4.Memory == nil || m4.Memory.RSS != 2048 {
		t.Fatalf("decode memory: msg=%+v err=%v", m4, err)
	}

	if _, err := dec.Decode(); err != io.EOF {
		t.Fatalf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestCodec_UnknownDiscriminator(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.encode(Kind("bogus"), map[string]string{"x": "y"}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dec := NewDecoder(&buf)
	msg, err := dec.Decode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Kind != KindUnknown {
		t.Fatalf("expected KindUnknown, got %s", msg.Kind)
	}
}

func TestCodec_OversizedFrameRejected(t *testing.T) {
	var buf bytes.Buffer
	lenPrefix := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	buf.Write(lenPrefix)

	dec := NewDecoder(&buf)
	if _, err := dec.Decode(); err == nil {
		t.Fatal("expected error for oversized frame")
	}
}
