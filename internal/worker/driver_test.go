package worker

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/jpequegn/batchlint/internal/analyzer"
	"github.com/jpequegn/batchlint/internal/protocol"
)

func sendLint(t *testing.T, files []string) *bytes.Buffer {
	t.Helper()
	var in bytes.Buffer
	enc := protocol.NewEncoder(&in)
	if err := enc.EncodeLint(protocol.LintMessage{WorkerID: 1, Files: files}); err != nil {
		t.Fatalf("encode lint: %v", err)
	}
	return &in
}

func decodeUntilTerminal(t *testing.T, r io.Reader) (result *protocol.ResultMessage, errMsg *protocol.ErrorMessage, memCount int) {
	t.Helper()
	dec := protocol.NewDecoder(r)
	for {
		msg, err := dec.Decode()
		if err == io.EOF {
			t.Fatal("stream ended before a terminal message was observed")
		}
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		switch msg.Kind {
		case protocol.KindMemory:
			memCount++
		case protocol.KindResult:
			return msg.Result, nil, memCount
		case protocol.KindError:
			return nil, msg.Error, memCount
		}
	}
}

func TestRun_HappyPath(t *testing.T) {
	in := sendLint(t, []string{"a.go", "b.go"})
	var out bytes.Buffer

	err := Run(context.Background(), in, &out, Options{
		Analyzer:       analyzer.NewFake(),
		SampleInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	result, errMsg, _ := decodeUntilTerminal(t, &out)
	if errMsg != nil {
		t.Fatalf("expected a result message, got error: %+v", errMsg)
	}
	if result == nil || len(result.Results) != 2 {
		t.Fatalf("expected 2 results, got %+v", result)
	}
}

type panicAnalyzer struct{}

func (panicAnalyzer) Run(ctx context.Context, configPath string, files []string) (analyzer.Result, error) {
	panic("boom")
}

func TestRun_PanicRecoveredAsUnknownError(t *testing.T) {
	in := sendLint(t, []string{"a.go"})
	var out bytes.Buffer

	err := Run(context.Background(), in, &out, Options{Analyzer: panicAnalyzer{}})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	_, errMsg, _ := decodeUntilTerminal(t, &out)
	if errMsg == nil {
		t.Fatal("expected an error message")
	}
	if errMsg.ErrorType != protocol.ErrorUnknown {
		t.Errorf("expected error_type unknown, got %q", errMsg.ErrorType)
	}
}

func TestRun_ParseErrorScenarioIdentifiesFile(t *testing.T) {
	in := sendLint(t, []string{"a.go", "bad.go", "c.go"})
	var out bytes.Buffer

	err := Run(context.Background(), in, &out, Options{
		Analyzer: analyzer.NewFake(),
		Scenario: ScenarioConfig{Scenario: ScenarioParseError, TargetFile: "bad.go"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	_, errMsg, _ := decodeUntilTerminal(t, &out)
	if errMsg == nil {
		t.Fatal("expected an error message")
	}
	if errMsg.ErrorType != protocol.ErrorParseError {
		t.Errorf("expected error_type parse_error, got %q", errMsg.ErrorType)
	}
	if errMsg.File != "bad.go" {
		t.Errorf("expected file bad.go, got %q", errMsg.File)
	}
}

func TestRun_ScenarioDisabledIsUnreachable(t *testing.T) {
	in := sendLint(t, []string{"bad.go"})
	var out bytes.Buffer

	err := Run(context.Background(), in, &out, Options{
		Analyzer: analyzer.NewFake(),
		Scenario: ScenarioConfig{Scenario: ScenarioNone, TargetFile: "bad.go"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	result, errMsg, _ := decodeUntilTerminal(t, &out)
	if errMsg != nil {
		t.Fatalf("scenario must not fire when disabled, got error: %+v", errMsg)
	}
	if result == nil {
		t.Fatal("expected a normal result")
	}
}

func TestRun_RuleCrashScenario(t *testing.T) {
	in := sendLint(t, []string{"a.go", "crashy.go"})
	var out bytes.Buffer

	err := Run(context.Background(), in, &out, Options{
		Analyzer: analyzer.NewFake(),
		Scenario: ScenarioConfig{Scenario: ScenarioRuleCrash, TargetFile: "crashy.go"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	_, errMsg, _ := decodeUntilTerminal(t, &out)
	if errMsg == nil || errMsg.ErrorType != protocol.ErrorRuleCrash {
		t.Fatalf("expected rule_crash error, got %+v", errMsg)
	}
}

func TestRun_RejectsNonLintFirstMessage(t *testing.T) {
	var in bytes.Buffer
	enc := protocol.NewEncoder(&in)
	_ = enc.EncodeMemory(protocol.MemoryMessage{WorkerID: 1})
	var out bytes.Buffer

	err := Run(context.Background(), &in, &out, Options{Analyzer: analyzer.NewFake()})
	if err == nil {
		t.Fatal("expected an error when the first message is not a lint task")
	}
}
