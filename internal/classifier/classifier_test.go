package classifier

import (
	"testing"

	"github.com/jpequegn/batchlint/internal/protocol"
)

func TestClassifyMessage(t *testing.T) {
	cases := []struct {
		message string
		want    protocol.ErrorKind
	}{
		{"Parsing error: unexpected token at line 4", protocol.ErrorParseError},
		{`crash while running rule "no-unused-vars"`, protocol.ErrorRuleCrash},
		{"Rule crashed: nil pointer", protocol.ErrorRuleCrash},
		{"segmentation fault", protocol.ErrorUnknown},
	}
	for _, c := range cases {
		if got := ClassifyMessage(c.message); got != c.want {
			t.Errorf("ClassifyMessage(%q) = %q, want %q", c.message, got, c.want)
		}
	}
}

func TestClassifyExit_NilError(t *testing.T) {
	if got := ClassifyExit(nil); got != protocol.ErrorUnknown {
		t.Errorf("expected ErrorUnknown for nil exit error, got %q", got)
	}
}
