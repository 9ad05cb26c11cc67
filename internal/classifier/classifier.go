package classifier

import (
	"errors"
	"os/exec"
	"regexp"
	"strings"
	"syscall"

	"github.com/jpequegn/batchlint/internal/protocol"
)

const (
	parsingErrorMarker = "Parsing error"
	ruleCrashMarker    = "Rule crashed"
)

// ruleIdentifierPattern matches the analyzer's convention for naming
// the rule involved in a crash, e.g. `rule "no-undef"`.
var ruleIdentifierPattern = regexp.MustCompile(`rule "[a-z][a-z0-9]*(?:-[a-z0-9]+)+"`)

// ClassifyMessage maps the text of a worker-observed error to an
// ErrorKind, per the analyzer's message-pattern conventions. The worker
// driver calls this before sending an error message; it is exported
// so the orchestrator can defensively re-derive a kind if a worker
// ever reports ErrorUnknown with classifiable text.
func ClassifyMessage(message string) protocol.ErrorKind {
	switch {
	case strings.Contains(message, parsingErrorMarker):
		return protocol.ErrorParseError
	case strings.Contains(message, ruleCrashMarker) || ruleIdentifierPattern.MatchString(message):
		return protocol.ErrorRuleCrash
	default:
		return protocol.ErrorUnknown
	}
}

// ClassifyExit maps a worker process's exit condition to an ErrorKind
// when no terminal message was received before it exited. Only
// ErrorOOM and ErrorUnknown are reachable here: a worker that is
// still alive to self-report parse_error/rule_crash does so via an
// explicit error message instead (see internal/worker).
func ClassifyExit(exitErr error) protocol.ErrorKind {
	var ee *exec.ExitError
	if exitErr == nil || !errors.As(exitErr, &ee) {
		return protocol.ErrorUnknown
	}
	if status, ok := ee.Sys().(syscall.WaitStatus); ok {
		if status.Signaled() && status.Signal() == syscall.SIGKILL {
			return protocol.ErrorOOM
		}
		if status.Exited() && status.ExitStatus() == 137 {
			return protocol.ErrorOOM
		}
	}
	return protocol.ErrorUnknown
}
