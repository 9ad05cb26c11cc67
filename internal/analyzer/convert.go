package analyzer

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ConvertLegacyConfig translates a legacy line-oriented analyzer
// config (one "key: value" or "key=value" pair per line, '#' comments,
// blank lines ignored) into the modern JSON config consumed by
// --target's resolved config path.
//
// This is a pure text transformation: it
// understands line syntax and a small set of known keys, not analyzer
// rule semantics.
func ConvertLegacyConfig(legacy []byte) ([]byte, error) {
	values := make(map[string]any)

	scanner := bufio.NewScanner(bytes.NewReader(legacy))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := splitLegacyLine(line)
		if !ok {
			return nil, fmt.Errorf("analyzer: convert: line %d: expected \"key: value\" or \"key=value\", got %q", lineNo, line)
		}

		values[key] = coerceLegacyValue(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("analyzer: convert: %w", err)
	}

	modern, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("analyzer: convert: marshal modern config: %w", err)
	}
	return modern, nil
}

func splitLegacyLine(line string) (key, value string, ok bool) {
	if idx := strings.IndexByte(line, ':'); idx >= 0 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
	}
	if idx := strings.IndexByte(line, '='); idx >= 0 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
	}
	return "", "", false
}

func coerceLegacyValue(raw string) any {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		inner := strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
		if strings.TrimSpace(inner) == "" {
			return []string{}
		}
		parts := strings.Split(inner, ",")
		out := make([]string, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		return out
	}
	return raw
}
