package analyzer

import (
	"testing"

	json "github.com/goccy/go-json"
)

func TestConvertLegacyConfig(t *testing.T) {
	legacy := []byte(`
# legacy analyzer config
max_warnings: 10
strict=true
ignore: [vendor, node_modules]
rules_dir = /etc/analyzer/rules
`)

	modern, err := ConvertLegacyConfig(legacy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(modern, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded["max_warnings"].(float64) != 10 {
		t.Errorf("expected max_warnings=10, got %v", decoded["max_warnings"])
	}
	if decoded["strict"] != true {
		t.Errorf("expected strict=true, got %v", decoded["strict"])
	}
	ignore, ok := decoded["ignore"].([]any)
	if !ok || len(ignore) != 2 {
		t.Errorf("expected ignore list of 2, got %v", decoded["ignore"])
	}
	if decoded["rules_dir"] != "/etc/analyzer/rules" {
		t.Errorf("expected rules_dir path, got %v", decoded["rules_dir"])
	}
}

func TestConvertLegacyConfig_MalformedLine(t *testing.T) {
	if _, err := ConvertLegacyConfig([]byte("this is not key value")); err == nil {
		t.Fatal("expected error for malformed line")
	}
}

func TestConvertLegacyConfig_CommentsAndBlankLines(t *testing.T) {
	modern, err := ConvertLegacyConfig([]byte("\n# just a comment\n\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(modern) != "{}" {
		t.Errorf("expected empty object, got %s", modern)
	}
}
