package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRedactString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"key sk-abcdef1234567890 leaked", "key *** leaked"},
		{"Authorization: Bearer abc.def.ghi", "Authorization: ***"},
		{"nothing secret here", "nothing secret here"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := RedactString(tc.in); got != tc.want {
			t.Errorf("RedactString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSetupRedactsSecretAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "info", Format: "json", RedactSecrets: true}, &buf)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	logger.Info("configured", "api_key", "sk-verysecret12345", "provider", "openai")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output not JSON: %v", err)
	}

	if entry["api_key"] != "***" {
		t.Errorf("api_key attribute must be masked, got %v", entry["api_key"])
	}
	if entry["provider"] != "openai" {
		t.Errorf("non-secret attribute must pass through, got %v", entry["provider"])
	}
	if strings.Contains(buf.String(), "sk-verysecret12345") {
		t.Error("raw credential leaked into log output")
	}
}

func TestSetupRejectsUnknownFormat(t *testing.T) {
	if _, err := Setup(Config{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info entry must be filtered at warn level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("warn entry must pass at warn level")
	}
}
