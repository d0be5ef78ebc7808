package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]string{"id": "ev-1"}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"id":"ev-1"}` {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestWritePretty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]string{"id": "ev-1"}, "json", true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"id\"") {
		t.Fatalf("expected indented output, got %q", buf.String())
	}
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
