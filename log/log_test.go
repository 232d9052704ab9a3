package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestModuleAddsAttribute(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithHandler(slog.NewJSONHandler(&buf, nil))
	l.Module("vsal").Info("sealed", "entries", 3)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["module"] != "vsal" {
		t.Fatalf("expected module=vsal, got %+v", got)
	}
	if got["msg"] != "sealed" {
		t.Fatalf("expected msg=sealed, got %+v", got)
	}
}

func TestWithAddsContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithHandler(slog.NewJSONHandler(&buf, nil))
	l.With("tx", "0xabc").Warn("retrying")

	if !strings.Contains(buf.String(), `"tx":"0xabc"`) {
		t.Fatalf("expected tx context in output, got %s", buf.String())
	}
}
