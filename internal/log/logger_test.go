package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitialize(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)

	if Verbosity() != LevelInfo {
		t.Errorf("expected verbosity %d, got %d", LevelInfo, Verbosity())
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelDebug, &buf)

	Info("test info", "team", "platform")
	Debug("test debug", "project", "rohan")
	Warn("test warn", "ticket", "ABC-1")
	Error("test error", "error", "boom")

	out := buf.String()
	for _, want := range []string{"test info", "test debug", "test warn", "test error"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestQuietSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelQuiet, &buf)

	Info("hidden", "key", "value")
	Debug("also hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no output at quiet level, got %q", buf.String())
	}

	Warn("visible warning")
	if !strings.Contains(buf.String(), "visible warning") {
		t.Error("expected warning to be visible at quiet level")
	}
}

func TestLogLevelChecks(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)

	if !IsInfo() {
		t.Error("expected IsInfo() to be true at info level")
	}
	if IsDebug() {
		t.Error("expected IsDebug() to be false at info level")
	}
}
