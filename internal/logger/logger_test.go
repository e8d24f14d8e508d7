package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestUninitializedIsSilent(t *testing.T) {
	std = nil
	Info("dropped", "k", "v")
	Error("dropped")
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	Init(Params{Out: &buf})
	defer func() { std = nil }()

	Debug("hidden detail")
	Info("Importing article", "title", "Design Thinking")

	out := buf.String()
	if strings.Contains(out, "hidden detail") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "Importing article") || !strings.Contains(out, "Design Thinking") {
		t.Errorf("info line missing: %q", out)
	}

	buf.Reset()
	Init(Params{Out: &buf, Debug: true})
	Debug("edge detail")
	if !strings.Contains(buf.String(), "edge detail") {
		t.Errorf("debug line missing with Debug enabled: %q", buf.String())
	}
}
