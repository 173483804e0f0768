package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"debug":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ingresos.log")
	logger, err := New(Options{Level: "debug", Format: "json", File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("dataset loaded", zap.String("op", "test"), zap.Int("items", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"dataset loaded"`) || !strings.Contains(string(data), `"items":3`) {
		t.Errorf("log = %s", data)
	}
}

func TestNew_NoFileIsNop(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("dropped")
}

func TestNew_BadFormat(t *testing.T) {
	if _, err := New(Options{File: filepath.Join(t.TempDir(), "x.log"), Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
