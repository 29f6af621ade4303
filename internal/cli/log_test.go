package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("tick") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("tick") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("tick") }, true},
		{"warn at error level", log.ErrorLevel, func(l *log.Logger) { l.Warn("tick") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	component(newLogger(&buf, log.InfoLevel), "scene").Info("topology changed")

	out := buf.String()
	if !strings.Contains(out, "scene") || !strings.Contains(out, "topology changed") {
		t.Errorf("component output = %q, want prefix and message", out)
	}
}

func TestProgressFields(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("layout settled", "nodes", 12, "frames", 300)

	out := buf.String()
	for _, want := range []string{"layout settled", "nodes=12", "frames=300", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("loggerFromContext should fall back to the default logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	got.Info("test")
	if buf.Len() == 0 {
		t.Error("attached logger should write to its buffer")
	}
}
