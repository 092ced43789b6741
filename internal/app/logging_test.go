package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedLogger(buf *bytes.Buffer, level LogLevel) *Logger {
	l := NewLogger(LoggerConfig{Level: level, Output: buf, Prefix: "rpncalc"})
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LogLevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown %d", 1)
	l.Error("shown %d", 2)

	want := "2024-01-02T03:04:05.000 [WARN] rpncalc: shown 1\n" +
		"2024-01-02T03:04:05.000 [ERROR] rpncalc: shown 2\n"
	if got := buf.String(); got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LogLevelDebug).WithField("z", 1).WithComponent("plugins")

	l.Info("loaded")

	want := "2024-01-02T03:04:05.000 [INFO] rpncalc: loaded {component=plugins, z=1}\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestLoggerDerivedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := fixedLogger(&buf, LogLevelInfo)
	child := parent.WithComponent("dispatcher")

	parent.SetLevel(LogLevelError)
	child.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("child ignored parent level: %q", buf.String())
	}
	if child.Level() != LogLevelError {
		t.Errorf("child.Level() = %v, want ERROR", child.Level())
	}
}

func TestLoggerSession(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LogLevelInfo).WithSession()
	l.Info("x")

	line := buf.String()
	i := strings.Index(line, "session=")
	if i < 0 {
		t.Fatalf("no session field in %q", line)
	}
	id := strings.TrimSuffix(line[i+len("session="):], "}\n")
	if len(id) != 36 {
		t.Errorf("session id %q is not a UUID", id)
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger.Error("nothing %s", "happens")
	NullLogger.WithComponent("x").Info("still nothing")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"Info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"", LogLevelInfo},
		{"verbose", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "rpncalc.log")

	f, err := OpenLogFile(path)
	if err != nil {
		t.Fatalf("OpenLogFile() error = %v", err)
	}
	if _, err := f.WriteString("one\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	f, err = OpenLogFile(path)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("two\n")
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("log file = %q, want appended lines", data)
	}
}
