package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// entries decodes one JSON object per line of buf.
func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var e map[string]any
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("log line %q is not JSON: %v", sc.Text(), err)
		}
		out = append(out, e)
	}
	return out
}

func withGlobalLevel(t *testing.T, level zerolog.Level) {
	t.Helper()
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(level)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
}

func TestNewLogger_Entries(t *testing.T) {
	withGlobalLevel(t, zerolog.DebugLevel)
	failure := errors.New("dial tcp 127.0.0.1:5000: connection refused")

	tests := []struct {
		name  string
		log   func(Logger)
		level string
		msg   string
		want  map[string]any
	}{
		{
			name: "request line from the server middleware",
			log: func(l Logger) {
				l.Info("request",
					String("path", "/reverser"),
					Int("status", 200),
					Duration("duration", 1500*time.Microsecond))
			},
			level: "info",
			msg:   "request",
			want:  map[string]any{"path": "/reverser", "status": 200.0, "duration": 1.5},
		},
		{
			name: "failed widget response",
			log: func(l Logger) {
				l.Error("response failed", failure, String("widget", "summation"), Uint64("seq", 3))
			},
			level: "error",
			msg:   "response failed",
			want:  map[string]any{"error": failure.Error(), "widget": "summation", "seq": 3.0},
		},
		{
			name: "rejected request with Err field",
			log: func(l Logger) {
				l.Debug("rejected request", String("path", "/summation"), Err(failure))
			},
			level: "debug",
			msg:   "rejected request",
			want:  map[string]any{"error": failure.Error(), "path": "/summation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewLogger(&buf, "proxy"))

			got := entries(t, &buf)
			if len(got) != 1 {
				t.Fatalf("got %d entries, want 1", len(got))
			}
			e := got[0]
			if e["level"] != tt.level || e["message"] != tt.msg || e["component"] != "proxy" {
				t.Errorf("entry = %v, want level %q message %q component proxy", e, tt.level, tt.msg)
			}
			if _, ok := e["time"]; !ok {
				t.Error("entry has no timestamp")
			}
			for k, v := range tt.want {
				if e[k] != v {
					t.Errorf("%s = %v (%T), want %v", k, e[k], e[k], v)
				}
			}
		})
	}
}

func TestLogger_DebugFollowsGlobalLevel(t *testing.T) {
	withGlobalLevel(t, zerolog.InfoLevel)

	var buf bytes.Buffer
	l := NewLogger(&buf, "widget")
	l.Debug("submit", String("input", "1234"))
	if buf.Len() != 0 {
		t.Fatalf("debug entry written at info level: %s", buf.String())
	}

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	l.Debug("submit", String("input", "1234"))
	got := entries(t, &buf)
	if len(got) != 1 || got[0]["input"] != "1234" {
		t.Errorf("entries = %v, want one submit entry once --debug lowers the level", got)
	}
}

func TestNewConsoleLogger(t *testing.T) {
	withGlobalLevel(t, zerolog.DebugLevel)

	var buf bytes.Buffer
	NewConsoleLogger(&buf, "cli").Info("listening", String("addr", "localhost:3000"))

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Fatalf("console output should not be JSON: %s", out)
	}
	for _, want := range []string{"listening", "cli", "localhost:3000"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q: %s", want, out)
		}
	}
}

func TestNewFileLogger(t *testing.T) {
	withGlobalLevel(t, zerolog.DebugLevel)

	t.Run("empty path discards", func(t *testing.T) {
		l, closeFn, err := NewFileLogger("", "tui")
		if err != nil {
			t.Fatal(err)
		}
		l.Info("mounted")
		if err := closeFn(); err != nil {
			t.Errorf("close = %v", err)
		}
	})

	t.Run("appends across opens", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "numfront.log")
		for _, msg := range []string{"first run", "second run"} {
			l, closeFn, err := NewFileLogger(path, "tui")
			if err != nil {
				t.Fatal(err)
			}
			l.Info(msg)
			if err := closeFn(); err != nil {
				t.Fatal(err)
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		got := entries(t, bytes.NewBuffer(data))
		if len(got) != 2 || got[0]["message"] != "first run" || got[1]["message"] != "second run" {
			t.Errorf("log file entries = %v", got)
		}
		if got[0]["component"] != "tui" {
			t.Errorf("component = %v, want tui", got[0]["component"])
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "numfront.log")
		if _, _, err := NewFileLogger(path, "tui"); err == nil {
			t.Error("expected an error for a path in a missing directory")
		}
	})
}

func TestZerologAdapter_ImplementsLogger(t *testing.T) {
	var _ Logger = NewZerologAdapter(zerolog.Nop())
}
