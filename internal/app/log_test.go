package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLineHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "op-123",
			level:   slog.LevelInfo,
			message: "game added",
			want:    "2024-06-15T14:30:45Z\tINFO\top-123\tgame added\n",
		},
		{
			name:    "debug level",
			opID:    "op-456",
			level:   slog.LevelDebug,
			message: "update ignored",
			want:    "2024-06-15T14:30:45Z\tDEBUG\top-456\tupdate ignored\n",
		},
		{
			name:    "with record attrs",
			opID:    "op-789",
			level:   slog.LevelInfo,
			message: "game deleted",
			attrs:   []slog.Attr{slog.String("user", "alen"), slog.Int("id", 42)},
			want:    "2024-06-15T14:30:45Z\tINFO\top-789\tgame deleted\tuser=alen\tid=42\n",
		},
		{
			name:    "group attr",
			opID:    "op-1",
			level:   slog.LevelWarn,
			message: "slow",
			attrs:   []slog.Attr{slog.Group("req", slog.String("path", "/api/games"))},
			want:    "2024-06-15T14:30:45Z\tWARN\top-1\tslow\treq.path=/api/games\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := newLineHandler(tt.opID, sink{w: &buf, level: slog.LevelDebug})

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			r.AddAttrs(tt.attrs...)

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestLineHandler_SinkLevels(t *testing.T) {
	var file, stderr bytes.Buffer
	logger := slog.New(newLineHandler("op", sink{w: &file, level: slog.LevelInfo}, sink{w: &stderr, level: slog.LevelWarn}))

	logger.Debug("hidden")
	logger.Info("file only")
	logger.Warn("both")

	if strings.Contains(file.String(), "hidden") || strings.Contains(stderr.String(), "hidden") {
		t.Error("debug record written below sink level")
	}
	if !strings.Contains(file.String(), "file only") || strings.Contains(stderr.String(), "file only") {
		t.Errorf("info routing wrong: file=%q stderr=%q", file.String(), stderr.String())
	}
	if !strings.Contains(file.String(), "both") || !strings.Contains(stderr.String(), "both") {
		t.Errorf("warn routing wrong: file=%q stderr=%q", file.String(), stderr.String())
	}
}

func TestLineHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	h := newLineHandler("op-1", sink{w: &buf, level: slog.LevelDebug})

	logger := slog.New(h).With("component", "api").WithGroup("req")
	logger.Info("served", "status", 200)

	got := buf.String()
	if !strings.Contains(got, "\tcomponent=api") {
		t.Errorf("missing pre-set attr: %q", got)
	}
	if !strings.Contains(got, "\treq.status=200") {
		t.Errorf("missing grouped attr: %q", got)
	}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*lineHandler)
	if len(h.attrs) != 0 || len(h2.attrs) != 1 {
		t.Errorf("WithAttrs() mutated original: %d, %d", len(h.attrs), len(h2.attrs))
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer

	logger, closer, err := newLogger(dir, "test-op", slog.LevelInfo, &stderr)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}

	logger.Info("to file")
	logger.Error("to both")
	closer.Close()

	data, err := os.ReadFile(filepath.Join(dir, "shelf.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") || !strings.Contains(string(data), "to both") {
		t.Errorf("log file = %q", data)
	}
	if strings.Contains(stderr.String(), "to file") || !strings.Contains(stderr.String(), "to both") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
