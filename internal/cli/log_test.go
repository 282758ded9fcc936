package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)
	prog.done("Built treemap from 12 records")

	out := buf.String()
	if !strings.Contains(out, "Built treemap from 12 records (") {
		t.Errorf("progress output = %q", out)
	}
	if !strings.Contains(out, "ms)") {
		t.Errorf("progress output should end with a duration: %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		level log.Level
		emit  func(logHooks)
		want  string // empty means nothing is logged
	}{
		{
			name:  "load complete",
			level: log.DebugLevel,
			emit:  func(h logHooks) { h.OnLoadComplete(ctx, "cases.csv", 12, time.Millisecond, nil) },
			want:  "records=12",
		},
		{
			name:  "build complete",
			level: log.DebugLevel,
			emit:  func(h logHooks) { h.OnBuildComplete(ctx, "treemap", 7, time.Millisecond, nil) },
			want:  "nodes=7",
		},
		{
			name:  "cache write",
			level: log.DebugLevel,
			emit:  func(h logHooks) { h.OnCacheSet(ctx, "svg", 2048) },
			want:  "bytes=2048",
		},
		{
			name:  "request",
			level: log.DebugLevel,
			emit:  func(h logHooks) { h.OnRequest(ctx, "GET", "/treemap", 200, time.Millisecond) },
			want:  "path=/treemap",
		},
		{
			name:  "pipeline events stay quiet at info",
			level: log.InfoLevel,
			emit:  func(h logHooks) { h.OnCacheHit(ctx, "records") },
			want:  "",
		},
		{
			name:  "selection is logged at info",
			level: log.InfoLevel,
			emit:  func(h logHooks) { h.OnSelect(ctx, "gender=M/outcome=1") },
			want:  "gender=M/outcome=1",
		},
		{
			name:  "reload success",
			level: log.InfoLevel,
			emit:  func(h logHooks) { h.OnReload(ctx, "cases.csv", time.Millisecond, nil) },
			want:  "input changed",
		},
		{
			name:  "reload failure",
			level: log.InfoLevel,
			emit:  func(h logHooks) { h.OnReload(ctx, "cases.csv", 0, errors.New("boom")) },
			want:  "reload failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(logHooks{logger: newLogger(&buf, tt.level)})

			out := buf.String()
			if tt.want == "" {
				if out != "" {
					t.Errorf("expected no output, got %q", out)
				}
				return
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}
