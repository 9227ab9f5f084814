package gologger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	glog "github.com/goliatone/go-logger/glog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestResolveDeterministicFallback(t *testing.T) {
	zapCore, _ := observer.New(zapcore.InfoLevel)
	provider := NewProvider(zap.New(zapCore))
	direct := NewLogger(zap.NewNop())

	_, resolved := Resolve("cancel", provider, direct)
	if resolved == direct {
		t.Fatalf("expected provider logger precedence")
	}

	resolvedProvider, resolved := Resolve("cancel", nil, direct)
	if resolved != direct {
		t.Fatalf("expected direct logger when provider is nil")
	}
	if resolvedProvider == nil {
		t.Fatalf("expected provider wrapper from logger")
	}

	_, resolved = Resolve("cancel", nil, nil)
	if resolved == nil {
		t.Fatalf("expected nop logger fallback")
	}
}

func TestProvider_NamedLoggerWritesKeyValues(t *testing.T) {
	zapCore, recorded := observer.New(zapcore.DebugLevel)
	provider := NewProvider(zap.New(zapCore))

	logger := provider.GetLogger("cancellation")
	logger.Info("account canceled", "account_id", "7", "revoked_shares", 2)
	logger.Debug("call admitted")

	entries := recorded.All()
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	first := entries[0]
	if first.Message != "account canceled" {
		t.Fatalf("unexpected message %q", first.Message)
	}
	if first.LoggerName != "cancellation" {
		t.Fatalf("expected named logger, got %q", first.LoggerName)
	}
	fields := first.ContextMap()
	if fields["account_id"] != "7" {
		t.Fatalf("expected account_id field, got %v", fields["account_id"])
	}
	if fields["revoked_shares"] != int64(2) {
		t.Fatalf("expected revoked_shares field, got %#v", fields["revoked_shares"])
	}
	if entries[1].Level != zapcore.DebugLevel {
		t.Fatalf("expected debug level, got %s", entries[1].Level)
	}
}

func TestLogger_WithFieldsAttachesFields(t *testing.T) {
	zapCore, recorded := observer.New(zapcore.InfoLevel)
	logger := NewLogger(zap.New(zapCore))

	var fieldsLogger glog.FieldsLogger = logger
	fieldsLogger.WithFields(map[string]any{"run_id": "run-1", "account_id": "5"}).Warn("share lookup failed")

	entries := recorded.FilterMessage("share lookup failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["run_id"] != "run-1" || fields["account_id"] != "5" {
		t.Fatalf("unexpected fields %#v", fields)
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	provider, err := New(Config{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	provider.GetLogger("cli").Info("cancellation run started", "accounts", 3)
	_ = provider.Sync()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, `"msg":"cancellation run started"`) || !strings.Contains(line, `"accounts":3`) {
		t.Fatalf("unexpected log output %s", line)
	}
}

func TestNew_FailsOnUnwritableOutput(t *testing.T) {
	_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "run.log")})
	if err == nil {
		t.Fatalf("expected output open error")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARNING": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q): expected %s, got %s", input, want, got)
		}
	}
}
