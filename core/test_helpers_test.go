package core

import (
	"context"
	"sync"
)

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
	args   []any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFields(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFields(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFields(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields, args: append([]any(nil), args...)})
}

func (l *captureLogger) snapshot() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]capturedLog, len(*l.records))
	copy(out, *l.records)
	return out
}

// argsLogger only accepts key/value args; it does not implement FieldsLogger.
type argsLogger struct {
	inner *captureLogger
}

func (l argsLogger) Trace(msg string, args ...any) { l.inner.Trace(msg, args...) }
func (l argsLogger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l argsLogger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l argsLogger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l argsLogger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }
func (l argsLogger) Fatal(msg string, args ...any) { l.inner.Fatal(msg, args...) }

func (l argsLogger) WithContext(context.Context) Logger { return l }

type stubLoggerProvider struct {
	logger Logger
	names  *[]string
}

func (s stubLoggerProvider) GetLogger(name string) Logger {
	if s.names != nil {
		*s.names = append(*s.names, name)
	}
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
	err    error
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if l.err != nil {
		return nil, l.err
	}
	return cloneRaw(l.values), nil
}
