package logger

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// TestLogger implements the Logger interface and buffers log entries until
// the test completes, entries are only written when the test fails. This
// keeps the output of successful test runs clean.
type TestLogger struct {
	t      *testing.T
	buffer []logEntry
	mu     sync.Mutex
}

type logEntry struct {
	level     string
	message   string
	args      []interface{}
	timestamp time.Time
}

// NewTestLogger creates a new TestLogger that will output logs only on test
// failure
func NewTestLogger(t *testing.T) *TestLogger {
	logger := &TestLogger{
		t:      t,
		buffer: make([]logEntry, 0),
	}

	t.Cleanup(func() {
		logger.flushIfFailed()
	})

	return logger
}

var _ Logger = (*TestLogger)(nil)

func (l *TestLogger) Info(msg string, args ...interface{}) {
	l.addEntry("INFO", msg, args)
}

func (l *TestLogger) Debug(msg string, args ...interface{}) {
	l.addEntry("DEBUG", msg, args)
}

func (l *TestLogger) Warn(msg string, args ...interface{}) {
	l.addEntry("WARN", msg, args)
}

func (l *TestLogger) Error(msg string, args ...interface{}) {
	l.addEntry("ERROR", msg, args)
}

func (l *TestLogger) addEntry(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buffer = append(l.buffer, logEntry{
		level:     level,
		message:   msg,
		args:      args,
		timestamp: time.Now(),
	})
}

// EntryCount returns the number of buffered log entries
func (l *TestLogger) EntryCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.buffer)
}

func (l *TestLogger) flushIfFailed() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.t.Failed() || len(l.buffer) == 0 {
		return
	}

	l.t.Log("test failed, flushing buffered log output")
	for _, e := range l.buffer {
		l.t.Log(formatEntry(e))
	}
}

func formatEntry(e logEntry) string {
	out := strings.Builder{}
	out.WriteString(e.timestamp.Format(time.RFC3339))
	out.WriteString(" " + e.level + " " + e.message)

	for i := 0; i+1 < len(e.args); i += 2 {
		out.WriteString(fmt.Sprintf(" %v=%v", e.args[i], e.args[i+1]))
	}

	return out.String()
}
