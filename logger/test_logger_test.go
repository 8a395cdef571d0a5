package logger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTestLoggerBuffersEntries(t *testing.T) {
	l := NewTestLogger(t)

	l.Info("parsing file", "file", "persons.hcl")
	l.Debug("parsed resource", "fqrn", "resource.person.isaac")
	l.Warn("something looks odd")
	l.Error("something went wrong")

	require.Equal(t, 4, l.EntryCount())
}

func TestFormatEntryIncludesKeyValuePairs(t *testing.T) {
	e := logEntry{
		level:     "INFO",
		message:   "parsing file",
		args:      []interface{}{"file", "persons.hcl"},
		timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	out := formatEntry(e)

	require.True(t, strings.HasPrefix(out, "2024-01-01T12:00:00Z"))
	require.Contains(t, out, "INFO parsing file")
	require.Contains(t, out, "file=persons.hcl")
}
