package logsvc

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/rubrica/core"
	"github.com/trezcool/rubrica/core/user"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestZerologLogger_fields(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewZerologLoggerTo(buf, core.LogConfig{Level: "debug"})

	usr := user.User{ID: "s1", Email: "arjun@student.edu"}
	logger.Error("saving project", errors.New("disk full"), map[string]interface{}{"project_id": "p1"}, usr, 42)

	rec := decode(t, buf)
	assert.Equal(t, "error", rec["level"])
	assert.Equal(t, "saving project", rec["message"])
	assert.Equal(t, "disk full", rec["error"])
	assert.Equal(t, "p1", rec["project_id"])
	assert.Equal(t, "s1", rec["user_id"])
	assert.Equal(t, "arjun@student.edu", rec["user_email"])
	assert.Equal(t, []interface{}{"42"}, rec["args"])
}

func TestZerologLogger_level(t *testing.T) {
	tests := []struct {
		level   string
		logFn   func(l *ZerologLogger)
		written bool
	}{
		{"info", func(l *ZerologLogger) { l.Debug("hidden") }, false},
		{"info", func(l *ZerologLogger) { l.Info("shown") }, true},
		{"warn", func(l *ZerologLogger) { l.Info("hidden") }, false},
		{"WARN", func(l *ZerologLogger) { l.Warn("shown") }, true},
		{"error", func(l *ZerologLogger) { l.Warn("hidden") }, false},
		{"bogus", func(l *ZerologLogger) { l.Info("shown") }, true},
	}
	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			buf := new(bytes.Buffer)
			tc.logFn(NewZerologLoggerTo(buf, core.LogConfig{Level: tc.level}))
			assert.Equal(t, tc.written, buf.Len() > 0)
		})
	}
}

func TestZerologLogger_Fatal(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := NewZerologLoggerTo(buf, core.LogConfig{Level: "info"})
	var code int
	logger.exit = func(c int) { code = c }

	logger.Fatal("cannot open store")

	assert.Equal(t, 1, code)
	assert.Equal(t, "fatal", decode(t, buf)["level"])
}
