package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerLevelAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter(&buf, "scheduler", "warn")
	l.Infof("dropped")
	l.Warnf("kept %d", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "scheduler", rec["component"])
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "kept 2", rec["message"])
}

func TestZerologLoggerDebugw(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter(&buf, "scheduler", "debug")
	l.Debugw("task selected", map[string]any{"task": "Walk", "minutes": 30})
	out := buf.String()
	assert.Contains(t, out, `"task":"Walk"`)
	assert.Contains(t, out, `"minutes":30`)
}
