// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMapToZapFields_SortedAndTyped(t *testing.T) {
	fields := mapToZapFields(map[string]interface{}{
		"token":    "cb_1",
		"attempt":  "a-1",
		"cause":    errors.New("boom"),
		"clusters": 3,
	})
	require.Len(t, fields, 4)

	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	assert.Equal(t, []string{"attempt", "cause", "clusters", "token"}, keys)
	assert.Equal(t, zapcore.ErrorType, fields[1].Type)
}

func TestMapToZapFields_Empty(t *testing.T) {
	assert.Nil(t, mapToZapFields(nil))
}

func TestZapWrapper_WithFieldsCarriesContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "compile-career-brief"})

	log.Info("processing job", map[string]interface{}{"jobKey": int64(7)})
	log.WithError(errors.New("cache down")).Warn("cache miss", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "compile-career-brief", entries[0].ContextMap()["taskType"])
	assert.Equal(t, int64(7), entries[0].ContextMap()["jobKey"])
	assert.Equal(t, "cache down", entries[1].ContextMap()["error"])
}

func TestNew_FallsBackToNopOnBadOutput(t *testing.T) {
	l := New("info", "json", "/nonexistent-dir/for/sure/out.log")
	require.NotNil(t, l)
	l.Info("dropped")
}
