package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitializeWriter(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{name: "JSON output mode", jsonOutput: true},
		{name: "Console output mode", jsonOutput: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, InitializeWriter(&buf, tt.jsonOutput, VerbosityInfo))
			defer func() { _ = InitializeWriter(&bytes.Buffer{}, false, VerbosityUser) }()

			assert.Equal(t, tt.jsonOutput, JSONOutput)

			Infow("Flushed context", FieldContext, "billing")
			Cleanup()

			out := buf.String()
			assert.Contains(t, out, "Flushed context")
			assert.Contains(t, out, "billing")

			if tt.jsonOutput {
				var entry map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &entry))
				assert.Equal(t, "billing", entry[FieldContext])
			}
		})
	}
}

func TestInitializeWriter_VerbosityFiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWriter(&buf, false, VerbosityUser))
	defer func() { _ = InitializeWriter(&bytes.Buffer{}, false, VerbosityUser) }()

	Infow("hidden at default verbosity")
	Warnw("shown at default verbosity")

	out := stripANSI(buf.String())
	assert.NotContains(t, out, "hidden at default verbosity")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown at default verbosity")
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWriter(&buf, false, VerbosityDebug))
	defer func() { _ = InitializeWriter(&bytes.Buffer{}, false, VerbosityUser) }()

	ComponentLogger("resolver").Debugw("Resolution miss", FieldSpecifier, "billing.Nope")

	out := stripANSI(buf.String())
	assert.Contains(t, out, "resolver")
	assert.Contains(t, out, "specifier=billing.Nope")
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(LevelName(tt.verbosity), func(t *testing.T) {
			assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity))
		})
	}
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(VerbosityUser))
	assert.Equal(t, "Debug (-vv)", LevelName(VerbosityDebug))
	assert.Equal(t, "Trace (-vvv+)", LevelName(7))
	assert.Equal(t, "Unknown", LevelName(-2))
	assert.True(t, ShouldLogTrace(VerbosityTrace))
	assert.False(t, ShouldLogTrace(VerbosityDebug))
}
