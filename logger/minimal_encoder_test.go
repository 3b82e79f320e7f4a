package logger

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// The encoder must never silently drop a field.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "orchestrator",
		Message:    "Flushed context",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String("context", "billing"), "context=billing"},
		{zap.String("path", "types/billing/index.ts"), "path=types/billing/index.ts"},
		{zap.Int("count", 3), "count=3"},
		{zap.Int32("int32_field", 42), "int32_field=42"},
		{zap.Bool("incremental", true), "incremental=true"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
		{zap.Duration("elapsed", 1500*time.Millisecond), "elapsed=1.5s"},
		{zap.Error(errors.New("permission denied")), "error=permission denied"},
		{zap.Strings("specifiers", []string{"billing", "users"}), "specifiers="},
	}

	fields := make([]zapcore.Field, 0, len(testFields))
	for _, tf := range testFields {
		fields = append(fields, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, fields)
	require.NoError(t, err)

	out := stripANSI(buf.String())
	for _, tf := range testFields {
		assert.Contains(t, out, tf.mustFind)
	}
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestMinimalEncoder_LevelLabels(t *testing.T) {
	encoder := newMinimalEncoder()

	tests := []struct {
		level zapcore.Level
		want  string
	}{
		{zapcore.WarnLevel, "WARN"},
		{zapcore.ErrorLevel, "ERROR"},
		{zapcore.DebugLevel, "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			buf, err := encoder.EncodeEntry(zapcore.Entry{Level: tt.level, Time: time.Now(), Message: "m"}, nil)
			require.NoError(t, err)
			assert.Contains(t, stripANSI(buf.String()), tt.want)
		})
	}

	buf, err := encoder.EncodeEntry(zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "plain"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, stripANSI(buf.String()), "INFO")
}

func TestMinimalEncoder_FieldsSortedByKey(t *testing.T) {
	out := stripANSI(formatFields([]zapcore.Field{
		zap.String("zeta", "z"),
		zap.String("alpha", "a"),
	}))

	assert.Equal(t, "alpha=a zeta=z", out)
}

func TestMinimalEncoder_CloneKeepsWithFields(t *testing.T) {
	encoder := newMinimalEncoder()
	encoder.AddString("run", "r1")

	clone := encoder.Clone().(*minimalEncoder)
	buf, err := clone.EncodeEntry(zapcore.Entry{Level: zapcore.InfoLevel, Time: time.Now(), Message: "m"}, nil)
	require.NoError(t, err)

	assert.Contains(t, stripANSI(buf.String()), "run=r1")
}
