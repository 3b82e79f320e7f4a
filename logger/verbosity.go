package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
//
//	if verbosity >= logger.VerbosityDebug {
//	    logger.Debugw("Resolved specifier", logger.FieldSpecifier, spec)
//	}
const (
	VerbosityUser  = 0 // No flags: emitted labels and errors only
	VerbosityInfo  = 1 // -v: + per-context flushes, package expansion
	VerbosityDebug = 2 // -vv: + resolution misses, skipped bindings, config
	VerbosityTrace = 3 // -vvv: + loader internals
)

// VerbosityToLevel maps verbosity flags (-v, -vv, etc.) to zap log levels
//
// Mapping:
//
//	0 (none)  -> WarnLevel
//	1 (-v)    -> InfoLevel
//	2+ (-vv)  -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// ShouldLogTrace returns true for verbosity >= 3 (-vvv)
func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "User"
	case VerbosityInfo:
		return "Info (-v)"
	case VerbosityDebug:
		return "Debug (-vv)"
	case VerbosityTrace:
		return "Trace (-vvv)"
	default:
		if verbosity > VerbosityTrace {
			return "Trace (-vvv+)"
		}
		return "Unknown"
	}
}
