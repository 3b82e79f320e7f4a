package logger

// Output controls what categories of CLI output are shown at each verbosity
// level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT is printed to the user regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Written files, errors with hints, final status
//	1 (-v)      - + Emitted labels, config source, package loading progress
//	2 (-vv)     - + Timing, skipped packages, resolved specifiers
//	3 (-vvv)    - + Rendered file contents

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Written files
	OutputErrors                           // Errors with hints
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputLabels   // "emitted <origin>.<Name>" per declaration
	OutputProgress // Package loading, watch events
	OutputConfig   // Config file used

	// Level 2 (-vv) - Detailed
	OutputTiming     // Load and generation timing
	OutputResolution // Specifiers and what they resolved to

	// Level 3 (-vvv) - Debug
	OutputDataDump // Full rendered file contents
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputLabels:   VerbosityInfo,
	OutputProgress: VerbosityInfo,
	OutputConfig:   VerbosityInfo,

	OutputTiming:     VerbosityDebug,
	OutputResolution: VerbosityDebug,

	OutputDataDump: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputResults:    "results",
	OutputErrors:     "errors",
	OutputUserStatus: "status",
	OutputLabels:     "labels",
	OutputProgress:   "progress",
	OutputConfig:     "config",
	OutputTiming:     "timing",
	OutputResolution: "resolution",
	OutputDataDump:   "data-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "written files and errors only"
	case VerbosityInfo:
		return "above + emitted declarations and config source"
	case VerbosityDebug:
		return "above + timing and resolution details"
	case VerbosityTrace:
		return "above + rendered file contents"
	default:
		if verbosity > VerbosityTrace {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}
