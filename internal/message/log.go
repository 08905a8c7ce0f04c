package message

// Level is the shared six-step log scale exposed to listeners.
type Level int

const (
	LevelVerbose Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelAssert
)

// Severity is the coarse four-step scale used by SDKs that only distinguish
// debug/info/warning/error.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// LogEntry is one forwarded native log call.
type LogEntry struct {
	Level   Level  `json:"level"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

// NarrowLevel maps the shared scale onto the coarse scale. Verbose and debug
// collapse to debug; error and assert collapse to error.
func NarrowLevel(l Level) Severity {
	switch {
	case l <= LevelDebug:
		return SeverityDebug
	case l == LevelInfo:
		return SeverityInfo
	case l == LevelWarn:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// WidenSeverity maps the coarse scale back onto the shared scale. The result
// never reaches verbose or assert: a coarse platform cannot express them, so
// narrowing then widening loses the extremes on purpose.
func WidenSeverity(s Severity) Level {
	switch s {
	case SeverityDebug:
		return LevelDebug
	case SeverityInfo:
		return LevelInfo
	case SeverityWarning:
		return LevelWarn
	default:
		return LevelError
	}
}

// ClampLevel bounds an arbitrary ordinal onto the shared scale.
func ClampLevel(v int) Level {
	if v < int(LevelVerbose) {
		return LevelVerbose
	}
	if v > int(LevelAssert) {
		return LevelAssert
	}
	return Level(v)
}
