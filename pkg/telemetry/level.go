package telemetry

import (
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/log"
	"gopkg.in/yaml.v3"
)

// Level is the coarse logging level used across all sink thresholds. The
// scale is decimal with room between the named levels for custom values.
type Level int

const (
	// LevelNotset disables threshold filtering for the sink it configures.
	LevelNotset Level = 0
	// LevelDebug is diagnostic detail, off in production by default.
	LevelDebug Level = 10
	// LevelInfo is routine operational messages.
	LevelInfo Level = 20
	// LevelWarn is something unexpected but recoverable.
	LevelWarn Level = 30
	// LevelError is a failed operation.
	LevelError Level = 40
	// LevelCritical is a failure threatening the whole process.
	LevelCritical Level = 50
)

// maxLevel is the highest level with a distinct severity; anything above
// collapses into it.
const maxLevel = LevelCritical + 3

// Severity maps a level onto the OpenTelemetry severity scale. Each decade
// becomes a severity bucket of four (DEBUG→5, INFO→9, WARN→13, ERROR→17,
// CRITICAL→21) and the offset within the decade becomes the fine-grained
// position, saturating at the top of the bucket. Levels at or below
// LevelNotset map to SeverityUndefined.
func (l Level) Severity() log.Severity {
	if l <= LevelNotset {
		return log.SeverityUndefined
	}
	if l > maxLevel {
		l = maxLevel
	}
	bucket := int(l) / 10
	offset := int(l) % 10
	if offset > 3 {
		offset = 3
	}
	return log.Severity(bucket*4 + offset + 1)
}

// LevelFromSeverity is the coarse inverse of Level.Severity: every severity
// in a bucket collapses to the bucket's named level, so canonical levels
// round-trip exactly.
func LevelFromSeverity(sev log.Severity) Level {
	if sev <= log.SeverityUndefined {
		return LevelNotset
	}
	if sev > log.SeverityFatal4 {
		sev = log.SeverityFatal4
	}
	return Level(((int(sev) - 1) / 4) * 10)
}

func (l Level) String() string {
	switch l {
	case LevelNotset:
		return "NOTSET"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel reads a level from its name (case-insensitive, with the common
// aliases) or from its numeric value.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NOTSET":
		return LevelNotset, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "CRITICAL", "CRIT", "FATAL":
		return LevelCritical, nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return Level(n), nil
	}
	return LevelNotset, fmt.Errorf("telemetry: unknown level %q", s)
}

// UnmarshalYAML accepts either a level name ("INFO") or a number (20).
func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("telemetry: level must be a scalar, got %q", value.Tag)
	}
	parsed, err := ParseLevel(value.Value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l Level) MarshalYAML() (any, error) {
	switch l {
	case LevelNotset, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelCritical:
		return l.String(), nil
	default:
		return int(l), nil
	}
}
