// Package logger provides the leveled, component-tagged logger used across
// the bot. Components are short stable names ("telegram", "moderation",
// "api") so log lines can be filtered per subsystem.
package logger

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync/atomic"
)

// Level is the log severity level.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

var (
	minLevel atomic.Int32
	std      = log.New(os.Stderr, "", log.LstdFlags|log.LUTC)
)

// SetLevel sets the minimum level that will be emitted.
func SetLevel(l Level) { minLevel.Store(int32(l)) }

// ParseLevel maps a config string to a Level. Unknown values mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func logC(l Level, component, msg string, fields map[string]interface{}) {
	if l < Level(minLevel.Load()) {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s [%s] %s", levelNames[l], component, msg)
	if len(fields) > 0 {
		// Stable field order keeps log diffs readable.
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
	}
	std.Print(b.String())
}

// DebugC logs a debug message for a component.
func DebugC(component, msg string) { logC(LevelDebug, component, msg, nil) }

// DebugCF logs a debug message with structured fields.
func DebugCF(component, msg string, fields map[string]interface{}) {
	logC(LevelDebug, component, msg, fields)
}

// InfoC logs an info message for a component.
func InfoC(component, msg string) { logC(LevelInfo, component, msg, nil) }

// InfoCF logs an info message with structured fields.
func InfoCF(component, msg string, fields map[string]interface{}) {
	logC(LevelInfo, component, msg, fields)
}

// WarnC logs a warning for a component.
func WarnC(component, msg string) { logC(LevelWarn, component, msg, nil) }

// WarnCF logs a warning with structured fields.
func WarnCF(component, msg string, fields map[string]interface{}) {
	logC(LevelWarn, component, msg, fields)
}

// ErrorC logs an error for a component.
func ErrorC(component, msg string) { logC(LevelError, component, msg, nil) }

// ErrorCF logs an error with structured fields.
func ErrorCF(component, msg string, fields map[string]interface{}) {
	logC(LevelError, component, msg, fields)
}
