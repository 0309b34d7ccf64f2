// Package alerts prints operator notices such as publish outcomes and
// commit warnings.
package alerts

import (
	"fmt"
	"time"

	"github.com/oskars/refinerywatch/internal/cmd/emoji"
)

// Level is the severity of an alert.
type Level int

// Alert levels.
const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelSuccess
)

type style struct {
	name  string
	icon  string
	color string
}

const resetColor = "\033[0m"

var styles = map[Level]style{
	LevelError:   {"error", emoji.Error, "\033[31m"},
	LevelWarning: {"warning", emoji.Warning, "\033[33m"},
	LevelInfo:    {"info", emoji.Info, "\033[36m"},
	LevelSuccess: {"success", emoji.Success, "\033[32m"},
}

func (l Level) String() string {
	if s, ok := styles[l]; ok {
		return s.name
	}
	return fmt.Sprintf("unknown(%d)", int(l))
}

// Icon returns the symbol printed before the message.
func (l Level) Icon() string {
	if s, ok := styles[l]; ok {
		return s.icon
	}
	return emoji.Unknown
}

// Color returns the ANSI color used on terminals.
func (l Level) Color() string {
	if s, ok := styles[l]; ok {
		return s.color
	}
	return resetColor
}

// Alert is one operator notice.
type Alert struct {
	Level     Level
	Message   string
	Details   []string
	Timestamp time.Time
	Err       error
}

func newAlert(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message, Timestamp: time.Now()}
}

// NewWarning creates a warning alert.
func NewWarning(message string) *Alert { return newAlert(LevelWarning, message) }

// NewSuccess creates a success alert.
func NewSuccess(message string) *Alert { return newAlert(LevelSuccess, message) }

// WithError attaches the underlying error.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails appends indented detail lines.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String renders the icon, message and error on one line.
func (a *Alert) String() string {
	if a.Err != nil {
		return fmt.Sprintf("%s %s: %v", a.Level.Icon(), a.Message, a.Err)
	}
	return a.Level.Icon() + " " + a.Message
}
