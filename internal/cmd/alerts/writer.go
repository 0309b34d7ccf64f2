package alerts

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/oskars/refinerywatch/internal/cmd/output"
)

// FormatWriter writes alerts as text, or as a record for json and yaml.
type FormatWriter struct {
	writer io.Writer
	format output.Format
	config WriterConfig
}

// WriterConfig configures alert output.
type WriterConfig struct {
	ShowTimestamp bool
	ShowDetails   bool
	UseColor      bool
}

// NewFormatWriter creates a FormatWriter. Color is enabled only when w is a
// terminal.
func NewFormatWriter(w io.Writer, format output.Format) *FormatWriter {
	return &FormatWriter{
		writer: w,
		format: format,
		config: WriterConfig{ShowDetails: true, UseColor: isTerminal(w)},
	}
}

// WithConfig replaces the writer configuration.
func (fw *FormatWriter) WithConfig(config WriterConfig) *FormatWriter {
	fw.config = config
	return fw
}

// record is the structured form of an alert.
type record struct {
	Level     string   `json:"level" yaml:"level"`
	Message   string   `json:"message" yaml:"message"`
	Details   []string `json:"details,omitempty" yaml:"details,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp string   `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// WriteAlert writes alert in the configured format.
func (fw *FormatWriter) WriteAlert(alert *Alert) error {
	if !fw.format.Structured() {
		return fw.writeText(alert)
	}

	r := record{Level: alert.Level.String(), Message: alert.Message, Details: alert.Details}
	if alert.Err != nil {
		r.Error = alert.Err.Error()
	}
	if fw.config.ShowTimestamp {
		r.Timestamp = alert.Timestamp.Format(time.RFC3339)
	}
	return output.NewFormatter(fw.format).Format(fw.writer, r)
}

func (fw *FormatWriter) writeText(alert *Alert) error {
	line := alert.String()
	if fw.config.UseColor {
		line = alert.Level.Color() + line + resetColor
	}
	if fw.config.ShowTimestamp {
		line = alert.Timestamp.Format(time.TimeOnly) + " " + line
	}
	if _, err := fmt.Fprintln(fw.writer, line); err != nil {
		return err
	}
	if !fw.config.ShowDetails {
		return nil
	}
	for _, detail := range alert.Details {
		if _, err := fmt.Fprintf(fw.writer, "   %s\n", detail); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
