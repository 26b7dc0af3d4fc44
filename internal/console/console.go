// Package console renders CLI output. Styling is applied only when stdout
// is a terminal.
package console

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Severity of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a message attached to a source location.
type Diagnostic struct {
	File     string
	Line     int // 1-based
	Column   int // 1-based, in runes
	Severity Severity
	Message  string
	Detail   string // secondary text such as a pointer or keyword path
	Source   []byte // when set, the offending line is shown with a caret
}

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BE9FD"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B"))

	locationStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BD93F9"))

	gutterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	detailStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6272A4"))
)

// styled is swapped in tests.
var styled = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func apply(style lipgloss.Style, text string) string {
	if styled() {
		return style.Render(text)
	}
	return text
}

// FormatDiagnostic renders d as "file:line:col: severity: message", followed
// by the detail and the source line when they are present.
func FormatDiagnostic(d Diagnostic) string {
	var b strings.Builder

	if d.File != "" {
		b.WriteString(apply(locationStyle, fmt.Sprintf("%s:%d:%d:", d.File, d.Line, d.Column)))
		b.WriteByte(' ')
	}
	style := errorStyle
	sev := d.Severity
	switch sev {
	case SeverityWarning:
		style = warningStyle
	case "":
		sev = SeverityError
	}
	b.WriteString(apply(style, string(sev)+":"))
	b.WriteByte(' ')
	b.WriteString(d.Message)
	if d.Detail != "" {
		b.WriteByte(' ')
		b.WriteString(apply(detailStyle, "("+d.Detail+")"))
	}
	b.WriteByte('\n')

	if line, ok := sourceLine(d.Source, d.Line); ok {
		num := strconv.Itoa(d.Line)
		b.WriteString(apply(gutterStyle, num+" | "))
		b.WriteString(line)
		b.WriteByte('\n')
		if d.Column > 0 {
			b.WriteString(strings.Repeat(" ", len(num)+3+d.Column-1))
			b.WriteString(apply(style, "^"))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// sourceLine returns line n (1-based) of src with tabs expanded to single
// spaces so the caret lines up.
func sourceLine(src []byte, n int) (string, bool) {
	if len(src) == 0 || n < 1 {
		return "", false
	}
	lines := bytes.Split(src, []byte{'\n'})
	if n > len(lines) {
		return "", false
	}
	line := strings.TrimRight(string(lines[n-1]), "\r")
	return strings.ReplaceAll(line, "\t", " "), true
}

// FormatLocation styles a file:line:col prefix.
func FormatLocation(file string, line, column int) string {
	return apply(locationStyle, fmt.Sprintf("%s:%d:%d", file, line, column))
}

// FormatSuccessMessage prefixes message with a check mark.
func FormatSuccessMessage(message string) string {
	return apply(successStyle, "✓ ") + message
}

// FormatInfoMessage prefixes message with an info mark.
func FormatInfoMessage(message string) string {
	return apply(infoStyle, "ℹ ") + message
}

// FormatWarningMessage prefixes message with a warning mark.
func FormatWarningMessage(message string) string {
	return apply(warningStyle, "⚠ ") + message
}
