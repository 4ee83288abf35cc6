package annotations

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// OutputFormatter formats events for human-readable display.
type OutputFormatter struct {
	useColor bool
	writer   io.Writer
}

// NewOutputFormatter creates a formatter with color support detection.
func NewOutputFormatter(w io.Writer) *OutputFormatter {
	if w == nil {
		w = os.Stderr
	}

	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) && !color.NoColor
	}

	return &OutputFormatter{
		useColor: useColor,
		writer:   w,
	}
}

// SetColor forces color output on or off.
func (f *OutputFormatter) SetColor(enabled bool) {
	f.useColor = enabled
}

// Handle implements Handler - prints events as they occur
func (f *OutputFormatter) Handle(event Event) {
	output := f.Format(event)
	if output != "" {
		fmt.Fprintln(f.writer, output)
	}
}

// Format converts an event to a human-readable string.
func (f *OutputFormatter) Format(event Event) string {
	latency := f.formatLatency(event.Latency)

	switch event.Name {
	case DefaultGraphBuilt:
		strategy, _ := event.Data["strategy"].(string)
		bindings, _ := event.Data["bindings"].(int)
		return fmt.Sprintf("%s %s default graph as %s (%s)",
			latency,
			f.colorize("===", color.FgYellow),
			f.colorize(strategy, color.FgCyan),
			f.colorizeCount("bindings", bindings))

	case NamedGraphAdded:
		return fmt.Sprintf("%s Projecting named graph %v", latency, event.Data["graph"])

	case SourceAdded:
		return fmt.Sprintf("%s Added %s", latency, f.colorizeCount("sources", intData(event, "sources")))

	case DefaultsChanged:
		return fmt.Sprintf("%s Default graph set to %v", latency, event.Data["defaults"])

	case AggregateQuery:
		pattern, _ := event.Data["pattern"].(string)
		mode, _ := event.Data["graph.mode"].(string)
		patternStr := fmt.Sprintf("Pattern(%s)", pattern)
		if f.useColor {
			patternStr = fmt.Sprintf("%s%s%s",
				color.BlueString("Pattern("),
				color.CyanString(pattern),
				color.BlueString(")"))
		}
		return fmt.Sprintf("%s %s over %s graphs → %s",
			latency,
			patternStr,
			mode,
			f.colorizeCount("graphs", intData(event, "graphs.count")))

	case MergeMaterialized:
		scanned := intData(event, "statements.scanned")
		distinct := intData(event, "statements.distinct")
		return fmt.Sprintf("%s Merge of %s: %s → %s",
			latency,
			f.colorizeCount("bindings", intData(event, "bindings")),
			f.colorizeCount("statements", scanned),
			f.colorizeCount("distinct", distinct))

	case ErrorInconsistentState, ErrorBackend:
		return fmt.Sprintf("%s %s %s: %v",
			latency,
			f.colorize("✗", color.FgRed),
			event.Name,
			event.Data["error"])

	default:
		// Generic format for unknown events
		return fmt.Sprintf("%s %s %v", latency, event.Name, event.Data)
	}
}

func intData(event Event, key string) int {
	n, _ := event.Data[key].(int)
	return n
}

// formatLatency formats a duration as [XXXms] or [XXXµs] with color coding.
func (f *OutputFormatter) formatLatency(d time.Duration) string {
	if d < time.Millisecond {
		s := fmt.Sprintf("[%dµs]", d.Microseconds())
		if !f.useColor {
			return s
		}
		return color.GreenString(s)
	}

	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("[%.1fms]", ms)

	if !f.useColor {
		return s
	}

	switch {
	case ms < 50:
		return color.GreenString(s)
	case ms < 200:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

// colorizeCount formats a count with a label, using color based on the label type.
func (f *OutputFormatter) colorizeCount(label string, count int) string {
	text := fmt.Sprintf("%d %s", count, label)

	if !f.useColor {
		return text
	}

	switch strings.ToLower(label) {
	case "graphs", "bindings":
		return color.CyanString(text)
	case "statements", "distinct":
		return color.MagentaString(text)
	case "sources":
		return color.BlueString(text)
	default:
		return text
	}
}

// colorize applies color if enabled.
func (f *OutputFormatter) colorize(text string, attrs ...color.Attribute) string {
	if !f.useColor {
		return text
	}
	return color.New(attrs...).Sprint(text)
}
