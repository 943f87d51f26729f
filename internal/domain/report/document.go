package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ecoscope/siagatani/pkg/util"
)

const (
	brand     = "EcoScope Banyumas"
	separator = "==================================================="
)

// Document renders the plain-text layout shared by every downloadable report.
type Document struct {
	b strings.Builder
}

// NewDocument starts a report with an upper-case title line.
func NewDocument(title string) *Document {
	d := &Document{}
	d.b.WriteString(strings.ToUpper(title))
	d.b.WriteString(" - ")
	d.b.WriteString(strings.ToUpper(brand))
	d.b.WriteByte('\n')
	return d
}

// Section opens a new block framed by separator lines.
func (d *Document) Section(name string) *Document {
	fmt.Fprintf(&d.b, "\n%s\n%s\n%s\n", separator, strings.ToUpper(name), separator)
	return d
}

// Line appends one formatted line.
func (d *Document) Line(format string, args ...any) *Document {
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteByte('\n')
	return d
}

// Field appends a "label : value" line with the label padded to width.
func (d *Document) Field(label string, width int, value any) *Document {
	return d.Line("%-*s: %v", width, label, value)
}

// Finish appends the generated-by footer and returns the text.
func (d *Document) Finish(at time.Time) string {
	fmt.Fprintf(&d.b, "\nGenerated by %s\n%s", brand, util.FormatTimestampID(at))
	return d.b.String()
}
