package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhamidi/ubi/compare"
	"github.com/dhamidi/ubi/diff"
	"github.com/dhamidi/ubi/smali"
)

var (
	criticalColor = lipgloss.Color("#CC3333")
	warningColor  = lipgloss.Color("#FF8800")
	goodColor     = lipgloss.Color("#228B22")
	mutedColor    = lipgloss.Color("#888888")
)

// TextEncoder writes the human readable report. Colors are only emitted
// when w is a terminal.
type TextEncoder struct {
	w        io.Writer
	header   lipgloss.Style
	good     lipgloss.Style
	warning  lipgloss.Style
	critical lipgloss.Style
	muted    lipgloss.Style
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	r := lipgloss.NewRenderer(w)
	return &TextEncoder{
		w:        w,
		header:   r.NewStyle().Bold(true),
		good:     r.NewStyle().Foreground(goodColor).Bold(true),
		warning:  r.NewStyle().Foreground(warningColor).Bold(true),
		critical: r.NewStyle().Foreground(criticalColor).Bold(true),
		muted:    r.NewStyle().Foreground(mutedColor),
	}
}

func (e *TextEncoder) EncodeClass(c *smali.Class) error {
	var sb strings.Builder
	decl := strings.Join(classModifiers(c), " ") + " class " + c.Path
	if c.SuperPath != "" {
		decl += " extends " + c.SuperPath
	}
	if len(c.Interfaces) > 0 {
		decl += " implements " + strings.Join(c.Interfaces, ", ")
	}
	sb.WriteString(e.header.Render(decl))
	sb.WriteString("\n")
	for _, f := range c.Fields {
		fmt.Fprintf(&sb, "  %s\n", f)
	}
	for _, m := range c.Methods {
		fmt.Fprintf(&sb, "  %s\n", m)
	}
	_, err := io.WriteString(e.w, sb.String())
	return err
}

func (e *TextEncoder) EncodeResult(r compare.Result) error {
	var sb strings.Builder
	switch r.Status {
	case compare.StatusOK:
		fmt.Fprintf(&sb, "%s %s\n", e.good.Render("ok"), r.Path)
	case compare.StatusNotFound:
		fmt.Fprintf(&sb, "%s %s\n", e.muted.Render("not found in reference:"), r.Path)
	case compare.StatusFailed:
		fmt.Fprintf(&sb, "%s %s\n", e.critical.Render("error"), r.Path)
		if r.Err != nil {
			fmt.Fprintf(&sb, "  %s\n", r.Err)
		}
	case compare.StatusDifferent:
		fmt.Fprintf(&sb, "%s %s\n", e.warning.Render("diff"), r.Path)
		if r.Diff != nil {
			e.writeDiff(&sb, r.Diff)
		}
	}
	_, err := io.WriteString(e.w, sb.String())
	return err
}

func (e *TextEncoder) EncodeSummary(s compare.Summary) error {
	style := e.good
	if !s.Clean() {
		style = e.critical
	}
	line := fmt.Sprintf("%d ok, %d different, %d failed, %d not found", s.OK, s.Different, s.Failed, s.NotFound)
	_, err := fmt.Fprintln(e.w, style.Render(line))
	return err
}

func (e *TextEncoder) writeDiff(sb *strings.Builder, d *diff.ClassDiff) {
	fmt.Fprintf(sb, "  class %s\n", e.header.Render(d.Path))
	for _, f := range Describe(d) {
		fmt.Fprintf(sb, "    %s\n", f.Message)
		for _, c := range f.Candidates {
			fmt.Fprintf(sb, "      %s\n", e.muted.Render("candidate: "+signature(c)))
		}
	}
}
