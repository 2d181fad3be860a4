package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/ubi/compare"
	"github.com/dhamidi/ubi/diff"
	"github.com/dhamidi/ubi/smali"
)

// LineEncoder writes tab separated records, one fact per line, for grep
// and cut.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) EncodeClass(c *smali.Class) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "class\t%s\t%s\t%s\n", c.Path, orDash(c.SuperPath), strings.Join(classModifiers(c), ","))
	for _, i := range c.Interfaces {
		fmt.Fprintf(&sb, "implements\t%s\n", i)
	}
	for _, f := range c.Fields {
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\n",
			f.Name,
			f.Type,
			f.Access,
			joinOrDash(fieldModifiers(f)),
		)
	}
	for _, m := range c.Methods {
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\n",
			m.Name,
			m.ReturnType,
			orDash(typeList(m.Params)),
			m.Access,
			joinOrDash(methodModifiers(m)),
		)
	}
	_, err := io.WriteString(e.w, sb.String())
	return err
}

func (e *LineEncoder) EncodeResult(r compare.Result) error {
	var sb strings.Builder
	switch {
	case r.Err != nil:
		fmt.Fprintf(&sb, "%s\t%s\t%s\n", r.Status, r.Path, oneLine(r.Err.Error()))
	default:
		fmt.Fprintf(&sb, "%s\t%s\n", r.Status, r.Path)
	}
	if r.Diff != nil {
		writeDiffLines(&sb, r.Path, r.Diff)
	}
	_, err := io.WriteString(e.w, sb.String())
	return err
}

func (e *LineEncoder) EncodeSummary(s compare.Summary) error {
	_, err := fmt.Fprintf(e.w, "summary\tok=%d\tdifferent=%d\tfailed=%d\tnot-found=%d\n",
		s.OK, s.Different, s.Failed, s.NotFound)
	return err
}

func writeDiffLines(sb *strings.Builder, path string, d *diff.ClassDiff) {
	change := func(what string, orig, cmp any) {
		fmt.Fprintf(sb, "%s\t%s\t%v\t%v\n", path, what, orig, cmp)
	}
	if c := d.ClassPath; c != nil {
		change("class", c.Orig, c.Cmp)
	}
	if c := d.Access; c != nil {
		change("access", c.Orig, c.Cmp)
	}
	if c := d.IsAbstract; c != nil {
		change("abstract", c.Orig, c.Cmp)
	}
	if c := d.SuperPath; c != nil {
		change("super", orDash(c.Orig), orDash(c.Cmp))
	}
	for _, i := range d.Interfaces {
		fmt.Fprintf(sb, "%s\tinterface\t%s\tnot-found\n", path, i)
	}
	for _, f := range d.Fields {
		what := "field " + f.Name
		if f.NotFound {
			fmt.Fprintf(sb, "%s\t%s\tnot-found\n", path, what)
			continue
		}
		if c := f.Type; c != nil {
			change(what+" type", c.Orig, c.Cmp)
		}
		if c := f.Access; c != nil {
			change(what+" access", c.Orig, c.Cmp)
		}
		if c := f.IsStatic; c != nil {
			change(what+" static", c.Orig, c.Cmp)
		}
		if c := f.IsFinal; c != nil {
			change(what+" final", c.Orig, c.Cmp)
		}
	}
	for _, m := range d.Methods {
		what := "method " + m.Method.Descriptor()
		if m.NotFound {
			fmt.Fprintf(sb, "%s\t%s\tnot-found\n", path, what)
		}
		if c := m.ReturnType; c != nil {
			change(what+" return", c.Orig, c.Cmp)
		}
		if c := m.Access; c != nil {
			change(what+" access", c.Orig, c.Cmp)
		}
		if c := m.IsStatic; c != nil {
			change(what+" static", c.Orig, c.Cmp)
		}
		if c := m.IsFinal; c != nil {
			change(what+" final", c.Orig, c.Cmp)
		}
		for _, alt := range m.Alternatives {
			fmt.Fprintf(sb, "%s\t%s\tcandidate\t%s\n", path, what, alt.Descriptor())
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinOrDash(parts []string) string {
	return orDash(strings.Join(parts, ","))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
