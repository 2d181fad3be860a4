package format

import (
	"fmt"
	"strings"

	"github.com/dhamidi/ubi/diff"
	"github.com/dhamidi/ubi/smali"
)

// Finding is one mismatch of a ClassDiff phrased for people. Field or
// Method tells which member it concerns; both are empty for class level
// findings.
type Finding struct {
	Field      string
	Method     *smali.Method
	Message    string
	Candidates []smali.Method
}

// Describe flattens d into findings in report order.
func Describe(d *diff.ClassDiff) []Finding {
	if d == nil {
		return nil
	}
	var out []Finding
	add := func(format string, args ...any) {
		out = append(out, Finding{Message: fmt.Sprintf(format, args...)})
	}
	if c := d.ClassPath; c != nil {
		add("path: %s -> %s", c.Orig, c.Cmp)
	}
	if c := d.Access; c != nil {
		add("access: %s -> %s", c.Orig, c.Cmp)
	}
	if c := d.IsAbstract; c != nil {
		add("abstract: %t -> %t", c.Orig, c.Cmp)
	}
	if c := d.SuperPath; c != nil {
		add("super: %s -> %s", orDash(c.Orig), orDash(c.Cmp))
	}
	for _, i := range d.Interfaces {
		add("interface %s: not implemented", i)
	}

	for _, f := range d.Fields {
		msg := "not found"
		if !f.NotFound {
			msg = strings.Join(changes(f.Type, f.Access, f.IsStatic, f.IsFinal, "type"), ", ")
		}
		out = append(out, Finding{
			Field:   f.Name,
			Message: fmt.Sprintf("field %s: %s", f.Name, msg),
		})
	}

	for _, m := range d.Methods {
		fd := Finding{Method: &m.Method, Candidates: m.Alternatives}
		if m.NotFound {
			fd.Message = fmt.Sprintf("method %s: not found", signature(m.Method))
		} else {
			msg := strings.Join(changes(m.ReturnType, m.Access, m.IsStatic, m.IsFinal, "returns"), ", ")
			fd.Message = fmt.Sprintf("method %s: %s", signature(m.Method), msg)
		}
		out = append(out, fd)
	}
	return out
}

func changes(typ *diff.Change[smali.Type], access *diff.Change[smali.Access], static, final *diff.Change[bool], typeLabel string) []string {
	var parts []string
	if typ != nil {
		parts = append(parts, fmt.Sprintf("%s %s -> %s", typeLabel, typ.Orig, typ.Cmp))
	}
	if access != nil {
		parts = append(parts, fmt.Sprintf("access %s -> %s", access.Orig, access.Cmp))
	}
	if static != nil {
		parts = append(parts, fmt.Sprintf("static %t -> %t", static.Orig, static.Cmp))
	}
	if final != nil {
		parts = append(parts, fmt.Sprintf("final %t -> %t", final.Orig, final.Cmp))
	}
	return parts
}
