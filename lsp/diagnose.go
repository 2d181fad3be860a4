package lsp

import (
	"errors"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/ubi/compare"
	"github.com/dhamidi/ubi/format"
	"github.com/dhamidi/ubi/smali"
)

// declarations maps members to the zero-based line declaring them.
type declarations struct {
	class   int
	fields  map[string]int
	methods map[string]int
}

func index(lines []string) declarations {
	d := declarations{fields: map[string]int{}, methods: map[string]int{}}
	seenClass := false
	for i, text := range lines {
		l, err := smali.ParseLine(text)
		if err != nil {
			continue
		}
		switch l.Kind {
		case smali.LineClass:
			if !seenClass {
				d.class, seenClass = i, true
			}
		case smali.LineField:
			if _, ok := d.fields[l.Field.Name]; !ok {
				d.fields[l.Field.Name] = i
			}
		case smali.LineMethod:
			key := l.Method.Descriptor()
			if _, ok := d.methods[key]; !ok {
				d.methods[key] = i
			}
		}
	}
	return d
}

// Diagnose parses one smali document and compares it with its reference
// counterpart when cfg.RefDir is set. The result is never nil so that it
// clears earlier diagnostics when published.
func Diagnose(cfg compare.Config, text string) []protocol.Diagnostic {
	lines := strings.Split(text, "\n")
	diags := []protocol.Diagnostic{}

	class, err := smali.ParseString(text)
	if err != nil {
		line := 0
		var se *smali.SyntaxError
		if errors.As(err, &se) && se.Line > 0 {
			line = se.Line - 1
		}
		return append(diags, diagnostic(lines, line, protocol.DiagnosticSeverityError, err.Error()))
	}
	if cfg.RefDir == "" {
		return diags
	}

	decls := index(lines)
	rel := compare.RelPath(class.Path)
	ref, ok := compare.FindReference(cfg.RefDir, rel)
	if !ok {
		if !cfg.Ignore.NotFoundIgnored(rel) {
			diags = append(diags, diagnostic(lines, decls.class, protocol.DiagnosticSeverityInformation,
				"not found in reference: "+rel))
		}
		return diags
	}

	r := cfg.Class(class, ref)
	switch r.Status {
	case compare.StatusFailed:
		diags = append(diags, diagnostic(lines, decls.class, protocol.DiagnosticSeverityWarning,
			"reference: "+r.Err.Error()))
	case compare.StatusDifferent:
		for _, f := range format.Describe(r.Diff) {
			line := decls.class
			if l, ok := decls.fields[f.Field]; ok && f.Field != "" {
				line = l
			}
			if f.Method != nil {
				if l, ok := decls.methods[f.Method.Descriptor()]; ok {
					line = l
				}
			}
			msg := f.Message
			for _, c := range f.Candidates {
				msg += "\ncandidate: " + c.String()
			}
			diags = append(diags, diagnostic(lines, line, protocol.DiagnosticSeverityWarning, msg))
		}
	}
	return diags
}

func diagnostic(lines []string, line int, severity protocol.DiagnosticSeverity, msg string) protocol.Diagnostic {
	end := 0
	if line < len(lines) {
		end = len(strings.TrimRight(lines[line], "\r"))
	}
	source := lsName
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(line)},
			End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(end)},
		},
		Severity: &severity,
		Source:   &source,
		Message:  msg,
	}
}
