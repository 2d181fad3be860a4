package smali

import "strings"

type LineKind uint8

const (
	LineOther LineKind = iota
	LineClass
	LineSuper
	LineImplements
	LineField
	LineMethod
)

func (k LineKind) String() string {
	switch k {
	case LineClass:
		return "class"
	case LineSuper:
		return "super"
	case LineImplements:
		return "implements"
	case LineField:
		return "field"
	case LineMethod:
		return "method"
	default:
		return "other"
	}
}

// Line is one parsed declaration fragment. Only the member matching Kind
// is set: Class for LineClass, Path for LineSuper and LineImplements,
// Field for LineField, Method for LineMethod. Number and Text locate the
// fragment in its source and are zero unless set by the caller.
type Line struct {
	Kind   LineKind
	Class  *Class
	Path   string
	Field  Field
	Method Method

	Number int
	Text   string
}

// ParseLine dispatches a source line to its tokenizer by leading keyword.
// Lines that are not declarations come back as LineOther.
func ParseLine(text string) (Line, error) {
	text = strings.TrimSpace(text)
	switch directive(text) {
	case directiveClass:
		class, err := ParseClassLine(text)
		if err != nil {
			return Line{}, err
		}
		return Line{Kind: LineClass, Class: class}, nil
	case directiveSuper:
		path, err := ParseSuperLine(text)
		if err != nil {
			return Line{}, err
		}
		return Line{Kind: LineSuper, Path: path}, nil
	case directiveImplements:
		path, err := ParseImplementsLine(text)
		if err != nil {
			return Line{}, err
		}
		return Line{Kind: LineImplements, Path: path}, nil
	case directiveField:
		field, err := ParseFieldLine(text)
		if err != nil {
			return Line{}, err
		}
		return Line{Kind: LineField, Field: field}, nil
	case directiveMethod:
		method, err := ParseMethodLine(text)
		if err != nil {
			return Line{}, err
		}
		return Line{Kind: LineMethod, Method: method}, nil
	}
	return Line{Kind: LineOther}, nil
}

// directive returns the leading dot keyword of a line, so that ".fields"
// or ".end method" are never mistaken for declarations.
func directive(text string) string {
	if !strings.HasPrefix(text, ".") {
		return ""
	}
	end := strings.IndexAny(text, " \t#")
	if end < 0 {
		return text
	}
	return text[:end]
}
