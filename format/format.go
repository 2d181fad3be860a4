// Package format renders parsed classes and comparison results.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/ubi/compare"
	"github.com/dhamidi/ubi/smali"
)

type Encoder interface {
	EncodeClass(class *smali.Class) error
	EncodeResult(r compare.Result) error
	EncodeSummary(s compare.Summary) error
}

// Names lists the accepted encoder names in the order they are documented.
var Names = []string{"text", "json", "line"}

func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "text":
		return NewTextEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q (want one of %s)", name, strings.Join(Names, ", "))
}

func classModifiers(c *smali.Class) []string {
	mods := []string{string(c.Access)}
	if c.IsAbstract {
		mods = append(mods, "abstract")
	}
	return mods
}

func fieldModifiers(f smali.Field) []string {
	var mods []string
	if f.IsStatic {
		mods = append(mods, "static")
	}
	if f.IsFinal {
		mods = append(mods, "final")
	}
	return mods
}

func methodModifiers(m smali.Method) []string {
	var mods []string
	if m.IsStatic {
		mods = append(mods, "static")
	}
	if m.IsFinal {
		mods = append(mods, "final")
	}
	return mods
}

func typeList(types []smali.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// signature prints a method the way javap does, without modifiers.
func signature(m smali.Method) string {
	return fmt.Sprintf("%s %s(%s)", m.ReturnType, m.Name, typeList(m.Params))
}
