// Package ignore loads .ubignore files and filters diff reports with them.
package ignore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/ubi/diff"
	"github.com/dhamidi/ubi/smali"
)

// FileName is the conventional name of an ignore list at the root of a
// disassembly directory.
const FileName = ".ubignore"

// List is the decoded form of a .ubignore file. The zero value and a nil
// *List ignore nothing.
type List struct {
	Classes  []Class  `yaml:"ignore"`
	NotFound []string `yaml:"ignore_not_found"`
}

// Class names a class path. An entry without IgnoreSuper and without
// IgnoreMethods silences the whole class.
type Class struct {
	Name          string   `yaml:"name"`
	IgnoreSuper   string   `yaml:"ignore_super"`
	IgnoreMethods []Method `yaml:"ignore_methods"`
}

// Method is a signature written in smali descriptors, e.g. "I" or
// "Ljava/lang/String;".
type Method struct {
	Name           string   `yaml:"name"`
	ParameterTypes []string `yaml:"parameter_types"`
	ReturnType     string   `yaml:"return_type"`

	params []smali.Type
	ret    smali.Type
}

func (c *Class) UnmarshalYAML(node *yaml.Node) error {
	if err := knownKeys(node, "name", "ignore_super", "ignore_methods"); err != nil {
		return err
	}
	type alias Class
	if err := node.Decode((*alias)(c)); err != nil {
		return err
	}
	if c.Name == "" {
		return fmt.Errorf("line %d: ignore entry requires a name", node.Line)
	}
	return nil
}

func (m *Method) UnmarshalYAML(node *yaml.Node) error {
	if err := knownKeys(node, "name", "parameter_types", "return_type"); err != nil {
		return err
	}
	type alias Method
	if err := node.Decode((*alias)(m)); err != nil {
		return err
	}
	if m.Name == "" {
		return fmt.Errorf("line %d: ignored method requires a name", node.Line)
	}
	if m.ReturnType == "" {
		return fmt.Errorf("line %d: ignored method %s requires a return_type", node.Line, m.Name)
	}
	ret, err := smali.ParseType(m.ReturnType)
	if err != nil {
		return fmt.Errorf("line %d: return type of %s: %w", node.Line, m.Name, err)
	}
	m.ret = ret
	m.params = make([]smali.Type, 0, len(m.ParameterTypes))
	for _, p := range m.ParameterTypes {
		t, err := smali.ParseType(p)
		if err != nil {
			return fmt.Errorf("line %d: parameter of %s: %w", node.Line, m.Name, err)
		}
		if t == smali.Void {
			return fmt.Errorf("line %d: parameter of %s cannot be void", node.Line, m.Name)
		}
		m.params = append(m.params, t)
	}
	return nil
}

// knownKeys rejects mapping keys outside allowed. node.Decode does not
// inherit the decoder's KnownFields setting.
func knownKeys(node *yaml.Node, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return fmt.Errorf("line %d: unknown key %q", key.Line, key.Value)
		}
	}
	return nil
}

func (m *Method) matches(sm smali.Method) bool {
	return m.Name == sm.Name &&
		m.ret == sm.ReturnType &&
		slices.Equal(m.params, sm.Params)
}

// Load reads the ignore list at path.
func Load(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ignore file: %w", err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return l, nil
}

// Parse decodes the first YAML document in data. An empty input yields an
// empty list; unknown keys are rejected.
func Parse(data []byte) (*List, error) {
	l := &List{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(l); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return l, nil
}

// Apply returns d without the parts silenced by the list, or nil when
// nothing remains. d itself is left untouched.
func (l *List) Apply(d *diff.ClassDiff) *diff.ClassDiff {
	if d == nil {
		return nil
	}
	if l == nil {
		return d
	}

	out := *d
	matched := false
	for i := range l.Classes {
		entry := &l.Classes[i]
		if entry.Name != d.Path {
			continue
		}
		matched = true
		if entry.IgnoreSuper == "" && len(entry.IgnoreMethods) == 0 {
			return nil
		}
		if entry.IgnoreSuper != "" && out.SuperPath != nil && out.SuperPath.Cmp == entry.IgnoreSuper {
			out.SuperPath = nil
		}
		if len(entry.IgnoreMethods) > 0 {
			out.Methods = slices.DeleteFunc(slices.Clone(out.Methods), func(md diff.MethodDiff) bool {
				return slices.ContainsFunc(entry.IgnoreMethods, func(m Method) bool {
					return m.matches(md.Method)
				})
			})
		}
	}
	if !matched {
		return d
	}
	if out.Empty() {
		return nil
	}
	return &out
}

// NotFoundIgnored reports whether a smali file missing from the reference
// tree is expected. rel is relative to a smali root.
func (l *List) NotFoundIgnored(rel string) bool {
	if l == nil {
		return false
	}
	rel = path.Clean(filepath.ToSlash(rel))
	for _, p := range l.NotFound {
		if path.Clean(filepath.ToSlash(p)) == rel {
			return true
		}
	}
	return false
}
