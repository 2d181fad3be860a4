package smali

import "strings"

type Access string

const (
	AccessPublic    Access = "public"
	AccessProtected Access = "protected"
	AccessPrivate   Access = "private"
	AccessPackage   Access = "package"
)

// ObjectClass is the platform root class.
const ObjectClass = "java.lang.Object"

// Class is the declaration-level model of one smali file. SuperPath is ""
// when the input had no .super line.
type Class struct {
	Path       string
	Access     Access
	IsAbstract bool
	SuperPath  string
	Interfaces []string
	Fields     []Field
	Methods    []Method
}

type Field struct {
	Name     string
	Type     Type
	Access   Access
	IsStatic bool
	IsFinal  bool
}

type Method struct {
	Name       string
	Params     []Type
	ReturnType Type
	Access     Access
	IsStatic   bool
	IsFinal    bool
}

func (c *Class) SimpleName() string {
	if i := strings.LastIndexByte(c.Path, '.'); i >= 0 {
		return c.Path[i+1:]
	}
	return c.Path
}

func (c *Class) Package() string {
	if i := strings.LastIndexByte(c.Path, '.'); i >= 0 {
		return c.Path[:i]
	}
	return ""
}

func (c *Class) Implements(path string) bool {
	for _, i := range c.Interfaces {
		if i == path {
			return true
		}
	}
	return false
}

func (c *Class) Field(name string) *Field {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

func (c *Class) MethodsByName(name string) []Method {
	var methods []Method
	for _, m := range c.Methods {
		if m.Name == name {
			methods = append(methods, m)
		}
	}
	return methods
}

func (c *Class) Constructors() []Method {
	return c.MethodsByName("<init>")
}

func (f Field) String() string {
	var sb strings.Builder
	writeModifiers(&sb, f.Access, f.IsStatic, f.IsFinal)
	sb.WriteString(f.Type.String())
	sb.WriteByte(' ')
	sb.WriteString(f.Name)
	return sb.String()
}

// Descriptor renders the field as it appears in a .field line.
func (f Field) Descriptor() string {
	return f.Name + ":" + f.Type.Descriptor()
}

func (m Method) IsConstructor() bool {
	return m.Name == "<init>"
}

func (m Method) IsStaticInitializer() bool {
	return m.Name == "<clinit>"
}

// SameParams reports whether m and o take the same parameter sequence.
func (m Method) SameParams(o Method) bool {
	if len(m.Params) != len(o.Params) {
		return false
	}
	for i := range m.Params {
		if m.Params[i] != o.Params[i] {
			return false
		}
	}
	return true
}

func (m Method) String() string {
	var sb strings.Builder
	writeModifiers(&sb, m.Access, m.IsStatic, m.IsFinal)
	sb.WriteString(m.ReturnType.String())
	sb.WriteByte(' ')
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Descriptor renders the method as it appears in a .method line,
// e.g. "onClick(Landroid/content/DialogInterface;I)V".
func (m Method) Descriptor() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for _, p := range m.Params {
		sb.WriteString(p.Descriptor())
	}
	sb.WriteByte(')')
	sb.WriteString(m.ReturnType.Descriptor())
	return sb.String()
}

func writeModifiers(sb *strings.Builder, access Access, isStatic, isFinal bool) {
	if access != AccessPackage && access != "" {
		sb.WriteString(string(access))
		sb.WriteByte(' ')
	}
	if isStatic {
		sb.WriteString("static ")
	}
	if isFinal {
		sb.WriteString("final ")
	}
}
