package smali

import "strings"

// Kind is the base kind of a Type. Array types keep the kind of their
// innermost element and record the nesting in ArrayDepth.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBoolean
	KindByte
	KindChar
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindReference
)

var kindNames = [...]string{
	KindVoid:      "void",
	KindBoolean:   "boolean",
	KindByte:      "byte",
	KindChar:      "char",
	KindShort:     "short",
	KindInt:       "int",
	KindLong:      "long",
	KindFloat:     "float",
	KindDouble:    "double",
	KindReference: "reference",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Type is a value type: two Types are equal iff they compare equal with ==.
//
// Array(T) is represented by T with ArrayDepth incremented, so
// Array(Array(Int)) is Type{Kind: KindInt, ArrayDepth: 2}.
type Type struct {
	Kind       Kind
	Path       string // dotted class path, only for KindReference
	ArrayDepth int
}

var (
	Void    = Type{Kind: KindVoid}
	Boolean = Type{Kind: KindBoolean}
	Byte    = Type{Kind: KindByte}
	Char    = Type{Kind: KindChar}
	Short   = Type{Kind: KindShort}
	Int     = Type{Kind: KindInt}
	Long    = Type{Kind: KindLong}
	Float   = Type{Kind: KindFloat}
	Double  = Type{Kind: KindDouble}
)

// Reference returns the object type for a dotted class path.
func Reference(path string) Type {
	return Type{Kind: KindReference, Path: path}
}

// ArrayOf wraps t in one array layer.
func ArrayOf(t Type) Type {
	t.ArrayDepth++
	return t
}

func (t Type) IsArray() bool {
	return t.ArrayDepth > 0
}

func (t Type) IsReference() bool {
	return t.Kind == KindReference && t.ArrayDepth == 0
}

func (t Type) IsPrimitive() bool {
	return t.Kind != KindReference && t.ArrayDepth == 0
}

// Elem returns the element type of an array type, or t itself.
func (t Type) Elem() Type {
	if t.ArrayDepth == 0 {
		return t
	}
	t.ArrayDepth--
	return t
}

// String renders t the way Java source spells it, e.g. "java.lang.String[]".
func (t Type) String() string {
	var sb strings.Builder
	if t.Kind == KindReference {
		sb.WriteString(t.Path)
	} else {
		sb.WriteString(t.Kind.String())
	}
	for i := 0; i < t.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

// Descriptor renders t in its compact signature form, e.g. "[Ljava/lang/String;".
func (t Type) Descriptor() string {
	var sb strings.Builder
	for i := 0; i < t.ArrayDepth; i++ {
		sb.WriteByte('[')
	}
	if t.Kind == KindReference {
		sb.WriteString(EncodeReference(t.Path))
	} else {
		sb.WriteByte(primitiveCodes[t.Kind])
	}
	return sb.String()
}

var primitiveCodes = [...]byte{
	KindVoid:    'V',
	KindBoolean: 'Z',
	KindByte:    'B',
	KindChar:    'C',
	KindShort:   'S',
	KindInt:     'I',
	KindLong:    'J',
	KindFloat:   'F',
	KindDouble:  'D',
}

func primitive(c byte) (Type, bool) {
	switch c {
	case 'V':
		return Void, true
	case 'Z':
		return Boolean, true
	case 'B':
		return Byte, true
	case 'C':
		return Char, true
	case 'S':
		return Short, true
	case 'I':
		return Int, true
	case 'J':
		return Long, true
	case 'F':
		return Float, true
	case 'D':
		return Double, true
	}
	return Type{}, false
}

// ParseType parses exactly one signature token: any number of '[' followed
// by a one-letter primitive code or an "L...;" reference. A token that is
// neither, or an array of void, is reported as an invalid class path
// echoing the raw token.
func ParseType(token string) (Type, error) {
	depth := 0
	for depth < len(token) && token[depth] == '[' {
		depth++
	}
	base := token[depth:]

	var t Type
	if len(base) == 1 {
		p, ok := primitive(base[0])
		if !ok || (p == Void && depth > 0) {
			return Type{}, &SyntaxError{Err: ErrInvalidClassPath, Text: token}
		}
		t = p
	} else {
		path, err := DecodeReference(base)
		if err != nil {
			return Type{}, &SyntaxError{Err: ErrInvalidClassPath, Text: token}
		}
		t = Reference(path)
	}
	t.ArrayDepth = depth
	return t, nil
}

// DecodeReference translates "Lbttv/test/Util;" into "bttv.test.Util".
func DecodeReference(token string) (string, error) {
	if len(token) < 3 || token[0] != 'L' || token[len(token)-1] != ';' {
		return "", &SyntaxError{Err: ErrInvalidClassPath, Text: token}
	}
	body := token[1 : len(token)-1]
	if strings.ContainsRune(body, ';') {
		return "", &SyntaxError{Err: ErrInvalidClassPath, Text: token}
	}

	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '/' {
			sb.WriteByte('.')
		} else {
			sb.WriteByte(body[i])
		}
	}
	return sb.String(), nil
}

// EncodeReference is the inverse of DecodeReference.
func EncodeReference(path string) string {
	return "L" + strings.ReplaceAll(path, ".", "/") + ";"
}
