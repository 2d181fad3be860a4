package smali

import "strings"

const (
	directiveClass      = ".class"
	directiveSuper      = ".super"
	directiveImplements = ".implements"
	directiveField      = ".field"
	directiveMethod     = ".method"
)

// ParseClassLine parses a ".class" line into an otherwise empty Class.
func ParseClassLine(line string) (*Class, error) {
	mods, tok, ok := payload(line, directiveClass)
	if !ok {
		return nil, lineError(ErrMissingClassPath, line, nil)
	}
	path, err := DecodeReference(tok)
	if err != nil {
		return nil, err
	}
	return &Class{
		Path:       path,
		Access:     mods.access,
		IsAbstract: mods.isAbstract,
	}, nil
}

// ParseSuperLine returns the dotted super class path of a ".super" line.
func ParseSuperLine(line string) (string, error) {
	_, tok, ok := payload(line, directiveSuper)
	if !ok {
		return "", lineError(ErrMissingSuperPath, line, nil)
	}
	return DecodeReference(tok)
}

// ParseImplementsLine returns the dotted interface path of an ".implements" line.
func ParseImplementsLine(line string) (string, error) {
	_, tok, ok := payload(line, directiveImplements)
	if !ok {
		return "", lineError(ErrMissingInterfacePath, line, nil)
	}
	return DecodeReference(tok)
}

// ParseFieldLine parses a ".field" line. An initializer such as "= 2.0f"
// follows the payload token and is not looked at.
func ParseFieldLine(line string) (Field, error) {
	mods, tok, ok := payload(line, directiveField)
	if !ok {
		return Field{}, lineError(ErrInvalidField, line, nil)
	}
	name, sig, found := strings.Cut(tok, ":")
	if !found || name == "" || sig == "" {
		return Field{}, lineError(ErrInvalidField, line, nil)
	}
	typ, err := ParseType(sig)
	if err != nil {
		return Field{}, lineError(ErrInvalidField, line, err)
	}
	if typ == Void {
		return Field{}, lineError(ErrInvalidField, line, nil)
	}
	return Field{
		Name:     name,
		Type:     typ,
		Access:   mods.access,
		IsStatic: mods.isStatic,
		IsFinal:  mods.isFinal,
	}, nil
}

// ParseMethodLine parses a ".method" line header.
func ParseMethodLine(line string) (Method, error) {
	mods, tok, ok := payload(line, directiveMethod)
	if !ok {
		return Method{}, lineError(ErrInvalidMethod, line, nil)
	}
	name, params, ret, err := scanMethod(tok)
	if err != nil {
		return Method{}, lineError(ErrInvalidMethod, line, err)
	}
	return Method{
		Name:       name,
		Params:     params,
		ReturnType: ret,
		Access:     mods.access,
		IsStatic:   mods.isStatic,
		IsFinal:    mods.isFinal,
	}, nil
}
