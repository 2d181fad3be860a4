// Package diff compares two smali class models: an original (the mock
// build being validated) against a comparison (the reference disassembly).
package diff

import "github.com/dhamidi/ubi/smali"

type Options struct {
	// IgnoreDefaultConstructors suppresses diffs for an original
	// zero-argument <init> that has no exact counterpart.
	IgnoreDefaultConstructors bool
	// IgnoreObjectSuper suppresses the super class diff when the
	// original extends java.lang.Object.
	IgnoreObjectSuper bool
	// CompareFinal also reports fields whose final flag differs.
	CompareFinal bool
}

// Change holds an attribute's value in the original and in the comparison.
type Change[T any] struct {
	Orig T
	Cmp  T
}

func change[T comparable](orig, cmp T) *Change[T] {
	if orig == cmp {
		return nil
	}
	return &Change[T]{Orig: orig, Cmp: cmp}
}

// ClassDiff lists every mismatch found between two classes. A nil
// pointer or empty slice means that attribute matched. Path names the
// original class and is not itself a mismatch.
type ClassDiff struct {
	Path       string
	ClassPath  *Change[string]
	Access     *Change[smali.Access]
	IsAbstract *Change[bool]
	SuperPath  *Change[string]
	// Interfaces implemented by the original but not by the comparison.
	Interfaces []string
	Fields     []FieldDiff
	Methods    []MethodDiff
}

// Empty reports whether d records no mismatch at all.
func (d *ClassDiff) Empty() bool {
	return d == nil ||
		d.ClassPath == nil &&
			d.Access == nil &&
			d.IsAbstract == nil &&
			d.SuperPath == nil &&
			len(d.Interfaces) == 0 &&
			len(d.Fields) == 0 &&
			len(d.Methods) == 0
}

// FieldDiff describes one original field. NotFound means the comparison
// has no field of that name; the attribute changes are then all nil.
type FieldDiff struct {
	Name     string
	NotFound bool
	Type     *Change[smali.Type]
	Access   *Change[smali.Access]
	IsStatic *Change[bool]
	IsFinal  *Change[bool]
}

// MethodDiff describes one original method. NotFound means no comparison
// method has the same name and parameter sequence. Otherwise the return
// type differs and ReturnType is set. In both cases the same-named
// comparison methods with other parameters are listed as Alternatives.
type MethodDiff struct {
	Method       smali.Method
	NotFound     bool
	ReturnType   *Change[smali.Type]
	Access       *Change[smali.Access]
	IsStatic     *Change[bool]
	IsFinal      *Change[bool]
	Alternatives []smali.Method
}

// Diff compares orig against cmp and returns nil when they match.
// It neither mutates nor retains its inputs beyond sharing read-only
// slices of cmp in Alternatives.
func Diff(orig, cmp *smali.Class, opts Options) *ClassDiff {
	d := &ClassDiff{
		Path:       orig.Path,
		ClassPath:  change(orig.Path, cmp.Path),
		Access:     change(orig.Access, cmp.Access),
		IsAbstract: change(orig.IsAbstract, cmp.IsAbstract),
		SuperPath:  diffSuper(orig.SuperPath, cmp.SuperPath, opts),
		Interfaces: missingInterfaces(orig.Interfaces, cmp.Interfaces),
		Fields:     diffFields(orig.Fields, cmp.Fields, opts),
		Methods:    diffMethods(orig.Methods, cmp.Methods, opts),
	}
	if d.Empty() {
		return nil
	}
	return d
}

func diffSuper(orig, cmp string, opts Options) *Change[string] {
	if opts.IgnoreObjectSuper && orig == smali.ObjectClass {
		return nil
	}
	return change(orig, cmp)
}

func missingInterfaces(orig, cmp []string) []string {
	have := make(map[string]struct{}, len(cmp))
	for _, c := range cmp {
		have[c] = struct{}{}
	}
	var missing []string
	for _, o := range orig {
		if _, ok := have[o]; !ok {
			missing = append(missing, o)
		}
	}
	return missing
}

func diffFields(orig, cmp []smali.Field, opts Options) []FieldDiff {
	byName := make(map[string]smali.Field, len(cmp))
	for i := len(cmp) - 1; i >= 0; i-- {
		byName[cmp[i].Name] = cmp[i]
	}

	var diffs []FieldDiff
	for _, f := range orig {
		other, ok := byName[f.Name]
		if !ok {
			diffs = append(diffs, FieldDiff{Name: f.Name, NotFound: true})
			continue
		}
		fd := FieldDiff{
			Name:     f.Name,
			Type:     change(f.Type, other.Type),
			Access:   change(f.Access, other.Access),
			IsStatic: change(f.IsStatic, other.IsStatic),
		}
		if opts.CompareFinal {
			fd.IsFinal = change(f.IsFinal, other.IsFinal)
		}
		if fd.Type != nil || fd.Access != nil || fd.IsStatic != nil || fd.IsFinal != nil {
			diffs = append(diffs, fd)
		}
	}
	return diffs
}

func diffMethods(orig, cmp []smali.Method, opts Options) []MethodDiff {
	var diffs []MethodDiff
	for _, m := range orig {
		var (
			found        bool
			mismatch     *smali.Method
			alternatives []smali.Method
		)
		for i := range cmp {
			c := &cmp[i]
			if c.Name != m.Name {
				continue
			}
			if !ParamsEqual(m.Params, c.Params) {
				alternatives = append(alternatives, *c)
				continue
			}
			if c.ReturnType == m.ReturnType {
				found = true
				break
			}
			if mismatch == nil {
				mismatch = c
			}
		}
		if found {
			continue
		}
		if opts.IgnoreDefaultConstructors && m.IsConstructor() && len(m.Params) == 0 {
			continue
		}

		md := MethodDiff{Method: m, Alternatives: alternatives}
		if mismatch != nil {
			md.ReturnType = change(m.ReturnType, mismatch.ReturnType)
			md.Access = change(m.Access, mismatch.Access)
			md.IsStatic = change(m.IsStatic, mismatch.IsStatic)
			md.IsFinal = change(m.IsFinal, mismatch.IsFinal)
		} else {
			md.NotFound = true
		}
		diffs = append(diffs, md)
	}
	return diffs
}
