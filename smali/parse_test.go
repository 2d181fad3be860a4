package smali

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"
)

func TestParseSimpleClass(t *testing.T) {
	c, err := ParseString(".class Lbttv/test/Util;")
	if err != nil {
		t.Fatalf("Failed to parse class: %v", err)
	}
	want := &Class{Path: "bttv.test.Util", Access: AccessPackage}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("ParseString() = %+v, want %+v", c, want)
	}
}

func TestParseSuperClass(t *testing.T) {
	src := ".class public abstract Lbttv/test/Util;\n.super Lbttv/test/SuperClass$1;"
	c, err := ParseString(src)
	if err != nil {
		t.Fatalf("Failed to parse class: %v", err)
	}
	want := &Class{
		Path:       "bttv.test.Util",
		Access:     AccessPublic,
		IsAbstract: true,
		SuperPath:  "bttv.test.SuperClass$1",
	}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("ParseString() = %+v, want %+v", c, want)
	}
}

func TestParseInterfaces(t *testing.T) {
	src := `.class Lbttv/test/Util;
.implements Lbttv/test/Interface$1;
.implements Lbttv/test/Interface$2;
.implements Lbttv/test/Interface$3;
.implements Lbttv/test/Interface$2;`

	c, err := ParseString(src)
	if err != nil {
		t.Fatalf("Failed to parse class: %v", err)
	}
	if len(c.Interfaces) != 3 {
		t.Fatalf("Expected 3 interfaces, got %d: %v", len(c.Interfaces), c.Interfaces)
	}
	for _, i := range []string{"bttv.test.Interface$1", "bttv.test.Interface$2", "bttv.test.Interface$3"} {
		if !c.Implements(i) {
			t.Errorf("Expected %s in interfaces %v", i, c.Interfaces)
		}
	}
}

func TestParseFields(t *testing.T) {
	src := `.class public final enum Lbttv/test/Util$1;
.field private static final synthetic $VALUES:[Lbttv/test/Util$1;
.field public static final enum LIVE:Lbttv/test/Util$1;
.field public static final VOD:I
.field private final gqlVideoType:[Lbttv/test/Util$1;
.field private notSure:I`

	c, err := ParseString(src)
	if err != nil {
		t.Fatalf("Failed to parse class: %v", err)
	}
	if c.Path != "bttv.test.Util$1" {
		t.Errorf("Path = %q, want %q", c.Path, "bttv.test.Util$1")
	}
	if len(c.Fields) != 5 {
		t.Fatalf("Expected 5 fields, got %d", len(c.Fields))
	}

	want := []Field{
		{Name: "$VALUES", Access: AccessPrivate, IsFinal: true, IsStatic: true, Type: ArrayOf(Reference("bttv.test.Util$1"))},
		{Name: "LIVE", Access: AccessPublic, IsFinal: true, IsStatic: true, Type: Reference("bttv.test.Util$1")},
		{Name: "VOD", Access: AccessPublic, IsFinal: true, IsStatic: true, Type: Int},
		{Name: "gqlVideoType", Access: AccessPrivate, IsFinal: true, Type: ArrayOf(Reference("bttv.test.Util$1"))},
		{Name: "notSure", Access: AccessPrivate, Type: Int},
	}
	for _, w := range want {
		f := c.Field(w.Name)
		if f == nil {
			t.Errorf("Expected to find field %s", w.Name)
			continue
		}
		if *f != w {
			t.Errorf("Field(%q) = %+v, want %+v", w.Name, *f, w)
		}
	}
}

func TestParseFile(t *testing.T) {
	c, err := ParseFile("testdata/sleep_timer.smali")
	if err != nil {
		t.Fatalf("Failed to parse smali file: %v", err)
	}

	t.Run("header", func(t *testing.T) {
		if c.Path != "bttv.SleepTimer$2" {
			t.Errorf("Path = %q, want %q", c.Path, "bttv.SleepTimer$2")
		}
		if c.Access != AccessPackage {
			t.Errorf("Access = %q, want %q", c.Access, AccessPackage)
		}
		if c.IsAbstract {
			t.Error("Expected class to not be abstract")
		}
		if c.SuperPath != ObjectClass {
			t.Errorf("SuperPath = %q, want %q", c.SuperPath, ObjectClass)
		}
		if c.SimpleName() != "SleepTimer$2" || c.Package() != "bttv" {
			t.Errorf("SimpleName/Package = %q/%q", c.SimpleName(), c.Package())
		}
	})

	t.Run("interfaces", func(t *testing.T) {
		want := []string{"android.content.DialogInterface$OnClickListener"}
		if !reflect.DeepEqual(c.Interfaces, want) {
			t.Errorf("Interfaces = %v, want %v", c.Interfaces, want)
		}
	})

	t.Run("fields", func(t *testing.T) {
		if len(c.Fields) != 2 {
			t.Fatalf("Expected 2 fields, got %d", len(c.Fields))
		}
		for _, name := range []string{"val$minutes", "val$selected"} {
			want := Field{Name: name, Type: ArrayOf(Int), Access: AccessPackage, IsFinal: true}
			if f := c.Field(name); f == nil || *f != want {
				t.Errorf("Field(%q) = %+v, want %+v", name, f, want)
			}
		}
	})

	t.Run("methods", func(t *testing.T) {
		if len(c.Methods) != 2 {
			t.Fatalf("Expected 2 methods, got %d", len(c.Methods))
		}
		ctors := c.Constructors()
		if len(ctors) != 1 {
			t.Fatalf("Expected 1 constructor, got %d", len(ctors))
		}
		wantCtor := Method{Name: "<init>", Params: []Type{ArrayOf(Int), ArrayOf(Int)}, ReturnType: Void, Access: AccessPackage}
		if !reflect.DeepEqual(ctors[0], wantCtor) {
			t.Errorf("constructor = %+v, want %+v", ctors[0], wantCtor)
		}
		onClick := c.MethodsByName("onClick")
		if len(onClick) != 1 {
			t.Fatalf("Expected 1 onClick method, got %d", len(onClick))
		}
		if got := onClick[0].Descriptor(); got != "onClick(Landroid/content/DialogInterface;I)V" {
			t.Errorf("Descriptor() = %q", got)
		}
		if got := onClick[0].String(); got != "public void onClick(android.content.DialogInterface, int)" {
			t.Errorf("String() = %q", got)
		}
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		line int
	}{
		{"no class", ".super Ljava/lang/Object;\n.field x:I", ErrMissingClass, 0},
		{"empty input", "", ErrMissingClass, 0},
		{"two classes", ".class La;\n.class Lb;", ErrTooManyClasses, 2},
		{"two supers", ".class La;\n.super Lb;\n.super Lc;", ErrTooManySupers, 3},
		{"bad field", ".class La;\n\n.field broken", ErrInvalidField, 3},
		{"bad method", ".class La;\n.method foo(\n.end method", ErrInvalidMethod, 2},
		{"bad super", ".class La;\n.super java/lang/Object", ErrInvalidClassPath, 2},
		{"bare class", ".class public final", ErrMissingClassPath, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseString(tt.src, WithWorkers(4))
			if c != nil {
				t.Errorf("Expected no class on failure, got %+v", c)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if tt.line == 0 {
				return
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Expected *SyntaxError, got %T", err)
			}
			if se.Line != tt.line {
				t.Errorf("Line = %d, want %d", se.Line, tt.line)
			}
		})
	}
}

// sortedMembers renders a class with its unordered collections sorted, so
// that classes can be compared by set membership.
func sortedMembers(c *Class) string {
	var fields, methods []string
	for _, f := range c.Fields {
		fields = append(fields, f.String())
	}
	for _, m := range c.Methods {
		methods = append(methods, m.String())
	}
	interfaces := append([]string(nil), c.Interfaces...)
	sort.Strings(fields)
	sort.Strings(methods)
	sort.Strings(interfaces)
	return fmt.Sprintf("%s %s %v super=%s\n%v\n%v\n%v",
		c.Access, c.Path, c.IsAbstract, c.SuperPath, interfaces, fields, methods)
}

func TestParseWorkerCounts(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(".class public Lbttv/Big;\n.super Ljava/lang/Object;\n")
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&sb, ".field private f%03d:I\n", i)
		fmt.Fprintf(&sb, ".method public m%03d(I[Ljava/lang/String;)V\n    return-void\n.end method\n", i)
		fmt.Fprintf(&sb, ".implements Lbttv/I%d;\n", i%7)
	}
	src := sb.String()

	var first string
	for _, workers := range []int{0, 1, 2, 3, 16, 1000} {
		c, err := ParseString(src, WithWorkers(workers))
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if len(c.Fields) != 200 || len(c.Methods) != 200 || len(c.Interfaces) != 7 {
			t.Fatalf("workers=%d: got %d fields, %d methods, %d interfaces",
				workers, len(c.Fields), len(c.Methods), len(c.Interfaces))
		}
		got := sortedMembers(c)
		if first == "" {
			first = got
			continue
		}
		if got != first {
			t.Errorf("workers=%d: members differ from workers=0", workers)
		}
	}
}

// padded returns a class body with n field lines between head and tail.
func padded(head string, n int, tail ...string) string {
	var sb strings.Builder
	sb.WriteString(head + "\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, ".field f%d:I\n", i)
	}
	for _, l := range tail {
		sb.WriteString(l + "\n")
	}
	return sb.String()
}

func TestParseErrorLineIsStable(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		line int
		text string
	}{
		{
			name: "duplicate class far apart",
			src:  padded(".class La;", 1000, ".class Lb;"),
			want: ErrTooManyClasses,
			line: 1002,
			text: ".class Lb;",
		},
		{
			name: "three classes",
			src:  padded(".class La;", 500, ".class Lb;", ".field g:I", ".class Lc;"),
			want: ErrTooManyClasses,
			line: 502,
			text: ".class Lb;",
		},
		{
			name: "duplicate super",
			src:  padded(".class La;\n.super Ljava/lang/Object;", 800, ".super Lb;"),
			want: ErrTooManySupers,
			line: 803,
			text: ".super Lb;",
		},
		{
			name: "lowest bad line wins",
			src:  padded(".class La;", 1000, ".field broken", ".method bad(", ".class Lb;") + strings.Repeat(".field x:I\n", 10) + ".field alsobroken\n",
			want: ErrInvalidField,
			line: 1002,
			text: ".field broken",
		},
		{
			name: "bad line before duplicate class",
			src:  ".class La;\n.field broken\n" + padded(".class Lb;", 1000),
			want: ErrInvalidField,
			line: 2,
			text: ".field broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				_, err := ParseString(tt.src, WithWorkers(8))
				if !errors.Is(err, tt.want) {
					t.Fatalf("run %d: error = %v, want %v", i, err, tt.want)
				}
				var se *SyntaxError
				if !errors.As(err, &se) {
					t.Fatalf("run %d: expected *SyntaxError, got %T", i, err)
				}
				if se.Line != tt.line || se.Text != tt.text {
					t.Fatalf("run %d: reported line %d %q, want %d %q", i, se.Line, se.Text, tt.line, tt.text)
				}
			}
		})
	}
}

func TestAssemblerConcurrentAdd(t *testing.T) {
	asm := NewAssembler()
	class, _ := ParseClassLine(".class Lbttv/Concurrent;")

	var wg sync.WaitGroup
	var mu sync.Mutex
	var classErrs, superErrs int
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := asm.Add(Line{Kind: LineClass, Class: class}); errors.Is(err, ErrTooManyClasses) {
				mu.Lock()
				classErrs++
				mu.Unlock()
			}
			if err := asm.Add(Line{Kind: LineSuper, Path: "java.lang.Object"}); errors.Is(err, ErrTooManySupers) {
				mu.Lock()
				superErrs++
				mu.Unlock()
			}
			asm.Add(Line{Kind: LineField, Field: Field{Name: fmt.Sprintf("f%d", i), Type: Int}})
			asm.Add(Line{Kind: LineMethod, Method: Method{Name: fmt.Sprintf("m%d", i), ReturnType: Void}})
			asm.Add(Line{Kind: LineImplements, Path: "java.lang.Runnable"})
		}(i)
	}
	wg.Wait()

	if classErrs != 49 {
		t.Errorf("Expected 49 ErrTooManyClasses, got %d", classErrs)
	}
	if superErrs != 49 {
		t.Errorf("Expected 49 ErrTooManySupers, got %d", superErrs)
	}

	c, err := asm.Finish()
	if err != nil {
		t.Fatalf("Finish error: %v", err)
	}
	if len(c.Fields) != 50 || len(c.Methods) != 50 {
		t.Errorf("got %d fields and %d methods, want 50 each", len(c.Fields), len(c.Methods))
	}
	if !reflect.DeepEqual(c.Interfaces, []string{"java.lang.Runnable"}) {
		t.Errorf("Interfaces = %v", c.Interfaces)
	}
}

func TestAssemblerReuse(t *testing.T) {
	asm := NewAssembler()
	if _, err := asm.Finish(); !errors.Is(err, ErrMissingClass) {
		t.Fatalf("error = %v, want ErrMissingClass", err)
	}
	if _, err := asm.Finish(); !errors.Is(err, ErrAssemblerState) {
		t.Errorf("second Finish error = %v, want ErrAssemblerState", err)
	}
	if err := asm.Add(Line{Kind: LineOther}); !errors.Is(err, ErrAssemblerState) {
		t.Errorf("Add after Finish error = %v, want ErrAssemblerState", err)
	}
}
