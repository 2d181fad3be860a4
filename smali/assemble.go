package smali

import (
	"sort"
	"sync"
	"sync/atomic"
)

// slot is a value that may be written at most once. On a second write the
// slot keeps the fragment from the earlier source line and the error names
// the later one, whichever write happened first.
type slot[T any] struct {
	mu   sync.Mutex
	set  bool
	val  T
	line int
	text string
}

func (s *slot[T]) claim(v T, l Line, occupied error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		s.val, s.line, s.text, s.set = v, l.Number, l.Text, true
		return nil
	}
	line, text := l.Number, l.Text
	if line < s.line {
		s.val, s.line, s.text, line, text = v, line, text, s.line, s.text
	}
	if line == 0 {
		return occupied
	}
	return &SyntaxError{Err: occupied, Text: text, Line: line}
}

func (s *slot[T]) get() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.val, s.set
}

// bag is an unordered, concurrency safe collection.
type bag[T any] struct {
	mu    sync.Mutex
	items []T
}

func (b *bag[T]) push(v T) {
	b.mu.Lock()
	b.items = append(b.items, v)
	b.mu.Unlock()
}

func (b *bag[T]) drain() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := b.items
	b.items = nil
	return items
}

// Assembler merges line fragments into one Class. Add may be called from
// any number of goroutines; Finish must be called once, after every Add
// has returned. An Assembler is not reusable.
type Assembler struct {
	class      slot[*Class]
	super      slot[string]
	interfaces bag[string]
	fields     bag[Field]
	methods    bag[Method]
	finished   atomic.Bool
}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Add merges one fragment. A second class or super fragment fails with
// ErrTooManyClasses or ErrTooManySupers; when the fragments carry line
// numbers the error is a *SyntaxError for the later of the two lines.
func (a *Assembler) Add(l Line) error {
	if a.finished.Load() {
		return ErrAssemblerState
	}
	switch l.Kind {
	case LineClass:
		return a.class.claim(l.Class, l, ErrTooManyClasses)
	case LineSuper:
		return a.super.claim(l.Path, l, ErrTooManySupers)
	case LineImplements:
		a.interfaces.push(l.Path)
	case LineField:
		a.fields.push(l.Field)
	case LineMethod:
		a.methods.push(l.Method)
	}
	return nil
}

// Finish returns the assembled class, or ErrMissingClass when no class
// fragment was added.
//
// Interfaces are deduplicated. Interfaces, fields and methods are sorted
// so that output is stable, but callers must not depend on the order.
func (a *Assembler) Finish() (*Class, error) {
	if !a.finished.CompareAndSwap(false, true) {
		return nil, ErrAssemblerState
	}
	fragment, ok := a.class.get()
	if !ok || fragment == nil {
		return nil, ErrMissingClass
	}

	class := &Class{
		Path:       fragment.Path,
		Access:     fragment.Access,
		IsAbstract: fragment.IsAbstract,
	}
	class.SuperPath, _ = a.super.get()
	class.Interfaces = dedupe(a.interfaces.drain())
	class.Fields = a.fields.drain()
	class.Methods = a.methods.drain()

	sort.Slice(class.Fields, func(i, j int) bool {
		fi, fj := class.Fields[i], class.Fields[j]
		if fi.Name != fj.Name {
			return fi.Name < fj.Name
		}
		return fi.String() < fj.String()
	})
	sort.Slice(class.Methods, func(i, j int) bool {
		di, dj := class.Methods[i].Descriptor(), class.Methods[j].Descriptor()
		if di != dj {
			return di < dj
		}
		return class.Methods[i].String() < class.Methods[j].String()
	})
	return class, nil
}

func dedupe(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	sort.Strings(paths)
	out := paths[:1]
	for _, p := range paths[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
