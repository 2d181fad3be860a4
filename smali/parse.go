package smali

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

const maxLineSize = 16 << 20

type Option func(*options)

type options struct {
	workers int
}

// WithWorkers bounds the number of goroutines tokenizing lines.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

func ParseFile(path string, opts ...Option) (*Class, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open smali file: %w", err)
	}
	defer f.Close()
	return Parse(f, opts...)
}

func ParseString(src string, opts ...Option) (*Class, error) {
	return Parse(strings.NewReader(src), opts...)
}

// Parse reads one class worth of smali text.
func Parse(r io.Reader, opts ...Option) (*Class, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read smali source: %w", err)
	}
	return ParseLines(lines, opts...)
}

// ParseLines tokenizes lines in parallel and assembles the result. On
// failure no partial class is returned; the error is the one for the
// lowest failing line, independent of scheduling.
func ParseLines(lines []string, opts ...Option) (*Class, error) {
	o := options{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = 1
	}

	asm := NewAssembler()
	fail := &failure{}
	var g errgroup.Group
	g.SetLimit(o.workers)
	chunk := (len(lines) + o.workers - 1) / o.workers
	if chunk < 1 {
		chunk = 1
	}
	for start := 0; start < len(lines); start += chunk {
		end := min(start+chunk, len(lines))
		g.Go(func() error {
			assembleRange(asm, lines, start, end, fail)
			return nil
		})
	}
	g.Wait()
	if err := fail.get(); err != nil {
		return nil, err
	}
	return asm.Finish()
}

// failure keeps the error of the lowest failing line. Lines after it no
// longer need tokenizing.
type failure struct {
	mu   sync.Mutex
	line int
	err  error
}

func (f *failure) record(line int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil || line < f.line {
		f.line, f.err = line, err
	}
}

func (f *failure) past(line int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err != nil && line > f.line
}

func (f *failure) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func assembleRange(asm *Assembler, lines []string, start, end int, fail *failure) {
	n := start + 1
	defer func() {
		if r := recover(); r != nil {
			fail.record(n, &SyntaxError{Err: ErrAssemblerState, Line: n, Cause: fmt.Errorf("tokenizer panicked: %v", r)})
		}
	}()
	for i := start; i < end; i++ {
		n = i + 1
		if fail.past(n) {
			return
		}
		l, err := ParseLine(lines[i])
		if err != nil {
			fail.record(n, withLine(err, n))
			return
		}
		l.Number, l.Text = n, strings.TrimSpace(lines[i])
		if err := asm.Add(l); err != nil {
			var se *SyntaxError
			if errors.As(err, &se) {
				fail.record(se.Line, err)
			} else {
				fail.record(n, &SyntaxError{Err: err, Text: l.Text, Line: n})
			}
		}
	}
}
