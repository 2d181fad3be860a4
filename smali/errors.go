package smali

import (
	"errors"
	"fmt"
)

var (
	ErrMissingClassPath     = errors.New("class declaration without class path")
	ErrMissingSuperPath     = errors.New("super declaration without super path")
	ErrMissingInterfacePath = errors.New("implements declaration without interface path")
	ErrInvalidClassPath     = errors.New("invalid class path")
	ErrInvalidField         = errors.New("invalid field declaration")
	ErrInvalidMethod        = errors.New("invalid method declaration")
	ErrTooManyClasses       = errors.New("multiple .class declarations found")
	ErrTooManySupers        = errors.New("multiple .super declarations found")
	ErrMissingClass         = errors.New(".class declaration not found")

	// ErrAssemblerState reports a failure of the assembly machinery itself
	// rather than of the input: a finished assembler was reused, or a
	// tokenizer worker panicked.
	ErrAssemblerState = errors.New("assembler in inconsistent state")
)

// SyntaxError ties one of the sentinel errors above to the text that
// triggered it: a whole source line for missing-payload and declaration
// errors, the raw token for invalid class paths.
type SyntaxError struct {
	Err   error
	Text  string
	Line  int // 1-based source line, 0 when unknown
	Cause error
}

func (e *SyntaxError) Error() string {
	msg := e.Err.Error()
	if e.Text != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Text)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

func (e *SyntaxError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func lineError(kind error, line string, cause error) *SyntaxError {
	return &SyntaxError{Err: kind, Text: line, Cause: cause}
}

// withLine stamps a line number onto a SyntaxError, leaving other errors as is.
func withLine(err error, n int) error {
	var se *SyntaxError
	if errors.As(err, &se) && se.Line == 0 {
		cp := *se
		cp.Line = n
		return &cp
	}
	return err
}
