package compare

import (
	"fmt"

	"github.com/dhamidi/ubi/diff"
)

type Status int

const (
	StatusOK Status = iota
	StatusDifferent
	StatusFailed
	StatusNotFound
)

var statusNames = [...]string{
	StatusOK:        "ok",
	StatusDifferent: "different",
	StatusFailed:    "failed",
	StatusNotFound:  "not-found",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome for one smali file. Path is slash separated and
// relative to the mock smali root. Diff is set only for StatusDifferent,
// Err only for StatusFailed.
type Result struct {
	Path      string
	Reference string
	Status    Status
	Diff      *diff.ClassDiff
	Err       error
}

type Summary struct {
	OK        int
	Different int
	Failed    int
	NotFound  int
}

func (s *Summary) Add(r Result) {
	switch r.Status {
	case StatusOK:
		s.OK++
	case StatusDifferent:
		s.Different++
	case StatusFailed:
		s.Failed++
	case StatusNotFound:
		s.NotFound++
	}
}

func (s Summary) Total() int {
	return s.OK + s.Different + s.Failed + s.NotFound
}

// Clean reports whether no compared class differed or failed to parse.
// Missing reference files do not make a run unclean.
func (s Summary) Clean() bool {
	return s.Different == 0 && s.Failed == 0
}

func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		s.Add(r)
	}
	return s
}
