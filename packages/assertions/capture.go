package assertions

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
)

// Failure is the error returned by Capture when the checks failed.
type Failure struct {
	Messages []string
}

func (f *Failure) Error() string {
	if len(f.Messages) == 0 {
		return "check failed"
	}
	return strings.Join(f.Messages, "\n")
}

// Summary returns the Error and Messages sections of the first failure
// reported through testify, without the trace. Other messages are
// returned as they are.
func (f *Failure) Summary() string {
	if len(f.Messages) == 0 {
		return f.Error()
	}
	msg := f.Messages[0]

	var (
		label string
		parts []string
	)
	for _, line := range strings.Split(msg, "\n") {
		head, rest, ok := strings.Cut(strings.TrimLeft(line, "\t"), "\t")
		if !ok {
			if label == "" {
				continue
			}
			rest = line
		} else if h := strings.TrimSpace(head); h != "" {
			label = strings.TrimSuffix(h, ":")
		}
		if label == "Error" || label == "Messages" {
			parts = append(parts, rest)
		}
	}
	if len(parts) == 0 {
		return msg
	}
	return strings.Join(parts, "\n")
}

// Capture runs fn with a TestingT that records failures instead of failing
// a test. FailNow stops fn the same way it stops a test. It returns nil if
// nothing was reported, otherwise a *Failure. Panics in fn are re-raised.
func Capture(fn func(t TestingT)) error {
	r := &recorder{}
	done := make(chan struct{})
	var panicked any

	go func() {
		defer close(done)
		defer func() {
			panicked = recover()
		}()
		fn(r)
	}()
	<-done

	if panicked != nil {
		panic(panicked)
	}
	return r.err()
}

type recorder struct {
	mu       sync.Mutex
	failed   bool
	messages []string
}

func (r *recorder) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = true
	r.messages = append(r.messages, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (r *recorder) FailNow() {
	r.mu.Lock()
	r.failed = true
	r.mu.Unlock()
	runtime.Goexit()
}

func (r *recorder) Helper() {}

func (r *recorder) err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.failed {
		return nil
	}
	return &Failure{Messages: r.messages}
}
