// Package errors extends the standard library errors with annotations that end up in structured logs.
//
// Wrap records the caller's source location together with optional [slog.Attr] annotations. SlogError flattens
// the annotations of the whole error chain into a single log attribute so that the context gathered while the
// error bubbled up is not lost.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

const (
	groupKey       = "error"
	annotationsKey = "annotations"
	messageKey     = "message"
	sourceKey      = "source"
)

type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	pc    uintptr
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// NewSentinel creates an error meant to be compared with [Is]. It carries no source location.
func NewSentinel(msg string) error {
	return stderrors.New(msg) //nolint:err113 // sentinel constructor
}

// New creates an error annotated with the caller's source location and the given attributes.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, err: nil, attrs: attrs, pc: callerPC(3)} //nolint:mnd // skip New and Callers
}

// Wrap annotates err with a message, the caller's source location and the given attributes.
//
// Returns nil if err is nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return &annotatedError{msg: msg, err: err, attrs: attrs, pc: callerPC(3)} //nolint:mnd // skip Wrap and Callers
}

// DecoratePanic converts a recovered panic value into an error pointing to the line that panicked.
//
// Returns nil if v is nil.
func DecoratePanic(v any) error {
	if v == nil {
		return nil
	}
	if err, ok := v.(error); ok {
		return &annotatedError{msg: "panic", err: err, attrs: nil, pc: panicPC()}
	}
	return &annotatedError{msg: fmt.Sprintf("panic: %v", v), err: nil, attrs: nil, pc: panicPC()}
}

// SlogError returns a log attribute containing the error message, the source location of the innermost
// annotated error and the annotations collected from the whole chain.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{} //nolint:exhaustruct // empty attributes are ignored by slog
	}

	var (
		annotations []any
		pc          uintptr
	)
	walk(err, func(ae *annotatedError) {
		for _, attr := range ae.attrs {
			annotations = append(annotations, attr)
		}
		if ae.pc != 0 {
			pc = ae.pc
		}
	})

	attrs := []any{slog.String(messageKey, err.Error())}
	if pc != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
		attrs = append(attrs, slog.String(sourceKey, fmt.Sprintf("%s:%d", frame.File, frame.Line)))
	}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group(annotationsKey, annotations...))
	}
	return slog.Group(groupKey, attrs...)
}

// walk visits every annotated error in the chain, outermost first, including joined errors.
func walk(err error, visit func(*annotatedError)) {
	if err == nil {
		return
	}
	if ae, ok := err.(*annotatedError); ok { //nolint:errorlint // walking the chain manually
		visit(ae)
	}
	switch x := err.(type) { //nolint:errorlint // walking the chain manually
	case interface{ Unwrap() error }:
		walk(x.Unwrap(), visit)
	case interface{ Unwrap() []error }:
		for _, e := range x.Unwrap() {
			walk(e, visit)
		}
	}
}

func callerPC(skip int) uintptr {
	var pcs [1]uintptr
	if runtime.Callers(skip, pcs[:]) == 0 {
		return 0
	}
	return pcs[0]
}

// panicPC finds the frame that called panic by looking for the first frame after runtime.gopanic.
func panicPC() uintptr {
	const depth = 32
	pcs := make([]uintptr, depth)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	afterPanic := false
	for {
		frame, more := frames.Next()
		if afterPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			return frame.PC
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			return 0
		}
	}
}

// Is reports whether any error in err's tree matches target. See [stderrors.Is].
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target. See [stderrors.As].
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err. See [stderrors.Unwrap].
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join returns an error that wraps the given errors. See [stderrors.Join].
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
