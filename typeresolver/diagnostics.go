package typeresolver

import (
	"errors"
	"fmt"

	tok "github.com/tealwasm/tlfront/tokenizer"
)

// Sentinel errors - resolution related
var (
	ErrResolutionFailed = errors.New("resolution failed")
	ErrUnknownType      = errors.New("unknown type")
	ErrDuplicateDecl    = errors.New("duplicate declaration")
	ErrNotAnInterface   = errors.New("not a record or interface")
	ErrUnresolvedGoto   = errors.New("unresolved goto")
	ErrRecursiveType    = errors.New("self-referential type")
	ErrDuplicateVariant = errors.New("duplicate enum variant")
	ErrTooManyErrors    = errors.New("too many errors")
)

// Severity represents diagnostic severity level
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is one resolution finding. Diagnostics accumulate per unit
// instead of aborting on the first problem, so one pass can report
// several independent type errors.
type Diagnostic struct {
	Severity Severity
	Kind     error // classifying sentinel
	Message  string
	Span     tok.Span
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("[%s] %s at line %d, column %d",
		d.Severity, d.Message, d.Span.Start.Line, d.Span.Start.Column)
}

func (d Diagnostic) Unwrap() error { return d.Kind }
