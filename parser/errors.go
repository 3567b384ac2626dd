package parser

import (
	"errors"
	"fmt"
	"strings"

	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/tealwasm/tlfront/tokenizer"
)

// Sentinel errors - parser related
var (
	ErrInvalidSyntax       = errors.New("invalid syntax")
	ErrInvalidAssignTarget = errors.New("cannot assign to this expression")
	ErrIsNeedsName         = errors.New("left side of 'is' must be a plain variable")
	ErrVarargNotLast       = errors.New("'...' must be the last parameter")
)

// SyntaxError reports the furthest failure the grammar reached: the
// position, what was found there, and the alternatives that were viable.
type SyntaxError struct {
	Pos      tok.Position
	Expected []string
	Got      string // raw token text, empty at end of input
	Message  string // overrides the expected/got rendering when set
	Err      error  // wrapped sentinel, ErrInvalidSyntax when nil
}

func (e *SyntaxError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}

	got := e.Got
	if got == "" {
		got = "end of input"
	} else {
		got = "'" + got + "'"
	}

	if len(e.Expected) == 0 {
		return fmt.Sprintf("syntax error at line %d, column %d: unexpected %s", e.Pos.Line, e.Pos.Column, got)
	}

	return fmt.Sprintf("syntax error at line %d, column %d: unexpected %s, expected %s",
		e.Pos.Line, e.Pos.Column, got, strings.Join(e.Expected, " or "))
}

func (e *SyntaxError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidSyntax
}

// criticalError aborts the whole parse instead of backtracking. The
// combinator runtime stops on anything that unwraps to ErrCritical.
type criticalError struct {
	syntax *SyntaxError
}

func (e *criticalError) Error() string {
	return e.syntax.Error()
}

func (e *criticalError) Unwrap() error {
	return pc.ErrCritical
}

// critical wraps a SyntaxError so no enclosing alternative can recover it.
func critical(pos tok.Position, sentinel error, message string) error {
	return &criticalError{syntax: &SyntaxError{Pos: pos, Message: message, Err: sentinel}}
}
