package main

import "errors"

// Sentinel errors for command operations
var (
	ErrNoSources       = errors.New("no teal sources found")
	ErrCheckFailed     = errors.New("one or more units failed the check")
	ErrUnsupportedFile = errors.New("not a teal source file")
	ErrTreeDumpFormat  = errors.New("syntax tree dumps support only yaml output")
)
