package main

import "errors"

// Argument errors (spec §7): reported with usage text, exit non-zero,
// before any Process is ever spawned.
var (
	ErrMissingCommands     = errors.New("at least one command is required")
	ErrMissingNamesValue   = errors.New("--names given with an empty value")
	ErrMissingLogName      = errors.New("a process name is required")
	ErrMissingSessionValue = errors.New("--session given with an empty value")
	ErrNameCountMismatch   = errors.New("--names count does not match the number of commands")
	ErrInvalidHeadValue    = errors.New("--head must be a positive integer")
	ErrInvalidTailValue    = errors.New("--tail must be a positive integer")
)
