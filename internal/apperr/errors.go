// Package apperr holds the sentinel errors shared across yk packages.
package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")

	ErrNoBaseDir = errors.New("source file has no parent directory")

	ErrNoSelection      = errors.New("no selection")
	ErrMalformedReply   = errors.New("malformed selector reply")
	ErrIndexOutOfRange  = errors.New("selection index out of range")
	ErrDelimiterInField = errors.New("field contains the selector delimiter")

	ErrClipboard     = errors.New("clipboard unavailable")
	ErrEmptyCommand  = errors.New("empty command")
	ErrCommandFailed = errors.New("command execution failed")
)
