package engine

import "errors"

var (
	// ErrInvalidInput marks an input event with no resolvable position or an
	// out-of-range request.
	ErrInvalidInput = errors.New("invalid input event")
	// ErrHistoryUnderflow marks undo at the floor or redo with nothing undone.
	ErrHistoryUnderflow = errors.New("nothing to undo or redo")
	// ErrEmptyText marks a commit of blank pending text.
	ErrEmptyText = errors.New("empty text")
	// ErrRestore marks a snapshot that could not be applied to the surface.
	ErrRestore = errors.New("restore failed")
)
