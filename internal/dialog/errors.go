package dialog

import "errors"

var (
	// ErrCancelled means the dialog ended without a value.
	ErrCancelled = errors.New("dialog cancelled")
	// ErrDialogUsed is returned by a second Present on a single-shot dialog.
	ErrDialogUsed = errors.New("dialog already presented")
	// ErrDismissed may be returned by a Prompter when its window was closed.
	ErrDismissed = errors.New("dialog dismissed")
)
