package errhandler

import (
	"errors"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
)

// IsAbort reports whether err means the user backed out of a prompt.
func IsAbort(err error) bool {
	return errors.Is(err, huh.ErrUserAborted) || errors.Is(err, terminal.InterruptErr)
}

// HandleAbort prints the cancel notice for prompt aborts and swallows them.
// Every other error is returned unchanged.
func HandleAbort(err error) error {
	if err == nil || !IsAbort(err) {
		return err
	}

	pterm.Warning.Println("Operation Cancelled")
	return nil
}
