// Package console provides the operator-facing prompts: a plain line console
// for pipes and dumb terminals, and a form console built on huh.
package console

import (
	"context"
)

// Choice is one entry of a single-key menu.
type Choice struct {
	Key   string
	Label string
}

// Console prompts the operator for free text and menu choices.
//
// Both methods return io.EOF when input ends or the operator cancels.
type Console interface {
	Prompt(ctx context.Context, message string) (string, error)
	Choose(ctx context.Context, title string, choices []Choice) (string, error)
}
