package ports

import "context"

// Prompter is the line-oriented interactive surface.
type Prompter interface {
	// Output presents a message to the user.
	Output(ctx context.Context, msg string) error

	// Input shows prompt and reads one line with the line terminator removed.
	// Returns domain.ErrCancelled when the user interrupts the prompt.
	Input(ctx context.Context, prompt string) (string, error)
}
