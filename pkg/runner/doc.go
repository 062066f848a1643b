/*
Package runner holds the interactive IO plumbing used by the remote:
prompters that satisfy ports.Prompter, the input sanitizer, and the
signal manager that turns Ctrl+C into context cancellation.

# Prompters

  - TextHandler: plain line reader for pipes, scripts and tests.
  - ReadlineHandler: line editing and history on a terminal.

Both strip the line terminator only, so literal text keeps its spaces,
and both report end of input or an interrupt as domain.ErrCancelled.

# Usage

	sm := runner.NewSignalManager(context.Background())
	defer sm.Stop()

	p := runner.NewTextHandler(os.Stdin, os.Stdout)
	line, err := p.Input(sm.Context(), "> ")
*/
package runner
