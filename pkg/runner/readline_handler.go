package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/aretw0/romote/pkg/domain"
)

// ReadlineHandler is the terminal prompter: line editing plus history.
type ReadlineHandler struct {
	rl *readline.Instance
}

// NewReadlineHandler opens a readline instance on the controlling terminal.
// historyFile may be empty to disable history.
func NewReadlineHandler(historyFile string) (*ReadlineHandler, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal: %w", err)
	}
	return &ReadlineHandler{rl: rl}, nil
}

func (h *ReadlineHandler) Output(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCancelled, err)
	}
	_, err := fmt.Fprintln(h.rl.Stdout(), strings.TrimRight(msg, "\n"))
	return err
}

// Input reads one edited line. Ctrl+C and Ctrl+D map to domain.ErrCancelled.
func (h *ReadlineHandler) Input(ctx context.Context, prompt string) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrCancelled, err)
		}
		h.rl.SetPrompt(prompt)

		done := make(chan inputResult, 1)
		go func() {
			line, err := h.rl.Readline()
			done <- inputResult{text: line, err: err}
		}()

		var res inputResult
		select {
		case <-ctx.Done():
			// Unblocks the pending Readline; the instance is unusable afterwards.
			_ = h.rl.Close()
			return "", fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
		case res = <-done:
		}

		if res.err != nil {
			if errors.Is(res.err, readline.ErrInterrupt) || errors.Is(res.err, io.EOF) {
				return "", fmt.Errorf("%w: %w", domain.ErrCancelled, res.err)
			}
			return "", fmt.Errorf("input error: %w", res.err)
		}

		clean, err := SanitizeInput(res.text)
		if err != nil {
			fmt.Fprintf(h.rl.Stdout(), "Error: %v. Please try again.\n", err)
			continue
		}
		return clean, nil
	}
}

// Close restores the terminal.
func (h *ReadlineHandler) Close() error {
	return h.rl.Close()
}
