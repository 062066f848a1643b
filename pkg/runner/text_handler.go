package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/romote/pkg/domain"
)

// TextHandler is a line-oriented prompter over plain reader/writer pairs.
// It reads on a background pump so that a pending prompt still observes
// context cancellation.
type TextHandler struct {
	Reader *bufio.Reader
	Writer io.Writer

	inputChan chan inputResult
	feedChan  chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// NewTextHandler creates a handler for standard text IO.
// A nil reader or writer falls back to os.Stdin / os.Stdout.
func NewTextHandler(r io.Reader, w io.Writer) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &TextHandler{
		Reader:   bufio.NewReader(r),
		Writer:   w,
		feedChan: make(chan inputResult),
	}
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')

		// A final line without terminator is still a line.
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}

		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// feedInput injects a line as if it had been read from the reader.
// It blocks until a pending Input receives it.
func (h *TextHandler) feedInput(text string, err error) {
	h.feedChan <- inputResult{text: text, err: err}
}

// Output writes msg followed by a newline.
func (h *TextHandler) Output(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCancelled, err)
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimRight(msg, "\n"))
	return err
}

// Input prints prompt and waits for one line. The line terminator is
// removed; surrounding spaces are kept. End of input counts as cancellation.
func (h *TextHandler) Input(ctx context.Context, prompt string) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
		default:
			fmt.Fprint(h.Writer, prompt)
		}

		select {
		case <-ctx.Done():
			// Don't print anything here, just exit silently
			return "", fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
		case res, ok := <-h.inputChan:
			if !ok {
				return "", fmt.Errorf("%w: %w", domain.ErrCancelled, io.EOF)
			}
			line, retry, err := h.accept(res)
			if retry {
				continue
			}
			return line, err
		case res := <-h.feedChan:
			line, retry, err := h.accept(res)
			if retry {
				continue
			}
			return line, err
		}
	}
}

func (h *TextHandler) accept(res inputResult) (line string, retry bool, err error) {
	if res.err != nil {
		return "", false, fmt.Errorf("input error: %w", res.err)
	}
	clean, err := SanitizeInput(trimLineEnding(res.text))
	if err != nil {
		fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
		return "", true, nil
	}
	return clean, false, nil
}
