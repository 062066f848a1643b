package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/romote/internal/logging"
	"github.com/aretw0/romote/pkg/domain"
	"github.com/aretw0/romote/pkg/ports"
	"github.com/aretw0/romote/pkg/registry"
	"github.com/aretw0/romote/pkg/session"
)

const (
	MsgTransient     = "Could not contact device. Command not sent."
	MsgRejected      = "Device rejected the command."
	MsgInvalidOption = "Please enter a valid option."
	MsgRecent        = "Most recent command: [%s]"

	PromptCommand = "Enter a command and press ENTER or leave blank and ENTER to use most recent command: "
	PromptText    = "Enter text: "
)

// Result classifies one dispatched command.
type Result int

const (
	ResultOK Result = iota
	ResultTransientFailure
	ResultRejected
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultTransientFailure:
		return "transient_failure"
	case ResultRejected:
		return "rejected"
	}
	return "unknown"
}

// State is carried from one loop iteration to the next.
type State struct {
	// LastToken is the most recent command that reached the device. Empty means none.
	LastToken string
}

// Dispatcher reads tokens from the prompter and relays them over the session.
type Dispatcher struct {
	sess     *session.Session
	reg      *registry.Registry
	prompter ports.Prompter
	render   TableRenderer
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTableRenderer replaces PlainTable.
func WithTableRenderer(r TableRenderer) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.render = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithHooks registers lifecycle observers.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}

// New takes ownership of sess. A session can back only one dispatcher.
func New(sess *session.Session, reg *registry.Registry, prompter ports.Prompter, opts ...Option) (*Dispatcher, error) {
	if sess == nil || reg == nil || prompter == nil {
		return nil, errors.New("dispatch: session, registry and prompter are required")
	}
	if err := sess.Claim(); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	d := &Dispatcher{
		sess:     sess,
		reg:      reg,
		prompter: prompter,
		render:   PlainTable,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run loops until the user cancels, which returns nil. Transient failures
// and device rejections are reported and the loop continues.
func (d *Dispatcher) Run(ctx context.Context) error {
	var st State
	for {
		next, err := d.Step(ctx, st)
		if err != nil {
			if errors.Is(err, domain.ErrCancelled) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		st = next
	}
}

// Step runs one iteration: show the table, read a token, send it.
func (d *Dispatcher) Step(ctx context.Context, st State) (State, error) {
	if err := d.prompter.Output(ctx, d.render(d.reg.Specs())); err != nil {
		return st, err
	}
	if err := d.prompter.Output(ctx, ""); err != nil {
		return st, err
	}

	spec, err := d.readCommand(ctx, st)
	if err != nil {
		return st, err
	}

	var arg string
	if spec.RequiresArgument {
		if arg, err = d.prompter.Input(ctx, PromptText); err != nil {
			return st, err
		}
	}

	res, err := d.SafeInvoke(ctx, spec, arg)
	if err != nil {
		return st, err
	}
	if res == ResultOK {
		st.LastToken = spec.Token
	}
	return st, nil
}

func (d *Dispatcher) readCommand(ctx context.Context, st State) (registry.Spec, error) {
	for {
		if st.LastToken != "" {
			if err := d.prompter.Output(ctx, fmt.Sprintf(MsgRecent, st.LastToken)); err != nil {
				return registry.Spec{}, err
			}
		}
		line, err := d.prompter.Input(ctx, PromptCommand)
		if err != nil {
			return registry.Spec{}, err
		}

		token := strings.TrimSpace(line)
		if token == "" {
			if st.LastToken == "" {
				continue
			}
			token = st.LastToken
		}
		if spec, ok := d.reg.Lookup(token); ok {
			return spec, nil
		}
		if err := d.prompter.Output(ctx, MsgInvalidOption); err != nil {
			return registry.Spec{}, err
		}
	}
}

// SafeInvoke sends spec over the session and classifies the outcome.
// Connectivity failures and device rejections are reported to the user and
// returned as results; only cancellation and unclassified errors escape.
func (d *Dispatcher) SafeInvoke(ctx context.Context, spec registry.Spec, arg string) (Result, error) {
	start := time.Now()
	err := d.sess.Invoke(ctx, spec.Command, arg)

	res := ResultOK
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return ResultOK, fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
	case domain.IsTransient(err):
		res = ResultTransientFailure
	case errors.Is(err, domain.ErrRejected):
		res = ResultRejected
	default:
		return ResultOK, fmt.Errorf("failed to send %q: %w", spec.Token, err)
	}

	if d.hooks.OnCommand != nil {
		d.hooks.OnCommand(ctx, &domain.CommandEvent{
			EventBase: domain.NewEventBase(domain.EventCommand),
			Token:     spec.Token,
			Command:   spec.Command,
			Result:    res.String(),
			Latency:   time.Since(start),
			Err:       err,
		})
	}

	switch res {
	case ResultTransientFailure:
		d.logger.Info("Command not sent", "token", spec.Token, "address", d.sess.Address(), "err", err)
		return res, d.prompter.Output(ctx, MsgTransient)
	case ResultRejected:
		d.logger.Info("Command rejected", "token", spec.Token, "address", d.sess.Address(), "err", err)
		return res, d.prompter.Output(ctx, MsgRejected)
	}
	d.logger.Debug("Command sent", "token", spec.Token, "command", spec.Command)
	return res, nil
}
