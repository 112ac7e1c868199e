// Package gate asks the operator to confirm before a destructive playlist
// overwrite.
//
// A Gate moves Idle -> AwaitingConfirmation -> Confirmed or Aborted. It is
// skipped (straight to Confirmed) when the target is empty.
package gate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/justestif/go-spotify-randomiser/internal/shared"
)

// DefaultToken is the literal the operator types to confirm.
const DefaultToken = "X"

// DefaultPrompt is formatted with the target name, its track count and the
// token.
const DefaultPrompt = "Target playlist, %s, contains %d tracks. Type %q to confirm overwrite:"

var (
	// ErrUserAborted is returned when the operator declines the overwrite.
	ErrUserAborted = errors.New("aborted by user")

	// ErrTargetNotEmptyUnconfirmed is returned when the prompt is left empty
	// or input ends. It matches ErrUserAborted.
	ErrTargetNotEmptyUnconfirmed = fmt.Errorf("%w: target is not empty", ErrUserAborted)
)

// State is a position in the confirmation state machine.
type State int

const (
	Idle State = iota
	AwaitingConfirmation
	Confirmed
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingConfirmation:
		return "awaiting-confirmation"
	case Confirmed:
		return "confirmed"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Console asks the operator a question and returns the line they typed.
// Implementations return io.EOF when input ends.
type Console interface {
	Prompt(ctx context.Context, message string) (string, error)
}

// Gate is a single-use confirmation gate.
type Gate struct {
	console   Console
	token     string
	prompt    string
	assumeYes bool
	state     State
	log       *log.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithToken sets the confirmation literal. Matching ignores case and
// surrounding whitespace.
func WithToken(token string) Option {
	return func(g *Gate) {
		if t := strings.TrimSpace(token); t != "" {
			g.token = t
		}
	}
}

// WithPrompt replaces DefaultPrompt. The format receives the same arguments.
func WithPrompt(format string) Option {
	return func(g *Gate) {
		if format != "" {
			g.prompt = format
		}
	}
}

// WithAssumeYes confirms without prompting. This is the explicit override
// used by non-interactive runs.
func WithAssumeYes(yes bool) Option {
	return func(g *Gate) {
		g.assumeYes = yes
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Gate) {
		g.log = shared.OrDiscard(l)
	}
}

// New creates a Gate in the Idle state.
func New(console Console, opts ...Option) *Gate {
	g := &Gate{
		console: console,
		token:   DefaultToken,
		prompt:  DefaultPrompt,
		state:   Idle,
		log:     shared.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the current state.
func (g *Gate) State() State {
	return g.state
}

// Check runs the gate for a target holding count tracks. It returns nil once
// Confirmed; otherwise the gate ends Aborted and the error matches
// ErrUserAborted. Console errors other than io.EOF are returned as is.
func (g *Gate) Check(ctx context.Context, targetName string, count int) error {
	if g.state != Idle {
		return fmt.Errorf("gate already used (state %s)", g.state)
	}

	if count <= 0 {
		g.state = Confirmed
		return nil
	}

	if g.assumeYes {
		g.log.Warn("Overwriting target without confirmation", "playlist", targetName, "tracks", count)
		g.state = Confirmed
		return nil
	}

	g.state = AwaitingConfirmation
	message := fmt.Sprintf(g.prompt, targetName, count, g.token)

	answer, err := g.console.Prompt(ctx, message)
	if errors.Is(err, io.EOF) {
		answer, err = "", nil
	}
	if err != nil {
		g.state = Aborted
		return fmt.Errorf("reading confirmation: %w", err)
	}

	answer = strings.TrimSpace(answer)
	switch {
	case strings.EqualFold(answer, g.token):
		g.state = Confirmed
		return nil
	case answer == "":
		g.state = Aborted
		return fmt.Errorf("%s: %w", targetName, ErrTargetNotEmptyUnconfirmed)
	default:
		g.state = Aborted
		return fmt.Errorf("%s: got %q: %w", targetName, answer, ErrUserAborted)
	}
}
