package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/justestif/go-spotify-randomiser/internal/auth"
	"github.com/justestif/go-spotify-randomiser/internal/batch"
	"github.com/justestif/go-spotify-randomiser/internal/config"
	"github.com/justestif/go-spotify-randomiser/internal/console"
	"github.com/justestif/go-spotify-randomiser/internal/gate"
	"github.com/justestif/go-spotify-randomiser/internal/randomise"
	"github.com/justestif/go-spotify-randomiser/internal/recommend"
	"github.com/justestif/go-spotify-randomiser/internal/shared"
	"github.com/justestif/go-spotify-randomiser/internal/spotify"
)

// Backend is everything the commands need from the catalog.
// *spotify.Client implements it.
type Backend interface {
	randomise.Catalog
	recommend.Catalog
	batch.Mutator
	randomise.LibraryRemover
	FetchAll(ctx context.Context, src spotify.Source) ([]*spotify.Track, error)
}

var _ Backend = (*spotify.Client)(nil)

// ConnectFunc authenticates and returns a Backend plus a function to call
// before exit.
type ConnectFunc func(ctx context.Context, cfg *config.Config, logger *log.Logger) (Backend, func(), error)

// Runner holds the dependencies of the command actions.
type Runner struct {
	cfg         *config.Config
	envFile     string
	connect     ConnectFunc
	backend     Backend
	closers     []func()
	logger      *log.Logger
	input       io.Reader
	output      io.Writer
	interactive bool
	palette     *console.Palette
	open        func(string) error
	rng         *rand.Rand
	line        *console.Line
	tokenCache  *auth.TokenCache
}

// RunnerOpts configures NewRunner. Zero fields get production defaults.
type RunnerOpts struct {
	Config      *config.Config
	Connect     ConnectFunc
	Logger      *log.Logger
	Input       io.Reader
	Output      io.Writer
	Interactive *bool
	Open        func(string) error
	Rand        *rand.Rand
	TokenCache  *auth.TokenCache // used by logout; defaults to auth.DefaultTokenCache
}

// NewRunner creates a Runner.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Connect == nil {
		opts.Connect = connectSpotify
	}
	if opts.Open == nil {
		opts.Open = shared.Open
	}
	interactive := console.IsInteractive()
	if opts.Interactive != nil {
		interactive = *opts.Interactive
	}

	palette := console.PlainPalette()
	if interactive {
		palette = console.DefaultPalette()
	}

	return &Runner{
		cfg:         opts.Config,
		connect:     opts.Connect,
		logger:      opts.Logger,
		input:       opts.Input,
		output:      opts.Output,
		interactive: interactive,
		palette:     palette,
		open:        opts.Open,
		rng:         opts.Rand,
		tokenCache:  opts.TokenCache,
	}
}

// connectSpotify runs the OAuth flow (or reuses the cached token) and wraps
// the authenticated client.
func connectSpotify(ctx context.Context, cfg *config.Config, logger *log.Logger) (Backend, func(), error) {
	authenticator, err := auth.New(cfg, auth.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	client, err := authenticator.Authenticate(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("authenticating: %w", err)
	}
	return spotify.New(client, logger), func() { authenticator.SaveToken(client) }, nil
}

// Before loads the dotenv file and applies the log level and --plain.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.envFile = cmd.String("env-file")
	if err := config.LoadEnvFile(r.envFile); err != nil {
		return ctx, err
	}

	level := cmd.String("log-level")
	if level == "" {
		level = config.LogLevel(os.Getenv)
	}
	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return ctx, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	r.logger.SetLevel(parsed)

	if cmd.Bool("plain") {
		r.palette = console.PlainPalette()
	}
	return ctx, nil
}

// Close runs the backend cleanup hooks.
func (r *Runner) Close() {
	for _, fn := range r.closers {
		fn()
	}
	r.closers = nil
}

func (r *Runner) config() (*config.Config, error) {
	if r.cfg != nil {
		return r.cfg, nil
	}
	cfg, err := config.Load(r.envFile)
	if err != nil {
		return nil, err
	}
	r.cfg = cfg
	return cfg, nil
}

// catalog connects on first use and reuses the session afterwards.
func (r *Runner) catalog(ctx context.Context) (Backend, error) {
	if r.backend != nil {
		return r.backend, nil
	}
	cfg, err := r.config()
	if err != nil {
		return nil, err
	}
	backend, closer, err := r.connect(ctx, cfg, r.logger)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		r.closers = append(r.closers, closer)
	}
	r.backend = backend
	return backend, nil
}

// operator returns the console: huh forms on a terminal, line
// prompts otherwise or with --plain.
func (r *Runner) operator(cmd *cli.Command) console.Console {
	if r.interactive && !cmd.Bool("plain") {
		return console.NewForm()
	}
	if r.line == nil {
		r.line = console.NewLine(r.input, r.output)
	}
	return r.line
}

func (r *Runner) randomiseService(ctx context.Context, cmd *cli.Command) (*randomise.Service, error) {
	cfg, err := r.config()
	if err != nil {
		return nil, err
	}
	backend, err := r.catalog(ctx)
	if err != nil {
		return nil, err
	}

	writer := batch.New(backend,
		batch.WithWindowSize(cfg.BatchSize),
		batch.WithRate(cfg.Rate),
		batch.WithLogger(r.logger),
	)
	return randomise.New(backend, writer, r.operator(cmd),
		randomise.WithLibrary(backend),
		randomise.WithRand(r.rng),
		randomise.WithLogger(r.logger),
		randomise.WithGateOptions(
			gate.WithToken(cfg.ConfirmToken),
			gate.WithAssumeYes(cmd.Bool("yes")),
		),
	), nil
}

func (r *Runner) recommendService(ctx context.Context) (*recommend.Service, error) {
	backend, err := r.catalog(ctx)
	if err != nil {
		return nil, err
	}
	return recommend.New(backend, recommend.WithRand(r.rng), recommend.WithLogger(r.logger)), nil
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.output, format, args...)
}
