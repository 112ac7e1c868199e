// Command spotify-randomiser rewrites Spotify playlists with shuffled copies
// of your liked tracks or of other playlists.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"

	"github.com/justestif/go-spotify-randomiser/internal/gate"
	"github.com/justestif/go-spotify-randomiser/internal/shared"
	"github.com/justestif/go-spotify-randomiser/internal/spotify"
)

func main() {
	logger := shared.WithRun(shared.NewLogger(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})
	err := newApp(runner).Run(ctx, os.Args)
	runner.Close()

	os.Exit(exitCode(logger, err))
}

// exitCode logs err and maps it to the process exit status. An operator
// declining the overwrite is not a failure.
func exitCode(logger *log.Logger, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, gate.ErrUserAborted):
		logger.Warn("Aborted, nothing was changed", "reason", err)
		return 0
	case errors.Is(err, spotify.ErrNotAuthorized):
		logger.Error("Not authorized", "err", err, "hint", "run 'spotify-randomiser logout' and sign in again")
		return 1
	default:
		logger.Error("Run failed", "err", err)
		return 1
	}
}
