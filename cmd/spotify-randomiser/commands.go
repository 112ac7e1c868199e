package main

import (
	"github.com/urfave/cli/v3"

	"github.com/justestif/go-spotify-randomiser/internal/config"
	"github.com/justestif/go-spotify-randomiser/internal/recommend"
)

// newApp builds the command tree. Without a subcommand the interactive menu
// opens.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "spotify-randomiser",
		Usage:  "Shuffle liked tracks and playlists into a target playlist",
		Before: r.Before,
		Action: r.Menu,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error); defaults to $" + config.EnvLogLevel,
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Dotenv file with credentials",
				Value: config.DefaultEnvFile,
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Use line prompts instead of interactive forms",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Overwrite non-empty targets without asking",
			},
			&cli.StringFlag{
				Name:  "plans",
				Usage: "TOML file with [[playlist]] plans",
				Value: config.DefaultPlansPath,
			},
		},
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		likedCommand, playlistCommand, planCommand, recommendCommand, exportCommand, pruneCommand, logoutCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

func composeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "target",
			Aliases: []string{"t"},
			Usage:   "Playlist to overwrite (id, URI or URL); defaults to $" + config.EnvRandomPlaylist,
		},
		&cli.StringSliceFlag{
			Name:    "exclude",
			Aliases: []string{"x"},
			Usage:   "Playlist whose tracks are left out (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "include",
			Aliases: []string{"i"},
			Usage:   "Track placed first, in order (repeatable)",
		},
		&cli.IntFlag{
			Name:    "max",
			Aliases: []string{"m"},
			Usage:   "Maximum number of tracks to write, 0 for all",
		},
	}
}

func likedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "liked",
		Usage:  "Shuffle your liked tracks into the target playlist",
		Flags:  composeFlags(),
		Action: r.Liked,
	}
}

func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "playlist",
		Usage:     "Shuffle a playlist into the target playlist",
		ArgsUsage: "<source playlist>",
		Flags:     composeFlags(),
		Action:    r.Playlist,
	}
}

func planCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Build a playlist from a named plan",
		ArgsUsage: "[name]",
		Action:    r.Plan,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List the plans",
				Action: r.PlanList,
			},
			{
				Name:   "init",
				Usage:  "Write an example plans file",
				Action: r.PlanInit,
			},
		},
	}
}

func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Get recommendations seeded from a collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Usage: `"liked" or a playlist to take seeds from`,
				Value: "liked",
			},
			&cli.IntFlag{
				Name:  "seeds",
				Usage: "Number of seed tracks, 1 to 5",
				Value: 5,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of recommendations",
				Value: recommend.DefaultLimit,
			},
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "Playlist to overwrite with the recommendations",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "CSV file to export the recommendations to",
			},
		},
		Action: r.Recommend,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a collection to a CSV spreadsheet",
		ArgsUsage: `["liked" | playlist]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "CSV file to write; defaults to <source>.csv",
			},
			&cli.BoolFlag{
				Name:  "no-open",
				Usage: "Do not open the file afterwards",
			},
		},
		Action: r.Export,
	}
}

func pruneCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "prune",
		Usage:     "Remove the tracks of a playlist from your liked tracks",
		ArgsUsage: "<playlist>",
		Action:    r.Prune,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the cached Spotify token",
		Action: r.Logout,
	}
}
