package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/justestif/go-spotify-randomiser/internal/auth"
	"github.com/justestif/go-spotify-randomiser/internal/config"
	"github.com/justestif/go-spotify-randomiser/internal/console"
	"github.com/justestif/go-spotify-randomiser/internal/export"
	"github.com/justestif/go-spotify-randomiser/internal/gate"
	"github.com/justestif/go-spotify-randomiser/internal/randomise"
	"github.com/justestif/go-spotify-randomiser/internal/recommend"
	"github.com/justestif/go-spotify-randomiser/internal/spotify"
)

var errUsage = errors.New("usage")

// Liked shuffles the saved tracks into the target.
func (r *Runner) Liked(ctx context.Context, cmd *cli.Command) error {
	req, err := r.request(cmd, spotify.Liked())
	if err != nil {
		return err
	}
	return r.shuffleInto(ctx, cmd, req)
}

// Playlist shuffles the playlist named by the first argument into the target.
func (r *Runner) Playlist(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.Args().First()
	if ref == "" {
		return fmt.Errorf("%w: playlist <source playlist>", errUsage)
	}
	id, err := spotify.ParsePlaylistID(ref)
	if err != nil {
		return err
	}
	req, err := r.request(cmd, spotify.Playlist(id))
	if err != nil {
		return err
	}
	return r.shuffleInto(ctx, cmd, req)
}

// request builds a randomise request from the compose flags.
func (r *Runner) request(cmd *cli.Command, src spotify.Source) (randomise.Request, error) {
	target, err := r.target(cmd.String("target"))
	if err != nil {
		return randomise.Request{}, err
	}

	exclude := make([]string, 0, len(cmd.StringSlice("exclude")))
	for _, ref := range cmd.StringSlice("exclude") {
		id, err := spotify.ParsePlaylistID(ref)
		if err != nil {
			return randomise.Request{}, fmt.Errorf("exclude: %w", err)
		}
		exclude = append(exclude, id)
	}
	include := make([]string, 0, len(cmd.StringSlice("include")))
	for _, ref := range cmd.StringSlice("include") {
		id, err := spotify.ParseTrackID(ref)
		if err != nil {
			return randomise.Request{}, fmt.Errorf("include: %w", err)
		}
		include = append(include, id)
	}

	maxTracks := cmd.Int("max")
	if maxTracks < 0 {
		return randomise.Request{}, fmt.Errorf("%w: --max must not be negative", errUsage)
	}

	return randomise.Request{
		Source:    src,
		Target:    target,
		Exclude:   exclude,
		Include:   include,
		MaxTracks: maxTracks,
	}, nil
}

// target parses ref, falling back to the configured random playlist.
func (r *Runner) target(ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		cfg, err := r.config()
		if err != nil {
			return "", err
		}
		ref = cfg.RandomPlaylistID
	}
	if strings.TrimSpace(ref) == "" {
		return "", fmt.Errorf("%w: pass --target or set $%s", randomise.ErrNoTarget, config.EnvRandomPlaylist)
	}
	return spotify.ParsePlaylistID(ref)
}

func (r *Runner) shuffleInto(ctx context.Context, cmd *cli.Command, req randomise.Request) error {
	svc, err := r.randomiseService(ctx, cmd)
	if err != nil {
		return err
	}
	result, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}
	r.printResult(req.Target, result)
	return nil
}

func (r *Runner) printResult(target string, result *randomise.Result) {
	name := result.TargetName
	if name == "" {
		name = target
	}
	r.printf("%s %d tracks written to %s\n", r.palette.OK.Render("Done."), len(result.Written), name)
	r.printf("%s\n", r.palette.Faint.Render(fmt.Sprintf(
		"fetched %d, excluded %d, replaced %d", result.Fetched, result.Excluded, result.Cleared)))
}

// Plan runs the named plan, asking for one when no name is given.
func (r *Runner) Plan(ctx context.Context, cmd *cli.Command) error {
	return r.runPlan(ctx, cmd, cmd.String("plans"), cmd.Args().First())
}

func (r *Runner) runPlan(ctx context.Context, cmd *cli.Command, path, name string) error {
	plans, err := config.LoadPlans(path)
	if err != nil {
		return err
	}

	if name == "" {
		if name, err = r.choosePlan(ctx, cmd, path, plans); err != nil {
			return err
		}
		if name == "" {
			return nil
		}
	}

	plan, err := plans.Find(name)
	if err != nil {
		return err
	}
	resolved, err := plan.Resolve()
	if err != nil {
		return err
	}

	r.logger.Info("Running plan", "plan", resolved.Name)
	return r.shuffleInto(ctx, cmd, randomise.Request{
		Source:    resolved.Source,
		Target:    resolved.Target,
		Exclude:   resolved.Exclude,
		Include:   resolved.Include,
		MaxTracks: resolved.MaxTracks,
	})
}

// choosePlan returns "" when the operator backs out.
func (r *Runner) choosePlan(ctx context.Context, cmd *cli.Command, path string, plans *config.Plans) (string, error) {
	names := plans.Names()
	if len(names) == 0 {
		return "", fmt.Errorf("%w: %s has no plans", config.ErrPlanNotFound, path)
	}
	choices := make([]console.Choice, len(names))
	for i, name := range names {
		choices[i] = console.Choice{Key: fmt.Sprint(i + 1), Label: name}
	}

	key, err := r.operator(cmd).Choose(ctx, "Which plan?", choices)
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	for _, c := range choices {
		if c.Key == key {
			return c.Label, nil
		}
	}
	return "", fmt.Errorf("%w: %q", config.ErrPlanNotFound, key)
}

// PlanList prints the plans in file order.
func (r *Runner) PlanList(_ context.Context, cmd *cli.Command) error {
	plans, err := config.LoadPlans(cmd.String("plans"))
	if err != nil {
		return err
	}
	r.printf("%s\n", r.palette.Title.Render("Plans in "+cmd.String("plans")))
	for _, plan := range plans.Playlists {
		source := plan.Source
		if source == "" {
			source = spotify.LikedKeyword
		}
		r.printf("  %s %s\n", plan.Name, r.palette.Faint.Render(source+" -> "+plan.Target))
	}
	return nil
}

// PlanInit writes the example plans file.
func (r *Runner) PlanInit(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("plans")
	if err := config.CreatePlansFile(path); err != nil {
		return err
	}
	r.printf("%s wrote %s\n", r.palette.OK.Render("Done."), path)
	return nil
}

// Recommend prints recommendations seeded from the source collection. With
// --target they overwrite that playlist; with --output they are exported.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	src, err := spotify.ParseSource(cmd.String("source"))
	if err != nil {
		return err
	}
	result, err := r.suggest(ctx, recommend.Request{
		Source: src,
		Seeds:  cmd.Int("seeds"),
		Limit:  cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := export.WriteFile(path, export.SuggestionRows(result.Suggestions)); err != nil {
			return err
		}
		r.logger.Info("Exported recommendations", "path", path)
	}

	if ref := cmd.String("target"); ref != "" {
		target, err := spotify.ParsePlaylistID(ref)
		if err != nil {
			return err
		}
		rs, err := r.randomiseService(ctx, cmd)
		if err != nil {
			return err
		}
		written, err := rs.Replace(ctx, target, result.SuggestionIDs())
		if err != nil {
			return err
		}
		r.printResult(target, written)
	}
	return nil
}

// suggest fetches and prints recommendations.
func (r *Runner) suggest(ctx context.Context, req recommend.Request) (*recommend.Result, error) {
	svc, err := r.recommendService(ctx)
	if err != nil {
		return nil, err
	}
	result, err := svc.Recommend(ctx, req)
	if err != nil {
		return nil, err
	}

	r.printf("%s\n", r.palette.Title.Render(fmt.Sprintf("%d recommendations from %s", len(result.Suggestions), req.Source)))
	for i, s := range result.Suggestions {
		r.printf("%3d. %s %s\n", i+1, s.Name, r.palette.Faint.Render(s.Artist))
	}
	return result, nil
}

// Export writes a collection to CSV and opens it.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.Args().First()
	if ref == "" {
		ref = spotify.LikedKeyword
	}
	src, err := spotify.ParseSource(ref)
	if err != nil {
		return err
	}

	path := cmd.String("output")
	if path == "" {
		path = defaultExportPath(src)
	}
	return r.writeExport(ctx, src, path, !cmd.Bool("no-open"))
}

func (r *Runner) writeExport(ctx context.Context, src spotify.Source, path string, open bool) error {
	backend, err := r.catalog(ctx)
	if err != nil {
		return err
	}
	tracks, err := backend.FetchAll(ctx, src)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", src, err)
	}
	rows := export.Rows(tracks)
	if err := export.WriteFile(path, rows); err != nil {
		return err
	}
	r.printf("%s %d tracks exported to %s\n", r.palette.OK.Render("Done."), len(rows), path)

	if open {
		if err := r.open(path); err != nil {
			r.logger.Warn("Could not open export", "path", path, "err", err)
		}
	}
	return nil
}

func defaultExportPath(src spotify.Source) string {
	if id, ok := src.PlaylistID(); ok {
		return "playlist-" + id + ".csv"
	}
	return spotify.LikedKeyword + ".csv"
}

// Prune removes a playlist's tracks from the saved tracks.
func (r *Runner) Prune(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.Args().First()
	if ref == "" {
		return fmt.Errorf("%w: prune <playlist>", errUsage)
	}
	id, err := spotify.ParsePlaylistID(ref)
	if err != nil {
		return err
	}
	svc, err := r.randomiseService(ctx, cmd)
	if err != nil {
		return err
	}
	result, err := svc.PruneLiked(ctx, id)
	if err != nil {
		return err
	}
	r.printf("%s %d tracks removed from your liked tracks\n", r.palette.OK.Render("Done."), len(result.Removed))
	return nil
}

// Logout deletes the cached token.
func (r *Runner) Logout(_ context.Context, _ *cli.Command) error {
	cache := r.tokenCache
	if cache == nil {
		var err error
		if cache, err = auth.DefaultTokenCache(); err != nil {
			return err
		}
	}
	if err := cache.Delete(); err != nil {
		return err
	}
	r.printf("%s removed %s\n", r.palette.OK.Render("Logged out."), cache.Path())
	return nil
}

// Menu is the interactive entry point used when no subcommand is given.
// Declined overwrites return to the menu; other failures end it.
func (r *Runner) Menu(ctx context.Context, cmd *cli.Command) error {
	choices := []console.Choice{
		{Key: "r", Label: "Shuffle liked tracks into the random playlist"},
		{Key: "p", Label: "Shuffle a playlist into the random playlist"},
		{Key: "b", Label: "Build a playlist from a plan"},
		{Key: "g", Label: "Get recommendations from liked tracks"},
		{Key: "e", Label: "Export liked tracks to CSV"},
		{Key: "q", Label: "Quit"},
	}

	for {
		key, err := r.operator(cmd).Choose(ctx, r.palette.Title.Render("Spotify randomiser"), choices)
		if errors.Is(err, io.EOF) || key == "q" {
			return nil
		}
		if err != nil {
			return err
		}

		err = r.menuAction(ctx, cmd, key)
		if errors.Is(err, gate.ErrUserAborted) {
			r.logger.Warn("Aborted, nothing was changed", "reason", err)
			continue
		}
		if err != nil {
			return err
		}
	}
}

func (r *Runner) menuAction(ctx context.Context, cmd *cli.Command, key string) error {
	switch key {
	case "r":
		return r.menuRandomise(ctx, cmd, spotify.Liked())
	case "p":
		ref, err := r.operator(cmd).Prompt(ctx, "Source playlist (id, URI or URL):")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		id, err := spotify.ParsePlaylistID(ref)
		if err != nil {
			r.logger.Warn("Invalid playlist", "err", err)
			return nil
		}
		return r.menuRandomise(ctx, cmd, spotify.Playlist(id))
	case "b":
		return r.runPlan(ctx, cmd, cmd.String("plans"), "")
	case "g":
		_, err := r.suggest(ctx, recommend.Request{Source: spotify.Liked()})
		return err
	case "e":
		return r.writeExport(ctx, spotify.Liked(), defaultExportPath(spotify.Liked()), true)
	default:
		return nil
	}
}

func (r *Runner) menuRandomise(ctx context.Context, cmd *cli.Command, src spotify.Source) error {
	target, err := r.target("")
	if err != nil {
		return err
	}
	return r.shuffleInto(ctx, cmd, randomise.Request{Source: src, Target: target})
}
