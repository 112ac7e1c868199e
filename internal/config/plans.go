package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/justestif/go-spotify-randomiser/internal/spotify"
)

// DefaultPlansPath is where plans are read from when no path is given.
const DefaultPlansPath = "playlists.toml"

//go:embed plans.example.toml
var examplePlans []byte

var (
	// ErrInvalidPlan is returned when a plan fails validation.
	ErrInvalidPlan = errors.New("invalid playlist plan")

	// ErrPlanNotFound is returned when no plan has the requested name.
	ErrPlanNotFound = errors.New("playlist plan not found")
)

// Plan describes one declarative randomise run.
type Plan struct {
	Name      string   `toml:"name"`
	Source    string   `toml:"source"`
	Target    string   `toml:"target"`
	Exclude   []string `toml:"exclude"`
	Include   []string `toml:"include"`
	MaxTracks int      `toml:"max_tracks"`
}

// Plans is the parsed plan file.
type Plans struct {
	Playlists []Plan `toml:"playlist"`
}

// ResolvedPlan is a Plan with every reference parsed into an id.
type ResolvedPlan struct {
	Name      string
	Source    spotify.Source
	Target    string
	Exclude   []string
	Include   []string
	MaxTracks int
}

// LoadPlans reads and validates the plan file at path.
func LoadPlans(path string) (*Plans, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plans: %w", err)
	}
	plans, err := ParsePlans(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plans, nil
}

// ParsePlans decodes and validates TOML plan data.
func ParsePlans(data []byte) (*Plans, error) {
	var plans Plans
	if err := toml.Unmarshal(data, &plans); err != nil {
		return nil, fmt.Errorf("parsing plans: %w", err)
	}

	seen := make(map[string]bool, len(plans.Playlists))
	for i, p := range plans.Playlists {
		if _, err := p.Resolve(); err != nil {
			return nil, fmt.Errorf("playlist %d: %w", i+1, err)
		}
		key := strings.ToLower(p.Name)
		if key != "" && seen[key] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidPlan, p.Name)
		}
		seen[key] = true
	}
	return &plans, nil
}

// Find returns the plan with the given name, ignoring case.
func (p *Plans) Find(name string) (Plan, error) {
	for _, plan := range p.Playlists {
		if strings.EqualFold(plan.Name, name) {
			return plan, nil
		}
	}
	return Plan{}, fmt.Errorf("%w: %q", ErrPlanNotFound, name)
}

// Names returns the plan names in file order.
func (p *Plans) Names() []string {
	names := make([]string, len(p.Playlists))
	for i, plan := range p.Playlists {
		names[i] = plan.Name
	}
	return names
}

// Resolve validates the plan and parses its references. An empty source
// means the liked tracks.
func (p Plan) Resolve() (ResolvedPlan, error) {
	if strings.TrimSpace(p.Target) == "" {
		return ResolvedPlan{}, fmt.Errorf("%w: %q has no target", ErrInvalidPlan, p.Name)
	}
	if p.MaxTracks < 0 {
		return ResolvedPlan{}, fmt.Errorf("%w: %q has negative max_tracks", ErrInvalidPlan, p.Name)
	}

	source := spotify.Liked()
	if strings.TrimSpace(p.Source) != "" {
		var err error
		if source, err = spotify.ParseSource(p.Source); err != nil {
			return ResolvedPlan{}, fmt.Errorf("%w: %q source: %w", ErrInvalidPlan, p.Name, err)
		}
	}

	target, err := spotify.ParsePlaylistID(p.Target)
	if err != nil {
		return ResolvedPlan{}, fmt.Errorf("%w: %q target: %w", ErrInvalidPlan, p.Name, err)
	}

	exclude, err := parseAll(p.Exclude, spotify.ParsePlaylistID)
	if err != nil {
		return ResolvedPlan{}, fmt.Errorf("%w: %q exclude: %w", ErrInvalidPlan, p.Name, err)
	}
	include, err := parseAll(p.Include, spotify.ParseTrackID)
	if err != nil {
		return ResolvedPlan{}, fmt.Errorf("%w: %q include: %w", ErrInvalidPlan, p.Name, err)
	}

	return ResolvedPlan{
		Name:      p.Name,
		Source:    source,
		Target:    target,
		Exclude:   exclude,
		Include:   include,
		MaxTracks: p.MaxTracks,
	}, nil
}

func parseAll(refs []string, parse func(string) (string, error)) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(refs))
	for i, ref := range refs {
		id, err := parse(ref)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// CreatePlansFile writes the example plan file to path. It fails if the
// file already exists.
func CreatePlansFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating plans file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(examplePlans); err != nil {
		return fmt.Errorf("writing plans file: %w", err)
	}
	return nil
}
