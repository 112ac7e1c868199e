package spotify

import (
	"fmt"
	"net/url"
	"strings"
)

// LikedKeyword selects the saved tracks when parsing a source.
const LikedKeyword = "liked"

// Source selects the collection a run reads from: either the caller's
// saved tracks or a playlist. The zero value is not valid.
type Source struct {
	kind       sourceKind
	playlistID string
}

type sourceKind int

const (
	sourceUnset sourceKind = iota
	sourceLiked
	sourcePlaylist
)

// Liked returns the Source for the caller's saved tracks.
func Liked() Source {
	return Source{kind: sourceLiked}
}

// Playlist returns the Source for the playlist with the given id.
func Playlist(id string) Source {
	return Source{kind: sourcePlaylist, playlistID: id}
}

// IsLiked reports whether s selects the saved tracks.
func (s Source) IsLiked() bool { return s.kind == sourceLiked }

// PlaylistID returns the playlist id and true if s selects a playlist.
func (s Source) PlaylistID() (string, bool) {
	return s.playlistID, s.kind == sourcePlaylist
}

func (s Source) String() string {
	switch s.kind {
	case sourceLiked:
		return LikedKeyword
	case sourcePlaylist:
		return "playlist:" + s.playlistID
	default:
		return "unset"
	}
}

// ParseSource parses "liked" (any case) or a playlist reference.
func ParseSource(s string) (Source, error) {
	if strings.EqualFold(strings.TrimSpace(s), LikedKeyword) {
		return Liked(), nil
	}
	id, err := ParsePlaylistID(s)
	if err != nil {
		return Source{}, err
	}
	return Playlist(id), nil
}

// ParsePlaylistID extracts a playlist id from a bare id, a
// spotify:playlist:<id> URI or an open.spotify.com playlist URL.
func ParsePlaylistID(ref string) (string, error) {
	return parseRef(ref, "playlist")
}

// ParseTrackID extracts a track id from a bare id, a spotify:track:<id> URI
// or an open.spotify.com track URL.
func ParseTrackID(ref string) (string, error) {
	return parseRef(ref, "track")
}

func parseRef(ref, kind string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty %s reference", kind)
	}

	if rest, ok := strings.CutPrefix(ref, "spotify:"+kind+":"); ok {
		if rest == "" {
			return "", fmt.Errorf("invalid %s URI %q", kind, ref)
		}
		return rest, nil
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("parsing %s URL: %w", kind, err)
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i := 0; i < len(parts)-1; i++ {
			if parts[i] == kind && parts[i+1] != "" {
				return parts[i+1], nil
			}
		}
		return "", fmt.Errorf("no %s id in URL %q", kind, ref)
	}

	if strings.ContainsAny(ref, ":/ ") {
		return "", fmt.Errorf("invalid %s reference %q", kind, ref)
	}
	return ref, nil
}
