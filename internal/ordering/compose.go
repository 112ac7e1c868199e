package ordering

// Compose builds the final write sequence from an already-shuffled source:
// identifiers found in any exclusion set are dropped, the inclusion prefix
// goes first, and the result is cut to maxTracks when maxTracks > 0.
func Compose(source []string, exclusions [][]string, inclusion []string, maxTracks int) []string {
	return Truncate(Prepend(inclusion, Exclude(source, exclusions...)), maxTracks)
}

// Exclude returns the identifiers of source that appear in none of the
// exclusion sequences. Order and duplicates of the kept entries are preserved.
func Exclude(source []string, exclusions ...[]string) []string {
	excluded := make(map[string]struct{})
	for _, set := range exclusions {
		for _, id := range set {
			excluded[id] = struct{}{}
		}
	}

	kept := make([]string, 0, len(source))
	for _, id := range source {
		if _, ok := excluded[id]; ok {
			continue
		}
		kept = append(kept, id)
	}
	return kept
}

// Prepend places the deduplicated inclusion identifiers first, followed by
// the entries of rest that are not already included.
func Prepend(inclusion, rest []string) []string {
	seen := make(map[string]struct{}, len(inclusion))
	out := make([]string, 0, len(inclusion)+len(rest))

	for _, id := range inclusion {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range rest {
		if _, ok := seen[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Truncate returns the first maxTracks identifiers. A maxTracks of zero or
// less means no limit.
func Truncate(ids []string, maxTracks int) []string {
	if maxTracks <= 0 || len(ids) <= maxTracks {
		return ids
	}
	return ids[:maxTracks]
}
