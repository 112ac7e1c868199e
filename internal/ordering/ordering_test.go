package ordering

import (
	"fmt"
	"slices"
	"testing"
)

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("track%03d", i)
	}
	return ids
}

func TestShuffle_IsPermutation(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
	}{
		{"empty", nil},
		{"single", []string{"A"}},
		{"small", []string{"A", "B", "C", "D"}},
		{"with duplicates", []string{"A", "B", "A", "C", "B"}},
		{"large", makeIDs(500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Clone(tt.ids)
			Shuffle(got, NewRand(42))

			if len(got) != len(tt.ids) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.ids))
			}

			sortedGot := slices.Sorted(slices.Values(got))
			sortedWant := slices.Sorted(slices.Values(tt.ids))
			if !slices.Equal(sortedGot, sortedWant) {
				t.Errorf("Shuffle changed the multiset: got %v", got)
			}
		})
	}
}

func TestShuffle_PermutesOrder(t *testing.T) {
	ids := makeIDs(100)
	got := slices.Clone(ids)
	Shuffle(got, NewRand(7))

	// 100 elements staying in place under a seeded shuffle is not a realistic outcome.
	if slices.Equal(got, ids) {
		t.Error("Shuffle left 100 elements in their original order")
	}
}

func TestShuffle_SeedIsReproducible(t *testing.T) {
	a := makeIDs(50)
	b := makeIDs(50)
	Shuffle(a, NewRand(99))
	Shuffle(b, NewRand(99))

	if !slices.Equal(a, b) {
		t.Error("same seed produced different orders")
	}
}

func TestShuffle_NilRand(t *testing.T) {
	ids := makeIDs(20)
	got := slices.Clone(ids)
	Shuffle(got, nil)

	if !slices.Equal(slices.Sorted(slices.Values(got)), ids) {
		t.Error("Shuffle(nil rng) changed the multiset")
	}
}

func TestShuffle_Uniformity(t *testing.T) {
	// Each of the 6 permutations of 3 elements should come up roughly equally.
	const rounds = 60000
	rng := NewRand(1)
	counts := make(map[string]int)

	for range rounds {
		ids := []string{"A", "B", "C"}
		Shuffle(ids, rng)
		counts[fmt.Sprint(ids)]++
	}

	if len(counts) != 6 {
		t.Fatalf("saw %d permutations, want 6", len(counts))
	}
	for perm, n := range counts {
		if n < 9000 || n > 11000 {
			t.Errorf("permutation %s seen %d times, want about %d", perm, n, rounds/6)
		}
	}
}

func TestExclude(t *testing.T) {
	tests := []struct {
		name       string
		source     []string
		exclusions [][]string
		want       []string
	}{
		{"no exclusions", []string{"A", "B"}, nil, []string{"A", "B"}},
		{"single set", []string{"A", "B", "C"}, [][]string{{"B"}}, []string{"A", "C"}},
		{"union of sets", []string{"A", "B", "C", "D"}, [][]string{{"B"}, {"D", "X"}}, []string{"A", "C"}},
		{"removes every duplicate", []string{"A", "B", "A"}, [][]string{{"A"}}, []string{"B"}},
		{"keeps unexcluded duplicates", []string{"A", "B", "A"}, [][]string{{"B"}}, []string{"A", "A"}},
		{"everything excluded", []string{"A"}, [][]string{{"A"}}, []string{}},
		{"empty source", nil, [][]string{{"A"}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Exclude(tt.source, tt.exclusions...)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Exclude() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrepend(t *testing.T) {
	tests := []struct {
		name      string
		inclusion []string
		rest      []string
		want      []string
	}{
		{"no inclusion", nil, []string{"A", "B"}, []string{"A", "B"}},
		{"inclusion only", []string{"X", "Y"}, nil, []string{"X", "Y"}},
		{"inclusion first", []string{"X"}, []string{"A", "B"}, []string{"X", "A", "B"}},
		{"no duplicate of included", []string{"B"}, []string{"A", "B", "C"}, []string{"B", "A", "C"}},
		{"deduplicates inclusion", []string{"X", "Y", "X"}, []string{"A"}, []string{"X", "Y", "A"}},
		{"drops every repeat of included", []string{"A"}, []string{"A", "B", "A"}, []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Prepend(tt.inclusion, tt.rest)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Prepend() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	ids := []string{"A", "B", "C"}

	tests := []struct {
		max  int
		want []string
	}{
		{0, []string{"A", "B", "C"}},
		{-1, []string{"A", "B", "C"}},
		{2, []string{"A", "B"}},
		{3, []string{"A", "B", "C"}},
		{10, []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("max=%d", tt.max), func(t *testing.T) {
			if got := Truncate(ids, tt.max); !slices.Equal(got, tt.want) {
				t.Errorf("Truncate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name       string
		source     []string
		exclusions [][]string
		inclusion  []string
		max        int
		want       []string
	}{
		{
			name: "empty inputs",
			want: []string{},
		},
		{
			name:      "inclusion only",
			inclusion: []string{"X"},
			want:      []string{"X"},
		},
		{
			name:       "inclusion overrides exclusion",
			source:     []string{"A", "B", "C"},
			exclusions: [][]string{{"B"}},
			inclusion:  []string{"B"},
			want:       []string{"B", "A", "C"},
		},
		{
			name:       "truncates after prepend",
			source:     []string{"A", "B", "C", "D"},
			exclusions: [][]string{{"C"}},
			inclusion:  []string{"X", "Y"},
			max:        3,
			want:       []string{"X", "Y", "A"},
		},
		{
			name:      "truncation can cut inclusion",
			source:    []string{"A"},
			inclusion: []string{"X", "Y", "Z"},
			max:       2,
			want:      []string{"X", "Y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.source, tt.exclusions, tt.inclusion, tt.max)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Compose() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompose_Properties(t *testing.T) {
	source := makeIDs(200)
	Shuffle(source, NewRand(3))
	exclusions := [][]string{makeIDs(40), {"track100", "track150"}}
	inclusion := []string{"track010", "extra1", "track010", "extra2"}

	for _, max := range []int{0, 1, 5, 50, 1000} {
		t.Run(fmt.Sprintf("max=%d", max), func(t *testing.T) {
			got := Compose(source, exclusions, inclusion, max)

			if max > 0 && len(got) > max {
				t.Errorf("len = %d, want <= %d", len(got), max)
			}

			included := map[string]bool{"track010": true, "extra1": true, "extra2": true}
			excluded := make(map[string]bool)
			for _, set := range exclusions {
				for _, id := range set {
					excluded[id] = true
				}
			}
			for _, id := range got {
				if excluded[id] && !included[id] {
					t.Errorf("excluded id %s present in output", id)
				}
			}

			// Deduplicated inclusion comes first, in order.
			dedup := []string{"track010", "extra1", "extra2"}
			n := min(len(dedup), len(got))
			if !slices.Equal(got[:n], dedup[:n]) {
				t.Errorf("prefix = %v, want %v", got[:n], dedup[:n])
			}

			// Length is min(max, |inclusion ∪ filtered|).
			full := len(dedup) + 200 - 40 - 2
			want := full
			if max > 0 {
				want = min(max, full)
			}
			if len(got) != want {
				t.Errorf("len = %d, want %d", len(got), want)
			}
		})
	}
}
