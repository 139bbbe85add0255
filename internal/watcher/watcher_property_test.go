//go:build property

package watcher

import (
	"sort"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDebouncerProperties validates batching properties of the debouncer
func TestDebouncerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9876)
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	// Property: A batch holds exactly one event per distinct path, sorted
	properties.Property("batch deduplicates by path", prop.ForAll(
		func(paths []string) bool {
			d := NewDebouncer(time.Millisecond)
			for _, p := range paths {
				d.Add(ChangeEvent{Path: p})
			}
			d.stop()
			d.flush()

			events := d.Take()
			distinct := make(map[string]bool)
			for _, p := range paths {
				distinct[p] = true
			}
			if len(events) != len(distinct) {
				return false
			}
			return sort.SliceIsSorted(events, func(i, j int) bool { return events[i].Path < events[j].Path })
		},
		gen.SliceOfN(20, gen.OneConstOf("a.json", "b.json", "c.json", "design-tokens.json")).
			SuchThat(func(v []string) bool { return len(v) > 0 }),
	))

	// Property: Taking twice never returns the same batch
	properties.Property("take drains", prop.ForAll(
		func(n int) bool {
			d := NewDebouncer(time.Millisecond)
			for i := 0; i < n; i++ {
				d.Add(ChangeEvent{Path: "design-tokens.json"})
			}
			d.stop()
			d.flush()
			return len(d.Take()) == 1 && d.Take() == nil
		},
		gen.IntRange(1, 50),
	))

	properties.TestingRun(t)
}
