//go:build property

package tokens

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genLeafDocument builds a two-level document: groups of scalar leaves, some
// groups carrying a DEFAULT and some wrapped as {"value": ...}.
func genLeafDocument() gopter.Gen {
	return gen.SliceOfN(6, gen.IntRange(0, 4)).Map(func(shapes []int) *Document {
		doc := NewDocument()
		for i, shape := range shapes {
			group := NewDocument()
			switch shape {
			case 0:
				doc.Set(fmt.Sprintf("scalar%d", i), String(fmt.Sprintf("#%06x", i)))
				continue
			case 1:
				group.Set(DefaultKey, String("d"))
			case 2:
				group.Set(ValueKey, Number(fmt.Sprint(i)))
				doc.Set(fmt.Sprintf("wrapped%d", i), group)
				continue
			case 3:
				group.Set("$description", String("meta"))
			}
			for j := 0; j < i+1; j++ {
				group.Set(fmt.Sprintf("%d00", j+1), String(fmt.Sprintf("v%d-%d", i, j)))
			}
			doc.Set(fmt.Sprintf("group%d", i), group)
		}
		return doc
	})
}

func countLeaves(doc *Document) int {
	n := 0
	for _, e := range doc.Entries() {
		if IsMetadataKey(e.Key) {
			continue
		}
		switch Classify(e.Key, e.Value) {
		case NodeScalar, NodeValueWrapper:
			n++
		case NodeDefaultable:
			n += 1 + countLeaves(withoutKey(e.Value.(*Document), DefaultKey))
		case NodeGeneric:
			n += countLeaves(e.Value.(*Document))
		}
	}
	return n
}

// TestFlattenProperties validates flattening invariants over generated documents
func TestFlattenProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(4242)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("every reachable leaf yields exactly one entry", prop.ForAll(
		func(doc *Document) bool {
			flat, err := Flatten(doc, "")
			return err == nil && flat.Len() == countLeaves(doc)
		},
		genLeafDocument(),
	))

	properties.Property("DEFAULT is promoted to the bare path and siblings survive", prop.ForAll(
		func(doc *Document) bool {
			flat, err := Flatten(doc, "")
			if err != nil {
				return false
			}
			for _, e := range doc.Entries() {
				group, ok := e.Value.(*Document)
				if !ok || Classify(e.Key, group) != NodeDefaultable {
					continue
				}
				def, _ := group.Get(DefaultKey)
				got, ok := flat.Get(e.Key)
				if !ok || got != def.(Scalar) {
					return false
				}
				for _, child := range group.Keys() {
					if child == DefaultKey {
						continue
					}
					if _, ok := flat.Get(e.Key + "-" + child); !ok {
						return false
					}
				}
			}
			return true
		},
		genLeafDocument(),
	))

	properties.Property("flattening is deterministic", prop.ForAll(
		func(doc *Document) bool {
			a, errA := Flatten(doc, "")
			b, errB := Flatten(doc, "")
			if errA != nil || errB != nil {
				return false
			}
			return strings.Join(a.Keys(), ",") == strings.Join(b.Keys(), ",")
		},
		genLeafDocument(),
	))

	properties.TestingRun(t)
}

// TestFontFamilyProperties validates quoting of font names
func TestFontFamilyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(8080)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	genName := gen.OneGenOf(
		gen.Identifier(),
		gen.SliceOfN(2, gen.Identifier()).Map(func(parts []string) string {
			return strings.Join(parts, " ")
		}),
	)

	properties.Property("only names with spaces are quoted", prop.ForAll(
		func(names []string) bool {
			parts := strings.Split(JoinFontNames(names), ", ")
			if len(names) == 0 {
				return len(parts) == 1 && parts[0] == ""
			}
			if len(parts) != len(names) {
				return false
			}
			for i, name := range names {
				want := name
				if strings.Contains(name, " ") {
					want = `"` + name + `"`
				}
				if parts[i] != want {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genName),
	))

	properties.TestingRun(t)
}

// TestCategorizeProperties validates bucket coverage
func TestCategorizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9001)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	genKey := gen.OneGenOf(
		gen.OneConstOf("colors", "slide", "dark", "typography", "font", "spacing", "border", "shadow", "transition", "z", "gradients"),
		gen.Identifier(),
	).Map(func(v interface{}) string { return fmt.Sprint(v) })

	properties.Property("every key lands in exactly one bucket", prop.ForAll(
		func(keys []string) bool {
			flat := NewFlatMap()
			for i, k := range keys {
				flat.Set(fmt.Sprintf("%s-%d", k, i), String("x"))
			}
			c := Categorize(flat)

			seen := make(map[string]int)
			for _, cat := range Categories {
				for _, k := range c.Keys(cat) {
					seen[k]++
				}
			}
			if len(seen) != flat.Len() {
				return false
			}
			for _, n := range seen {
				if n != 1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genKey),
	))

	properties.TestingRun(t)
}
