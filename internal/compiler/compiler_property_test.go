//go:build property

package compiler

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/prism/internal/tokens"
)

// genDocument builds documents mixing valid groups with optional arrays that
// only the flattening generator rejects.
func genDocument() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 8),
		gen.Bool(),
	).Map(func(values []interface{}) *tokens.Document {
		size := values[0].(int)
		withList := values[1].(bool)

		doc := tokens.NewDocument()
		colors := tokens.NewDocument()
		for i := 0; i < size; i++ {
			colors.Set(fmt.Sprintf("%d00", i+1), tokens.String(fmt.Sprintf("#%06x", i*4099)))
		}
		colors.Set(tokens.DefaultKey, tokens.String("#000000"))
		doc.Set("colors", tokens.NewDocument().Set("primary", colors))
		doc.Set("slide", tokens.NewDocument().Set("background", tokens.String("#ffffff")))
		if withList {
			doc.Set("shadows", tokens.NewDocument().Set("stack", tokens.List{tokens.String("a"), tokens.String("b")}))
		}
		return doc
	})
}

// TestCompileProperties validates batch-level invariants
func TestCompileProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(31337)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("compilation is byte-for-byte deterministic", prop.ForAll(
		func(doc *tokens.Document) bool {
			a, b := Compile(doc), Compile(doc)
			for i := range a.Artifacts {
				if !bytes.Equal(a.Artifacts[i].Content, b.Artifacts[i].Content) {
					return false
				}
			}
			return true
		},
		genDocument(),
	))

	properties.Property("a batch always holds five artifacts and OK is their conjunction", prop.ForAll(
		func(doc *tokens.Document) bool {
			batch := Compile(doc)
			if len(batch.Artifacts) != 5 {
				return false
			}
			all := true
			for _, a := range batch.Artifacts {
				all = all && a.OK()
			}
			return batch.OK() == all
		},
		genDocument(),
	))

	properties.Property("an array outside fontFamily fails exactly one artifact", prop.ForAll(
		func(doc *tokens.Document) bool {
			_, hasList := doc.Get("shadows")
			failed := len(Compile(doc).Failed())
			if hasList {
				return failed == 1
			}
			return failed == 0
		},
		genDocument(),
	))

	properties.TestingRun(t)
}
