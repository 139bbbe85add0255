package tokens

import (
	"fmt"
	"strings"
)

// PropertyPrefix is the vendor prefix of every generated custom property.
const PropertyPrefix = "--prsm-"

// PropertyName returns the custom property bound to a flattened key.
func PropertyName(key string) string {
	return PropertyPrefix + key
}

// Category is the section a flattened key is presented under.
type Category int

const (
	CategoryColors Category = iota
	CategoryTypography
	CategorySpacing
	CategoryBordersShadows
	CategoryTransitions
	CategoryOther
	numCategories
)

// Categories lists all categories in presentation order.
var Categories = []Category{
	CategoryColors,
	CategoryTypography,
	CategorySpacing,
	CategoryBordersShadows,
	CategoryTransitions,
	CategoryOther,
}

// String returns the string representation of the Category
func (c Category) String() string {
	switch c {
	case CategoryColors:
		return "colors"
	case CategoryTypography:
		return "typography"
	case CategorySpacing:
		return "spacing"
	case CategoryBordersShadows:
		return "borders-shadows"
	case CategoryTransitions:
		return "transitions"
	case CategoryOther:
		return "other"
	default:
		return "unknown"
	}
}

// Title returns the human-readable section heading.
func (c Category) Title() string {
	switch c {
	case CategoryColors:
		return "Colors"
	case CategoryTypography:
		return "Typography"
	case CategorySpacing:
		return "Spacing"
	case CategoryBordersShadows:
		return "Borders & Shadows"
	case CategoryTransitions:
		return "Transitions"
	case CategoryOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// ParseCategory converts a category name back into a Category.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if c.String() == name {
			return c, nil
		}
	}
	return CategoryOther, fmt.Errorf("unknown category %q", name)
}

// categoryPrefixes is checked in order; the first matching prefix wins.
var categoryPrefixes = []struct {
	category Category
	prefixes []string
}{
	{CategoryColors, []string{"colors", "slide", "dark"}},
	{CategoryTypography, []string{"typography", "font"}},
	{CategorySpacing, []string{"spacing"}},
	{CategoryBordersShadows, []string{"border", "shadow"}},
	{CategoryTransitions, []string{"transition"}},
}

// ClassifyKey returns the category of a flattened key.
func ClassifyKey(key string) Category {
	for _, group := range categoryPrefixes {
		for _, prefix := range group.prefixes {
			if strings.HasPrefix(key, prefix) {
				return group.category
			}
		}
	}
	return CategoryOther
}

// Categorized holds custom-property declarations grouped by category, each
// group in flattening order.
type Categorized struct {
	keys  [numCategories][]string
	lines [numCategories][]string
}

// Categorize buckets every flattened key into exactly one category.
func Categorize(flat *FlatMap) *Categorized {
	c := &Categorized{}
	flat.Each(func(key string, value Scalar) {
		cat := ClassifyKey(key)
		c.keys[cat] = append(c.keys[cat], key)
		c.lines[cat] = append(c.lines[cat], Declaration(key, value))
	})
	return c
}

// Declaration renders one custom-property declaration.
func Declaration(key string, value Scalar) string {
	return fmt.Sprintf("%s: %s;", PropertyName(key), value.Text)
}

// Lines returns the declarations of a category.
func (c *Categorized) Lines(cat Category) []string {
	if cat < 0 || cat >= numCategories {
		return nil
	}
	return c.lines[cat]
}

// Keys returns the flattened keys of a category.
func (c *Categorized) Keys(cat Category) []string {
	if cat < 0 || cat >= numCategories {
		return nil
	}
	return c.keys[cat]
}

// Len returns the total number of declarations.
func (c *Categorized) Len() int {
	n := 0
	for _, lines := range c.lines {
		n += len(lines)
	}
	return n
}
