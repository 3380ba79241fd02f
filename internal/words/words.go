// Package words segments raw schema identifiers into normalized word sequences.
package words

import (
	"slices"
	"strings"
	"unicode"
)

// Words is a case-segmented decomposition of a raw schema identifier
type Words struct {
	components []string
	original   string
}

// Parse splits a PascalCase identifier and normalizes it
func Parse(pascal string) Words {
	return SplitPascal(pascal).Normalize()
}

// SplitPascal splits a PascalCase identifier on lowercase to uppercase
// transitions and on underscores. A leading underscore is kept as part of
// the first word.
func SplitPascal(pascal string) Words {
	var components []string
	var word []rune

	for _, r := range pascal {
		if unicode.IsUpper(r) && len(word) > 0 && unicode.IsLower(word[len(word)-1]) {
			components = append(components, string(word))
			word = word[:0]
		}

		if r == '_' && len(word) > 0 {
			components = append(components, string(word))
			word = word[:0]
			continue
		}

		// Needed for spellings like `Tracking_status`
		if len(word) == 0 && unicode.IsLower(r) {
			word = append(word, unicode.ToUpper(r))
		} else {
			word = append(word, r)
		}
	}

	if len(word) > 0 {
		components = append(components, string(word))
	}

	return Words{components: components, original: pascal}
}

// SplitSnake splits an UPPER_SNAKE or lower_snake identifier into title-cased words
func SplitSnake(snake string) Words {
	var components []string
	for _, segment := range strings.Split(strings.ToUpper(snake), "_") {
		if segment == "" {
			continue
		}
		components = append(components, titlecase(segment))
	}

	if len(components) > 0 && strings.HasPrefix(snake, "_") {
		components[0] = "_" + components[0]
	}

	return Words{components: components, original: snake}
}

func titlecase(segment string) string {
	runes := []rune(segment)
	return string(runes[0]) + strings.ToLower(string(runes[1:]))
}

// merges lists adjacent words that collapse into one
var merges = []struct {
	pair   [2]string
	merged string
}{
	{pair: [2]string{"Counter", "Clockwise"}, merged: "Counterclockwise"},
}

// expansions maps abbreviations to the full words they stand for
var expansions = map[string]string{
	"Func":   "Function",
	"Op":     "Operator",
	"Len":    "Length",
	"Interp": "Interpolation",
	"Mult":   "Multiplication",
	"Param":  "Parameter",
	"Poly":   "Polygon",
	"Assign": "Assignment",
	"Ref":    "Reference",
	"Lib":    "Library",
	"Mem":    "Memory",
	"Tex":    "Texture",
	"Subdiv": "Subdivision",
	"Accel":  "Acceleration",
	"Anim":   "Animation",
	"Expo":   "Exponential",
}

// Normalize merges split compound words and expands abbreviations.
// Applying it twice gives the same result as applying it once.
func (w Words) Normalize() Words {
	present := make([]string, 0, len(w.components))
	for _, word := range w.components {
		if word != "" {
			present = append(present, word)
		}
	}

	merged := make([]string, 0, len(present))
	for i := 0; i < len(present); i++ {
		if i+1 < len(present) {
			if replacement, ok := merge(present[i], present[i+1]); ok {
				merged = append(merged, replacement)
				i++
				continue
			}
		}
		merged = append(merged, present[i])
	}

	components := make([]string, 0, len(merged))
	for _, word := range merged {
		if expanded, ok := expansions[word]; ok {
			word = expanded
		}
		components = append(components, word)
	}

	return Words{components: components, original: w.original}
}

func merge(first, second string) (string, bool) {
	for _, m := range merges {
		if m.pair[0] == first && m.pair[1] == second {
			return m.merged, true
		}
	}
	return "", false
}

// Factor strips the longest prefix of w that repeats the tail of scope.
//
// Nested names usually have the form
//
//	scope:  Foo Bar Baz
//	nested:     Bar Baz Qux
//
// which reduces to just Qux. A cut that would leave the lone word "Type",
// or a name starting with a numeral, is skipped in favor of a shorter one.
func (w Words) Factor(scope Words) Words {
	for k := min(len(w.components)-1, len(scope.components)); k >= 0; k-- {
		if !slices.Equal(w.components[:k], scope.components[len(scope.components)-k:]) {
			continue
		}

		rest := w.components[k:]
		if len(rest) == 1 && rest[0] == "Type" {
			continue
		}
		if startsWithDigit(rest) {
			continue
		}

		return Words{components: slices.Clone(rest), original: w.original}
	}

	return w
}

func startsWithDigit(components []string) bool {
	if len(components) == 0 || components[0] == "" {
		return true
	}
	r := []rune(components[0])[0]
	return unicode.IsDigit(r)
}

// GreatestCommonPrefix returns the words every member of group starts with
func GreatestCommonPrefix(group []Words) Words {
	if len(group) == 0 {
		return Words{}
	}

	shortest := len(group[0].components)
	for _, w := range group[1:] {
		shortest = min(shortest, len(w.components))
	}

	prefix := make([]string, 0, shortest)
	for i := 0; i < shortest; i++ {
		word := group[0].components[i]
		for _, w := range group[1:] {
			if w.components[i] != word {
				return Words{components: prefix}
			}
		}
		prefix = append(prefix, word)
	}

	return Words{components: prefix}
}

// Reserved maps single-word identifiers that collide with keywords of the
// binding language to a safe spelling.
var Reserved = map[string]string{
	"init":     "initialize",
	"func":     "function",
	"continue": "`continue`",
	"class":    "`class`",
	"default":  "`default`",
	"in":       "`in`",
	"import":   "`import`",
	"operator": "`operator`",
	"repeat":   "`repeat`",
	"self":     "`self`",
	"static":   "`static`",
}

// Camelcased lowercases the first word and joins the rest
func (w Words) Camelcased() string {
	if len(w.components) == 0 {
		return w.String()
	}

	head := strings.ToLower(w.components[0])
	if len(w.components) == 1 {
		if escaped, ok := Reserved[head]; ok {
			return escaped
		}
	}

	return head + strings.Join(w.components[1:], "")
}

// String returns the words joined into a PascalCase identifier
func (w Words) String() string {
	return strings.Join(w.components, "")
}

// Original returns the raw identifier the words were split from
func (w Words) Original() string {
	return w.original
}

// Components returns a copy of the word list
func (w Words) Components() []string {
	return slices.Clone(w.components)
}

// Len returns the number of words
func (w Words) Len() int {
	return len(w.components)
}

// IsEmpty reports whether the sequence has no words
func (w Words) IsEmpty() bool {
	return len(w.components) == 0
}

// Equal compares word lists, ignoring the original spelling
func (w Words) Equal(other Words) bool {
	return slices.Equal(w.components, other.components)
}
