package contracts

import (
	"math/rand"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

const identifierAlphabet = "abcdefghijklmnopqrstuvwxyz"

// GenOptions bounds the generated identifiers and controls the cosmetic
// casing of the contract name
type GenOptions struct {
	MinLength int
	MaxLength int

	// TitleCaseChance is the probability of capitalizing the contract name.
	// A cosmetic knob with no behavioral significance beyond varying the
	// deployed bytecode superficially.
	TitleCaseChance float64
}

// Generated is an instantiated contract source ready for compilation
type Generated struct {
	Name   string
	Source string
}

// Generate picks a random template and substitutes every placeholder with a
// random identifier. The function is pure with respect to the rng: a seeded
// rng yields a deterministic result.
func Generate(rng *rand.Rand, opts GenOptions) Generated {
	template := Templates[rng.Intn(len(Templates))]

	values := make(map[string]string)
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		name := match[1]
		if _, seen := values[name]; !seen {
			values[name] = randomIdentifier(rng, opts.MinLength, opts.MaxLength)
		}
	}

	if rng.Float64() < opts.TitleCaseChance {
		values["contract_name"] = titleCase(values["contract_name"])
	}

	source := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		return values[match[1:len(match)-1]]
	})

	return Generated{
		Name:   values["contract_name"],
		Source: source,
	}
}

// randomIdentifier generates a lowercase identifier with a length in
// [minLen, maxLen]
func randomIdentifier(rng *rand.Rand, minLen, maxLen int) string {
	length := minLen + rng.Intn(maxLen-minLen+1)
	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteByte(identifierAlphabet[rng.Intn(len(identifierAlphabet))])
	}
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
