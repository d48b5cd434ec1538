package contracts

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	opts := GenOptions{MinLength: 8, MaxLength: 15, TitleCaseChance: 0.5}

	first := Generate(rand.New(rand.NewSource(7)), opts)
	second := Generate(rand.New(rand.NewSource(7)), opts)

	assert.Equal(t, first, second)
}

func TestGenerateSubstitutesEveryPlaceholder(t *testing.T) {
	opts := GenOptions{MinLength: 8, MaxLength: 15, TitleCaseChance: 0.5}

	for seed := int64(0); seed < 20; seed++ {
		generated := Generate(rand.New(rand.NewSource(seed)), opts)
		assert.NotContains(t, generated.Source, "{")
		assert.NotContains(t, generated.Source, "}")
		assert.NotEmpty(t, generated.Name)
		assert.Contains(t, generated.Source, "contract "+generated.Name)
	}
}

func TestGenerateRespectsLengthBounds(t *testing.T) {
	opts := GenOptions{MinLength: 5, MaxLength: 9, TitleCaseChance: 0}
	identifier := regexp.MustCompile(`^[a-z]+$`)

	for seed := int64(0); seed < 20; seed++ {
		generated := Generate(rand.New(rand.NewSource(seed)), opts)
		require.True(t, identifier.MatchString(generated.Name))
		assert.GreaterOrEqual(t, len(generated.Name), 5)
		assert.LessOrEqual(t, len(generated.Name), 9)
	}
}

func TestGenerateTitleCaseChance(t *testing.T) {
	never := GenOptions{MinLength: 8, MaxLength: 15, TitleCaseChance: 0}
	always := GenOptions{MinLength: 8, MaxLength: 15, TitleCaseChance: 1}

	for seed := int64(0); seed < 10; seed++ {
		lower := Generate(rand.New(rand.NewSource(seed)), never)
		assert.Equal(t, strings.ToLower(lower.Name[:1]), lower.Name[:1])

		upper := Generate(rand.New(rand.NewSource(seed)), always)
		assert.Equal(t, strings.ToUpper(upper.Name[:1]), upper.Name[:1])
	}
}

func TestTemplatesDeclareContractName(t *testing.T) {
	require.NotEmpty(t, Templates)
	for _, template := range Templates {
		assert.Contains(t, template, "{contract_name}")
		assert.Contains(t, template, "pragma solidity")
	}
}
