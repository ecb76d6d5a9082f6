package identity

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultMaxRandomAttempts bounds the random-suffix phase.
	DefaultMaxRandomAttempts = 10
	// DefaultMaxFallbackAttempts bounds the counter phase.
	DefaultMaxFallbackAttempts = 50

	randomSuffixSpace = 10000
	// Leaves room for any suffix within the 50 character username limit.
	maxBaseRunes = 30
	fallbackBase = "user"
)

// lower folds s to lower case. A Caser keeps state, so each call gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// NormalizeUsernameBase derives the stem of a generated username from a
// display name: trimmed, lower-cased and with all whitespace removed. Every
// other printable character is kept, so "O'Brien" gives "o'brien" and "李雷"
// stays "李雷". Bases longer than 30 characters are cut; an empty result
// falls back to "user".
func NormalizeUsernameBase(name string) string {
	lowered := lower(strings.TrimSpace(name))

	var b strings.Builder
	n := 0
	for _, r := range lowered {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			continue
		}
		if n == maxBaseRunes {
			break
		}
		b.WriteRune(r)
		n++
	}

	if b.Len() == 0 {
		return fallbackBase
	}
	return b.String()
}

// UsernameGenerator yields username candidates for a base.
//
// The first MaxRandomAttempts candidates append a random number in
// [0, 9999]. After that it appends a process-wide counter starting at 10000,
// which random candidates can never produce. Candidate reports false once
// both phases are spent, so callers retrying on uniqueness faults always
// terminate.
type UsernameGenerator struct {
	maxRandom   int
	maxFallback int
	intN        func(n int) int
	counter     atomic.Int64
}

// UsernameGeneratorOption configures a UsernameGenerator
type UsernameGeneratorOption func(*UsernameGenerator)

// WithAttemptLimits overrides both phase bounds.
func WithAttemptLimits(random, fallback int) UsernameGeneratorOption {
	return func(g *UsernameGenerator) {
		g.maxRandom = random
		g.maxFallback = fallback
	}
}

// WithRandomSource replaces the random suffix source. Used by tests.
func WithRandomSource(intN func(n int) int) UsernameGeneratorOption {
	return func(g *UsernameGenerator) {
		g.intN = intN
	}
}

// NewUsernameGenerator creates a generator with default bounds
func NewUsernameGenerator(opts ...UsernameGeneratorOption) *UsernameGenerator {
	g := &UsernameGenerator{
		maxRandom:   DefaultMaxRandomAttempts,
		maxFallback: DefaultMaxFallbackAttempts,
		intN:        rand.IntN,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.counter.Store(randomSuffixSpace - 1)
	return g
}

// Candidate returns the username to try on the given zero-based attempt.
func (g *UsernameGenerator) Candidate(base string, attempt int) (string, bool) {
	switch {
	case attempt < 0:
		return "", false
	case attempt < g.maxRandom:
		return base + strconv.Itoa(g.intN(randomSuffixSpace)), true
	case attempt < g.maxRandom+g.maxFallback:
		return base + strconv.FormatInt(g.counter.Add(1), 10), true
	default:
		return "", false
	}
}

// MaxAttempts is the total number of candidates Candidate will produce.
func (g *UsernameGenerator) MaxAttempts() int {
	return g.maxRandom + g.maxFallback
}
