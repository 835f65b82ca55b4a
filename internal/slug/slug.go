// Package slug derives URL-safe project identifiers from titles.
package slug

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"strings"
	"sync"
	"unicode"
)

const (
	SuffixLength = 5
	alphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Generator appends a random base-36 suffix to a normalized title. The same
// seed and call sequence always produce the same slugs.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Default seeds the generator from crypto/rand.
func Default() *Generator {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("slug: failed to seed generator: " + err.Error())
	}
	return New(int64(binary.LittleEndian.Uint64(b[:])))
}

// Generate returns base + "-" + suffix, or just the suffix when nothing of
// the title survives normalization.
func (g *Generator) Generate(title string) string {
	base := Normalize(title)
	suffix := g.suffix()
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

func (g *Generator) suffix() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := make([]byte, SuffixLength)
	for i := range b {
		b[i] = alphabet[g.rng.Intn(len(alphabet))]
	}
	return string(b)
}

// Normalize lowercases the title, keeps [a-z0-9], whitespace and hyphens,
// turns whitespace runs into a single hyphen, collapses repeated hyphens and
// trims hyphens from both ends.
func Normalize(title string) string {
	var sb strings.Builder
	lastHyphen := true
	pendingSpace := false

	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSpace && !lastHyphen {
				sb.WriteByte('-')
			}
			pendingSpace = false
			sb.WriteRune(r)
			lastHyphen = false
		case r == '-':
			pendingSpace = false
			if !lastHyphen {
				sb.WriteByte('-')
				lastHyphen = true
			}
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}

	return strings.TrimRight(sb.String(), "-")
}
