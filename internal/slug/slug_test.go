package slug

import (
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

func TestGenerate_TitleWithPunctuation(t *testing.T) {
	g := New(42)

	s := g.Generate("My Climate App!!")

	assert.Regexp(t, `^my-climate-app-[a-z0-9]{5}$`, s)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"My Climate App!!", "my-climate-app"},
		{"  Hello   World  ", "hello-world"},
		{"already-slug-like", "already-slug-like"},
		{"a -- b", "a-b"},
		{"--leading and trailing--", "leading-and-trailing"},
		{"Café Bar", "caf-bar"},
		{"tabs\tand\nnewlines", "tabs-and-newlines"},
		{"a ! b", "a-b"},
		{"a!b", "ab"},
		{"!!!", ""},
		{"", ""},
		{"日本語", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.title))
		})
	}
}

func TestGenerate_EmptyBaseYieldsSuffixOnly(t *testing.T) {
	g := New(1)

	for _, title := range []string{"", "!!!", "日本語", "   "} {
		s := g.Generate(title)
		assert.Len(t, s, SuffixLength, "title %q", title)
		assert.Regexp(t, slugPattern, s)
	}
}

func TestGenerate_AlwaysURLSafe(t *testing.T) {
	g := New(7)
	titles := []string{
		"Ecosystem Builder", "FinWave", "EcoTech Startup", "ÀÉÎÕÜ", "🚀 Rocket 🚀",
		"100% Organic_Farm", "a/b\\c?d=e&f", strings.Repeat("long title ", 30),
	}

	for _, title := range titles {
		s := g.Generate(title)
		require.NotEmpty(t, s)
		assert.Regexp(t, slugPattern, s, "title %q", title)
		assert.False(t, strings.HasPrefix(s, "-"))
		assert.NotContains(t, s, "--")
	}
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	a := New(99)
	b := New(99)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Generate("Same Title"), b.Generate("Same Title"))
	}
}

func TestGenerate_SuffixesRarelyCollide(t *testing.T) {
	g := Default()
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		seen[g.Generate("Same Title")] = true
	}

	// 36^5 possible suffixes.
	assert.GreaterOrEqual(t, len(seen), 995)
}

func TestGenerate_ConcurrentUse(t *testing.T) {
	g := New(3)
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Regexp(t, slugPattern, g.Generate("parallel title"))
			}
		}()
	}
	wg.Wait()
}
