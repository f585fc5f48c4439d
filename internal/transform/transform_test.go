package transform

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplacementRulesChainInOrder(t *testing.T) {
	p, err := New(Options{
		OutputRules: []Rule{
			{Pattern: "with a", Replacement: "with_a"},
			{Pattern: "_", Replacement: "-"},
		},
	})
	require.NoError(t, err)

	// Second rule must see the first rule's output.
	got := p.Apply(StageOutput, "Show with a Name")
	assert.Equal(t, "Show with-a Name", got)
}

func TestRegexReplacementRule(t *testing.T) {
	p, err := New(Options{
		InputRules: []Rule{
			{Pattern: `\[.*?\]`, Replacement: "", IsRegex: true},
		},
	})
	require.NoError(t, err)

	got := p.Apply(StageInput, "[GroupTag] Show - 01")
	assert.Equal(t, " Show - 01", got)
}

func TestInvalidRegexRuleErrors(t *testing.T) {
	_, err := New(Options{
		InputRules: []Rule{{Pattern: "(", IsRegex: true}},
	})
	assert.Error(t, err)
}

func TestStagesAreIndependent(t *testing.T) {
	p, err := New(Options{
		InputRules:  []Rule{{Pattern: "in", Replacement: "IN"}},
		OutputRules: []Rule{{Pattern: "out", Replacement: "OUT"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "INput out", p.Apply(StageInput, "input out"))
	assert.Equal(t, "input OUT", p.Apply(StageOutput, "input out"))
}

func TestLowercaseClobbersTitlecase(t *testing.T) {
	p, err := New(Options{Lowercase: true, Titlecase: true})
	require.NoError(t, err)

	assert.Equal(t, "my first day", p.Apply(StageOutput, "My FIRST Day"))
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"my first day", "My First Day"},
		{"the cat and the hat", "The Cat and the Hat"},
		{"journey to the center of the earth", "Journey to the Center of the Earth"},
		{"a tale of two cities", "A Tale of Two Cities"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleCase(tt.in))
	}
}

func TestStripDiacritics(t *testing.T) {
	assert.Equal(t, "Cafe con leche", StripDiacritics("Café con leche"))
	assert.Equal(t, "Amelie", StripDiacritics("Amélie"))
	assert.Equal(t, "plain ascii", StripDiacritics("plain ascii"))
}

func TestMakeValidFilename(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		windowsSafe bool
		blacklist   string
		replaceWith string
		want        string
	}{
		{
			name: "slash always stripped",
			in:   "a/b",
			want: "ab",
		},
		{
			name:        "windows reserved characters",
			in:          `a<b>c:d"e\f|g?h*i`,
			windowsSafe: true,
			want:        "abcdefghi",
		},
		{
			name:        "custom blacklist with replacement",
			in:          "a&b",
			blacklist:   "&",
			replaceWith: "+",
			want:        "a+b",
		},
		{
			name:        "control characters stripped when windows safe",
			in:          "a\x01b",
			windowsSafe: true,
			want:        "ab",
		},
		{
			name:        "trailing dots trimmed when windows safe",
			in:          "name.",
			windowsSafe: true,
			want:        "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MakeValidFilename(tt.in, tt.windowsSafe, tt.blacklist, tt.replaceWith)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplacementTextIsItselfSanitized(t *testing.T) {
	// A replacement string containing a blacklisted character must not
	// reintroduce it.
	got := MakeValidFilename("a:b", true, "", ":-")
	assert.Equal(t, "a-b", got)
	assert.False(t, strings.Contains(got, ":"))
}

func TestSanitizationRunsAfterCustomReplacements(t *testing.T) {
	// An output rule that inserts an illegal character still yields a
	// clean filename because sanitization runs last.
	p, err := New(Options{
		OutputRules: []Rule{{Pattern: "-", Replacement: ":"}},
		WindowsSafe: true,
	})
	require.NoError(t, err)

	got := p.Apply(StageOutput, "show - episode")
	assert.NotContains(t, got, ":")
}

func TestSanitizeHelperForDirectorySubstitutions(t *testing.T) {
	p, err := New(Options{Blacklist: "!", ReplaceWith: "_"})
	require.NoError(t, err)

	assert.Equal(t, "Show_ Name", p.Sanitize("Show! Name"))
}

func TestApplyIsSafeForConcurrentUse(t *testing.T) {
	p, err := New(Options{Titlecase: true, WindowsSafe: true})
	require.NoError(t, err)

	inputs := []string{
		"scrubs - my first day",
		"the office - gossip of the year",
		"show with an accent and a colon:",
	}
	want := make([]string, len(inputs))
	for i, in := range inputs {
		want[i] = p.Apply(StageOutput, in)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				in := inputs[i%len(inputs)]
				assert.Equal(t, want[i%len(inputs)], p.Apply(StageOutput, in))
			}
		}()
	}
	wg.Wait()
}
