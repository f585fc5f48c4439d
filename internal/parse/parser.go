package parse

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Nomadcxx/tvrename/internal/transform"
)

// UnparsableError reports that no grammar matched a filename. It is
// per-file and never fatal to a batch.
type UnparsableError struct {
	Filename string
}

func (e *UnparsableError) Error() string {
	return fmt.Sprintf("no filename grammar matched %q", e.Filename)
}

// Parser classifies filenames using an ordered grammar list. The first
// grammar whose pattern matches wins; there is no scoring and no
// backtracking across grammars. Parser is immutable after construction and
// safe for concurrent use.
type Parser struct {
	pipeline *transform.Pipeline
	grammars []grammar
	nowFunc  func() time.Time
}

// Option configures a Parser.
type Option func(*Parser) error

// WithGrammarOrder overrides the default grammar priority. The supplied
// names must be a permutation of DefaultGrammarOrder.
func WithGrammarOrder(names []string) Option {
	return func(p *Parser) error {
		known := allGrammars()
		if len(names) != len(known) {
			return fmt.Errorf("grammar order must list all %d grammars, got %d", len(known), len(names))
		}
		ordered := make([]grammar, 0, len(names))
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			g, ok := known[name]
			if !ok {
				return fmt.Errorf("unknown grammar %q", name)
			}
			if seen[name] {
				return fmt.Errorf("duplicate grammar %q", name)
			}
			seen[name] = true
			ordered = append(ordered, g)
		}
		p.grammars = ordered
		return nil
	}
}

// WithClock pins the current time used to resolve two-digit years.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) error {
		p.nowFunc = now
		return nil
	}
}

// New builds a Parser. pipeline may be nil when no input transforms are
// configured.
func New(pipeline *transform.Pipeline, opts ...Option) (*Parser, error) {
	p := &Parser{
		pipeline: pipeline,
		nowFunc:  time.Now,
	}

	known := allGrammars()
	for _, name := range DefaultGrammarOrder() {
		p.grammars = append(p.grammars, known[name])
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Parser) now() time.Time {
	return p.nowFunc()
}

// GrammarOrder returns the active grammar priority, highest first.
func (p *Parser) GrammarOrder() []string {
	names := make([]string, len(p.grammars))
	for i, g := range p.grammars {
		names[i] = g.name
	}
	return names
}

// Parse classifies the file at path into an episode identity. Input
// transforms are applied to a working copy used only for matching; the
// stored original filename is never mutated. The file need not exist, in
// which case its size is recorded as zero.
func (p *Parser) Parse(path string) (*Episode, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	working := stem
	if p.pipeline != nil {
		working = p.pipeline.Apply(transform.StageInput, working)
	}

	for _, g := range p.grammars {
		groups, ok := namedCaptures(g.re, working)
		if !ok {
			continue
		}
		groups["series"] = cleanSeriesName(groups["series"])

		ep, err := g.build(p, groups)
		if err != nil {
			// Pattern matched but captures do not form a valid identity
			// (impossible date, bad number); let later grammars try.
			continue
		}

		ep.OriginalName = base
		ep.Dir = filepath.Dir(path)
		ep.Ext = ext
		if info, err := os.Stat(path); err == nil {
			ep.SizeBytes = info.Size()
		}
		return ep, nil
	}

	return nil, &UnparsableError{Filename: base}
}

func namedCaptures(re *regexp.Regexp, s string) (map[string]string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" {
			groups[name] = m[i]
		}
	}
	return groups, true
}
