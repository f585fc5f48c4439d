// Package transform implements the configurable text operations applied to
// filenames before parsing (input stage) and after generation (output stage):
// custom find/replace rules, case folding, accent decomposition and
// filename sanitization.
package transform

import (
	"fmt"
	"regexp"
	"strings"
)

// Stage selects which half of the pipeline Apply runs.
type Stage int

const (
	// StageInput runs before parsing and affects only the string used for
	// pattern matching, never the stored original filename.
	StageInput Stage = iota
	// StageOutput runs on the freshly generated filename.
	StageOutput
)

// Rule is a single find/replace operation. Rules are applied in list
// order; each rule's output feeds the next.
type Rule struct {
	Pattern     string `mapstructure:"pattern"`
	Replacement string `mapstructure:"replacement"`
	IsRegex     bool   `mapstructure:"is_regex"`
}

// Options selects which operations the pipeline performs.
type Options struct {
	InputRules  []Rule
	OutputRules []Rule

	// Lowercase folds the whole name to lower case. It clobbers Titlecase
	// when both are set.
	Lowercase bool
	Titlecase bool

	// NormalizeUnicode decomposes accented characters to their closest
	// unaccented equivalent.
	NormalizeUnicode bool

	// Blacklist is a set of additional characters stripped from filenames.
	// WindowsSafe extends it with the Windows reserved set and control
	// characters. ReplaceWith is substituted for every stripped character.
	Blacklist   string
	WindowsSafe bool
	ReplaceWith string
}

type compiledRule struct {
	re          *regexp.Regexp
	literal     string
	replacement string
}

func (r compiledRule) apply(s string) string {
	if r.re != nil {
		return r.re.ReplaceAllString(s, r.replacement)
	}
	return strings.ReplaceAll(s, r.literal, r.replacement)
}

// Pipeline applies the configured operations for a stage. A Pipeline is
// immutable after construction and safe for concurrent use.
type Pipeline struct {
	opts   Options
	input  []compiledRule
	output []compiledRule
}

// New compiles the replacement rules and returns the pipeline. Invalid
// regular expressions in regex rules are a construction error.
func New(opts Options) (*Pipeline, error) {
	input, err := compileRules(opts.InputRules)
	if err != nil {
		return nil, fmt.Errorf("input replacements: %w", err)
	}
	output, err := compileRules(opts.OutputRules)
	if err != nil {
		return nil, fmt.Errorf("output replacements: %w", err)
	}
	return &Pipeline{opts: opts, input: input, output: output}, nil
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if r.IsRegex {
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", r.Pattern, err)
			}
			compiled = append(compiled, compiledRule{re: re, replacement: r.Replacement})
			continue
		}
		compiled = append(compiled, compiledRule{literal: r.Pattern, replacement: r.Replacement})
	}
	return compiled, nil
}

// Apply runs the operations configured for the given stage.
//
// The input stage applies only the input replacement rules. The output
// stage applies output replacements, then case folding, then accent
// decomposition, and sanitization always last so that replacement text
// itself gets sanitized.
func (p *Pipeline) Apply(stage Stage, text string) string {
	if stage == StageInput {
		for _, r := range p.input {
			text = r.apply(text)
		}
		return text
	}

	for _, r := range p.output {
		text = r.apply(text)
	}

	switch {
	case p.opts.Lowercase:
		text = strings.ToLower(text)
	case p.opts.Titlecase:
		text = TitleCase(text)
	}

	if p.opts.NormalizeUnicode {
		text = StripDiacritics(text)
	}

	return MakeValidFilename(text, p.opts.WindowsSafe, p.opts.Blacklist, p.opts.ReplaceWith)
}

// Sanitize applies only the sanitization step with the pipeline's
// configured blacklist. Used for directory-template substitutions, which
// are sanitized per field instead of through the output stage.
func (p *Pipeline) Sanitize(text string) string {
	return MakeValidFilename(text, p.opts.WindowsSafe, p.opts.Blacklist, p.opts.ReplaceWith)
}
