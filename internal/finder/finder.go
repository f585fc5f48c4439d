// Package finder discovers candidate media files: extension filtering,
// filename blacklisting, optional recursion, deduplication by absolute
// path.
package finder

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// InvalidPathError reports a path that does not exist. It is per-path and
// never fatal to the batch; the caller decides whether zero total results
// is fatal.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q", e.Path)
}

// BlacklistRule excludes files by name. Plain rules are substring matches
// against the filename; regex rules are full regular expressions. FullPath
// matches against the whole path instead of the base name.
type BlacklistRule struct {
	Pattern  string `mapstructure:"pattern"`
	IsRegex  bool   `mapstructure:"is_regex"`
	FullPath bool   `mapstructure:"full_path"`
}

// Finder locates candidate files under one or more paths.
type Finder struct {
	extensions map[string]bool
	blacklist  []compiledBlacklist
	recursive  bool
}

type compiledBlacklist struct {
	re       *regexp.Regexp
	literal  string
	fullPath bool
}

// New builds a Finder. extensions are matched case-insensitively, with or
// without a leading dot; an empty list accepts every extension.
func New(extensions []string, blacklist []BlacklistRule, recursive bool) (*Finder, error) {
	f := &Finder{recursive: recursive}

	if len(extensions) > 0 {
		f.extensions = make(map[string]bool, len(extensions))
		for _, ext := range extensions {
			f.extensions["."+strings.ToLower(strings.TrimPrefix(ext, "."))] = true
		}
	}

	for _, rule := range blacklist {
		if rule.IsRegex {
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				return nil, fmt.Errorf("blacklist pattern %q: %w", rule.Pattern, err)
			}
			f.blacklist = append(f.blacklist, compiledBlacklist{re: re, fullPath: rule.FullPath})
			continue
		}
		f.blacklist = append(f.blacklist, compiledBlacklist{literal: rule.Pattern, fullPath: rule.FullPath})
	}

	return f, nil
}

// Find returns the absolute paths of candidate files under path. A file
// path is returned as-is if it passes the filters; a directory is listed
// (recursively when configured).
func (f *Finder) Find(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &InvalidPathError{Path: path}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &InvalidPathError{Path: path}
	}

	if !info.IsDir() {
		if f.accepts(abs) {
			return []string{abs}, nil
		}
		return nil, nil
	}

	var found []string
	if f.recursive {
		err = filepath.WalkDir(abs, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && f.accepts(p) {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return found, nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		p := filepath.Join(abs, entry.Name())
		if f.accepts(p) {
			found = append(found, p)
		}
	}
	return found, nil
}

// FindAll aggregates Find over multiple paths, deduplicating by absolute
// path and sorting for deterministic processing order. Invalid paths are
// reported through onInvalid (may be nil) and skipped.
func (f *Finder) FindAll(paths []string, onInvalid func(error)) []string {
	seen := make(map[string]bool)
	var all []string

	for _, path := range paths {
		found, err := f.Find(path)
		if err != nil {
			if onInvalid != nil {
				onInvalid(err)
			}
			continue
		}
		for _, p := range found {
			if !seen[p] {
				seen[p] = true
				all = append(all, p)
			}
		}
	}

	sort.Strings(all)
	return all
}

func (f *Finder) accepts(path string) bool {
	if f.extensions != nil && !f.extensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}

	base := filepath.Base(path)
	for _, rule := range f.blacklist {
		subject := base
		if rule.fullPath {
			subject = path
		}
		if rule.re != nil {
			if rule.re.MatchString(subject) {
				return false
			}
			continue
		}
		if strings.Contains(subject, rule.literal) {
			return false
		}
	}
	return true
}
