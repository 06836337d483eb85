package scan

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Wildcard admits every extension in a whitelist.
const Wildcard = "*"

const excludeMatchTimeout = 100 * time.Millisecond

// Filter decides which discovered files are handed to the converter.
type Filter struct {
	// Whitelist holds normalized extensions; empty or containing Wildcard
	// admits everything.
	Whitelist []string
	// Blacklist wins over Whitelist.
	Blacklist []string
	// Exclude patterns are matched against slash-separated paths relative
	// to the scan root; a matching directory is not descended into.
	Exclude []*regexp2.Regexp
}

// NewFilter creates a Filter from user-supplied extension lists. Entries are
// case-insensitive and may omit the leading dot; "." or "" stands for files
// without an extension.
func NewFilter(whitelist, blacklist []string) *Filter {
	return &Filter{
		Whitelist: normalizeExtensions(whitelist),
		Blacklist: normalizeExtensions(blacklist),
	}
}

// WithExclude compiles the exclude patterns into f.
func (f *Filter) WithExclude(patterns []string) (*Filter, error) {
	for _, p := range patterns {
		re, err := regexp2.Compile(p, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		re.MatchTimeout = excludeMatchTimeout
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

func normalizeExtensions(list []string) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		e = strings.ToLower(strings.TrimSpace(e))
		switch {
		case e == Wildcard:
		case e == "" || e == ".":
			e = ""
		case !strings.HasPrefix(e, "."):
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// ShouldProcess checks whether the file at path passes the extension lists.
func (f *Filter) ShouldProcess(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if contains(f.Blacklist, ext) {
		return false
	}
	if len(f.Whitelist) == 0 || contains(f.Whitelist, Wildcard) {
		return true
	}
	return contains(f.Whitelist, ext)
}

// Excluded reports whether rel, a slash-separated path relative to the scan
// root, matches an exclude pattern. A pattern that times out counts as no
// match.
func (f *Filter) Excluded(rel string) bool {
	for _, re := range f.Exclude {
		if ok, err := re.MatchString(rel); err == nil && ok {
			return true
		}
	}
	return false
}

func contains(list []string, ext string) bool {
	for _, e := range list {
		if e == ext {
			return true
		}
	}
	return false
}
